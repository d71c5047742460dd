// Package widget displays composed nine-patch sources in a Gio layout.
package widget

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/compose"
)

// CachedImage is a cacheable image operation.
type CachedImage paint.ImageOp

// Cache the image operation of src.
func (img *CachedImage) Cache(src *image.NRGBA) {
	*img = CachedImage(paint.NewImageOp(src))
}

// Op returns the concrete image operation.
func (img CachedImage) Op() paint.ImageOp {
	return paint.ImageOp(img)
}

// Empty reports whether nothing has been cached yet.
func (img CachedImage) Empty() bool {
	return paint.ImageOp(img) == (paint.ImageOp{})
}

// Surface lays out Source composed to fill the minimum constraints.
//
// The composed image is kept until the size or the parameters change. Call
// Invalidate after replacing Source or mutating its pixels.
type Surface struct {
	Source  image.Image
	Params  compose.Params
	Options compose.Options

	cache CachedImage
	key   surfaceKey
	// renders counts compositions, for tests.
	renders int
}

type surfaceKey struct {
	size   image.Point
	params compose.Params
}

// Invalidate drops the cached composition.
func (s *Surface) Invalidate() {
	s.cache = CachedImage{}
}

// Layout paints the composed source over gtx.Constraints.Min.
func (s *Surface) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Min
	if s.Source == nil || size.X <= 0 || size.Y <= 0 {
		return layout.Dimensions{Size: size}
	}
	key := surfaceKey{size: size, params: s.Params}
	if s.cache.Empty() || key != s.key {
		img, err := compose.Render(s.Source, s.Params, size, s.Options)
		if err != nil {
			patchkit.Logger().Warn("composing surface", "size", size, "error", err)
			return layout.Dimensions{Size: size}
		}
		s.cache.Cache(img)
		s.key = key
		s.renders++
	}
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	s.cache.Op().Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	return layout.Dimensions{Size: size}
}
