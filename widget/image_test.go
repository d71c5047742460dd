package widget

import (
	"image"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"

	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

func gtxOf(size image.Point) layout.Context {
	return layout.Context{
		Ops:         new(op.Ops),
		Constraints: layout.Exact(size),
	}
}

func surface() *Surface {
	src := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for ii := 0; ii < len(src.Pix); ii += 4 {
		src.Pix[ii+1], src.Pix[ii+3] = 200, 255
	}
	return &Surface{
		Source: src,
		Params: compose.Params{
			Natural: image.Pt(30, 30),
			Scale:   3,
			Insets:  ninepatch.Insets{Left: 2, Right: 2, Top: 2, Bottom: 2},
			Mode:    ninepatch.NinePart,
			Center:  ninepatch.Stretch,
		},
	}
}

func TestSurfaceCaches(t *testing.T) {
	s := surface()
	for _, tt := range []struct {
		Label   string
		Size    image.Point
		Mutate  func(s *Surface)
		Renders int
	}{
		{Label: "first layout", Size: image.Pt(20, 40), Renders: 1},
		{Label: "same size", Size: image.Pt(20, 40), Renders: 1},
		{Label: "resized", Size: image.Pt(25, 40), Renders: 2},
		{
			Label:   "mode change",
			Size:    image.Pt(25, 40),
			Mutate:  func(s *Surface) { s.Params.Center = ninepatch.Tile },
			Renders: 3,
		},
		{
			Label:   "invalidated",
			Size:    image.Pt(25, 40),
			Mutate:  func(s *Surface) { s.Invalidate() },
			Renders: 4,
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			if tt.Mutate != nil {
				tt.Mutate(s)
			}
			dims := s.Layout(gtxOf(tt.Size))
			if dims.Size != tt.Size {
				t.Errorf("dimensions: got %v, want %v", dims.Size, tt.Size)
			}
			if s.renders != tt.Renders {
				t.Errorf("renders: got %d, want %d", s.renders, tt.Renders)
			}
			if got := s.cache.Op().Size(); got != tt.Size {
				t.Errorf("cached image size: got %v, want %v", got, tt.Size)
			}
		})
	}
}

func TestSurfaceInvalid(t *testing.T) {
	s := surface()
	s.Params.Scale = 7
	dims := s.Layout(gtxOf(image.Pt(10, 10)))
	if dims.Size != image.Pt(10, 10) {
		t.Errorf("dimensions: got %v", dims.Size)
	}
	if !s.cache.Empty() {
		t.Errorf("invalid parameters must not cache an image")
	}
	s = &Surface{}
	if dims := s.Layout(gtxOf(image.Pt(5, 5))); dims.Size != image.Pt(5, 5) {
		t.Errorf("empty surface dimensions: got %v", dims.Size)
	}
}
