/*
Package debug renders an annotated preview of an inset model: the source on
a transparency checkerboard with the cap inset guides drawn over it.
*/
package debug

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/inset"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

const (
	// CheckerSize is the side of a checkerboard square in pixels.
	CheckerSize = 8
	// DashOn and DashOff are the guide dash pattern in pixels.
	DashOn  = 6
	DashOff = 4
)

var (
	CheckerLight = hex("#eeeeee")
	CheckerDark  = hex("#dddddd")
	// Vertical guides mark the left and right insets.
	Vertical = hex("#007aff")
	// Horizontal guides mark the top and bottom insets.
	Horizontal = hex("#ff3b30")
	Overlay    = withAlpha(hex("#007aff"), 0.08)
	Label      = hex("#1c1c1e")
)

// ToNRGBA converts a colorful.Color to the nearest representable color.NRGBA.
func ToNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func hex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Errorf("parsing color %q: %w", s, err))
	}
	return ToNRGBA(c)
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a*255 + 0.5)
	return c
}

// Canvas renders src at the display size of st with inset guides drawn
// over it. Guides for an axis that a 3-part mode suppresses are omitted.
func Canvas(src image.Image, st inset.State) *image.NRGBA {
	var (
		size = st.Canvas
		dst  = image.NewNRGBA(image.Rectangle{Max: size})
	)
	if size.X <= 0 || size.Y <= 0 {
		return dst
	}
	checker(dst)
	if src != nil && !src.Bounds().Empty() {
		src = ninepatch.Raster(src)
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}
	in := compose.ParamsOf(st).Effective()
	center := image.Rect(in.Left, in.Top, size.X-in.Right, size.Y-in.Bottom)
	draw.Draw(dst, center, image.NewUniform(Overlay), image.Point{}, draw.Over)
	if st.Mode.Horizontal() {
		vline(dst, in.Left, Vertical)
		vline(dst, size.X-in.Right, Vertical)
	}
	if st.Mode.Vertical() {
		hline(dst, in.Top, Horizontal)
		hline(dst, size.Y-in.Bottom, Horizontal)
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(Label),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, basicfont.Face7x13.Ascent+2),
	}
	d.DrawString(Caption(st))
	return dst
}

// Caption describes the mode, center mode and scale of st.
func Caption(st inset.State) string {
	return fmt.Sprintf("mode=%s, center=%s, scale=%s", st.Mode, st.Center, st.Scale)
}

func checker(dst *image.NRGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := CheckerLight
			if (x/CheckerSize+y/CheckerSize)%2 == 1 {
				c = CheckerDark
			}
			dst.SetNRGBA(x, y, c)
		}
	}
}

func dash(pos int) bool {
	return pos%(DashOn+DashOff) < DashOn
}

// vline draws a dashed guide at x, pulled inside the canvas at the far edge.
func vline(dst *image.NRGBA, x int, c color.NRGBA) {
	b := dst.Bounds()
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if dash(y) {
			dst.SetNRGBA(x, y, c)
		}
	}
}

func hline(dst *image.NRGBA, y int, c color.NRGBA) {
	b := dst.Bounds()
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		if dash(x) {
			dst.SetNRGBA(x, y, c)
		}
	}
}
