package ninepatch

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Precision describes how the channels of a Source are stored.
type Precision uint8

const (
	// Uint8 channels hold values in 0-255.
	Uint8 Precision = iota
	// Float channels hold normalized values in 0-1.
	Float
)

func (p Precision) String() string {
	switch p {
	case Uint8:
		return "uint8"
	case Float:
		return "float"
	}
	return fmt.Sprintf("Precision(%d)", uint8(p))
}

// Source describes raw row-major RGBA pixels as handed over by a decoder.
// Exactly one of Uint8 or Float is read, as selected by Precision.
type Source struct {
	Width, Height int
	Precision     Precision
	Uint8         []uint8
	Float         []float32
}

// PixelBuffer is an immutable 8-bit NRGBA raster.
//
// The backing memory is held until Release is called. A released buffer
// reports empty bounds.
type PixelBuffer struct {
	pix *image.NRGBA
}

// Ingest resolves src into a PixelBuffer. Float channels are rescaled to
// 0-255 once, here, so that marker classification only ever sees 8-bit
// values.
func Ingest(src Source) (*PixelBuffer, error) {
	if src.Width < 0 || src.Height < 0 ||
		(src.Width > 0 && src.Height > math.MaxInt32/4/src.Width) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, src.Width, src.Height)
	}
	n := src.Width * src.Height * 4
	switch src.Precision {
	case Uint8:
		if len(src.Uint8) != n {
			return nil, fmt.Errorf("%w: %d channel values for %dx%d", ErrInvalidDimensions, len(src.Uint8), src.Width, src.Height)
		}
	case Float:
		if len(src.Float) != n {
			return nil, fmt.Errorf("%w: %d channel values for %dx%d", ErrInvalidDimensions, len(src.Float), src.Width, src.Height)
		}
	default:
		return nil, fmt.Errorf("unknown precision %v", src.Precision)
	}
	img := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	if src.Precision == Uint8 {
		copy(img.Pix, src.Uint8)
	} else {
		for ii, v := range src.Float {
			img.Pix[ii] = toByte(v)
		}
	}
	return &PixelBuffer{pix: img}, nil
}

// toByte rescales a normalized channel to 0-255.
func toByte(v float32) uint8 {
	f := math.Round(float64(v) * 255)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// FromImage copies any decoded image into a PixelBuffer whose origin is
// (0, 0).
func FromImage(src image.Image) *PixelBuffer {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if nrgba, ok := src.(*image.NRGBA); ok {
		// Copy rows directly, a round trip through premultiplied alpha
		// would lose the color of translucent pixels.
		for y := 0; y < b.Dy(); y++ {
			off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Pix[y*img.Stride:y*img.Stride+4*b.Dx()], nrgba.Pix[off:off+4*b.Dx()])
		}
		return &PixelBuffer{pix: img}
	}
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &PixelBuffer{pix: img}
}

// NRGBA exposes the backing raster, nil once released. The image must not
// be modified.
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	if b == nil {
		return nil
	}
	return b.pix
}

// Raster unwraps src to its backing *image.NRGBA when it has one, so that
// resampling takes the NRGBA fast path. Other images are returned as is.
func Raster(src image.Image) image.Image {
	if r, ok := src.(interface{ NRGBA() *image.NRGBA }); ok {
		if img := r.NRGBA(); img != nil {
			return img
		}
	}
	return src
}

// Width of the buffer in pixels.
func (b *PixelBuffer) Width() int {
	return b.Bounds().Dx()
}

// Height of the buffer in pixels.
func (b *PixelBuffer) Height() int {
	return b.Bounds().Dy()
}

func (b *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *PixelBuffer) Bounds() image.Rectangle {
	if b == nil || b.pix == nil {
		return image.Rectangle{}
	}
	return b.pix.Rect
}

func (b *PixelBuffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

// NRGBAAt returns the 8-bit channels at (x, y), or transparent black
// outside the bounds.
func (b *PixelBuffer) NRGBAAt(x, y int) color.NRGBA {
	if b == nil || b.pix == nil {
		return color.NRGBA{}
	}
	return b.pix.NRGBAAt(x, y)
}

// IsMarker reports whether the pixel at (x, y) is an opaque black 9-Patch
// marker: any non-zero alpha with zero color channels.
func (b *PixelBuffer) IsMarker(x, y int) bool {
	c := b.NRGBAAt(x, y)
	return c.A > 0 && c.R == 0 && c.G == 0 && c.B == 0
}

// SubImage returns a copy of the pixels inside r, translated to the origin.
func (b *PixelBuffer) SubImage(r image.Rectangle) *image.NRGBA {
	r = r.Intersect(b.Bounds())
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if b.pix != nil {
		draw.Draw(out, out.Bounds(), b.pix, r.Min, draw.Src)
	}
	return out
}

// Release frees the backing pixels. The buffer must not be used for
// anything but Bounds afterwards.
func (b *PixelBuffer) Release() {
	if b != nil {
		b.pix = nil
	}
}

// Released reports whether Release has been called.
func (b *PixelBuffer) Released() bool {
	return b == nil || b.pix == nil
}
