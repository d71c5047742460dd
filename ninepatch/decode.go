package ninepatch

import (
	"image"
)

// NinePatch is a pre-authored 9-Patch with its marker border removed.
type NinePatch struct {
	// Image is the drawable area, without the 1px marker border.
	Image *image.NRGBA
	// Stretch holds the cap insets derived from the top and left lines.
	Stretch Insets
	// Content holds the paddings derived from the bottom and right lines.
	Content Insets
	// Marked reports whether stretch markers were present. When false the
	// insets fall back to thirds.
	Marked bool
}

// Decode a 9-Patch from src.
//
// Only opaque black pixels along the border are markers. Each line is
// reduced to the envelope of its runs. A source without any stretch marker
// is still decoded, stretching the middle third on both axes.
func Decode(src image.Image) (*NinePatch, error) {
	buf := FromImage(src)
	defer buf.Release()
	env, err := ScanMergedEnvelope(buf)
	if err != nil {
		return nil, err
	}
	marked := env != nil
	if !marked {
		env = &Envelope{
			InnerWidth:  buf.Width() - 2,
			InnerHeight: buf.Height() - 2,
			StretchX:    NoRun,
			StretchY:    NoRun,
			ContentX:    NoRun,
			ContentY:    NoRun,
		}
	}
	return &NinePatch{
		Image:   trimBorder(buf),
		Stretch: env.StretchInsets(),
		Content: env.ContentInsets(),
		Marked:  marked,
	}, nil
}

// trimBorder copies the drawable area inside the 1px marker border.
func trimBorder(buf *PixelBuffer) *image.NRGBA {
	return buf.SubImage(buf.Bounds().Inset(1))
}

// Grid returns the 3x3 division of the drawable area.
func (np *NinePatch) Grid() Grid {
	return GridOf(np.Image.Bounds().Size(), np.Stretch)
}
