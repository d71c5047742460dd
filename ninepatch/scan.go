package ninepatch

import (
	"fmt"
	"image"

	"gioui.org/layout"
)

// MarkerRun is a closed interval [Begin, End] of interior coordinates
// covered by consecutive marker pixels.
type MarkerRun struct {
	Begin, End int
}

// NoRun is the invalid run reported for a line without markers.
var NoRun = MarkerRun{Begin: -1, End: -1}

func (r MarkerRun) IsValid() bool {
	return r.Begin > -1 && r.End >= r.Begin
}

// Len returns the number of pixels covered by the run.
func (r MarkerRun) Len() int {
	if !r.IsValid() {
		return 0
	}
	return r.End - r.Begin + 1
}

// Bounds is a rectangle in interior coordinates. Right and Bottom are
// exclusive.
type Bounds struct {
	Left, Top, Right, Bottom int
}

// Geometry holds every marker run found along the border of a 9-Patch.
type Geometry struct {
	// SourceWidth and SourceHeight include the 1px border.
	SourceWidth, SourceHeight int
	// InnerWidth and InnerHeight exclude the 1px border.
	InnerWidth, InnerHeight int
	// StretchX runs come from the top line, StretchY runs from the left line.
	StretchX, StretchY []MarkerRun
	// Content is the padding box described by the first run of the bottom
	// and right lines, or the whole interior on an axis without a run.
	Content Bounds
}

// border names the four marker lines of a 9-Patch.
type border struct {
	top, left, bottom, right []bool
}

// readBorder samples the four border lines of buf.
func readBorder(buf *PixelBuffer) (border, error) {
	w, h := buf.Width(), buf.Height()
	if w < 3 || h < 3 {
		return border{}, fmt.Errorf("%w: 9-Patch must be at least 3x3, got %dx%d", ErrInvalidDimensions, w, h)
	}
	return border{
		top:    walk(buf, 0, layout.Horizontal),
		left:   walk(buf, 0, layout.Vertical),
		bottom: walk(buf, h-1, layout.Horizontal),
		right:  walk(buf, w-1, layout.Vertical),
	}, nil
}

// walk pixels in buf along the main axis at the given cross axis offset,
// skipping the two corner pixels. Index 0 of the result is the first
// interior pixel.
func walk(buf *PixelBuffer, offset int, axis layout.Axis) []bool {
	var (
		end = axis.Convert(image.Pt(buf.Width(), buf.Height())).X - 1
		on  = make([]bool, 0, end)
	)
	for ii := 1; ii < end; ii++ {
		pt := axis.Convert(image.Point{X: ii, Y: offset})
		on = append(on, buf.IsMarker(pt.X, pt.Y))
	}
	return on
}

// segments groups consecutive set positions into runs. A run opens on a
// false to true transition and closes on a true to false transition or at
// the end of the line.
func segments(on []bool) []MarkerRun {
	var (
		runs  []MarkerRun
		start = -1
	)
	for ii, set := range on {
		if set && start < 0 {
			start = ii
		}
		if !set && start > -1 {
			runs = append(runs, MarkerRun{Begin: start, End: ii - 1})
			start = -1
		}
	}
	if start > -1 {
		runs = append(runs, MarkerRun{Begin: start, End: len(on) - 1})
	}
	return runs
}

// envelope returns the smallest run containing every run, or NoRun.
func envelope(runs []MarkerRun) MarkerRun {
	if len(runs) == 0 {
		return NoRun
	}
	env := runs[0]
	for _, r := range runs[1:] {
		if r.Begin < env.Begin {
			env.Begin = r.Begin
		}
		if r.End > env.End {
			env.End = r.End
		}
	}
	return env
}

// ScanSegments recovers every disjoint stretch run and the content padding
// box from the marker border of buf.
//
// A nil Geometry with a nil error means that neither the top nor the left
// line carries a marker.
func ScanSegments(buf *PixelBuffer) (*Geometry, error) {
	lines, err := readBorder(buf)
	if err != nil {
		return nil, err
	}
	var (
		innerW = len(lines.top)
		innerH = len(lines.left)
		sx     = segments(lines.top)
		sy     = segments(lines.left)
	)
	if len(sx) == 0 && len(sy) == 0 {
		return nil, nil
	}
	content := Bounds{Right: innerW, Bottom: innerH}
	if cx := segments(lines.bottom); len(cx) > 0 {
		content.Left, content.Right = cx[0].Begin, cx[0].End+1
	}
	if cy := segments(lines.right); len(cy) > 0 {
		content.Top, content.Bottom = cy[0].Begin, cy[0].End+1
	}
	return &Geometry{
		SourceWidth:  buf.Width(),
		SourceHeight: buf.Height(),
		InnerWidth:   innerW,
		InnerHeight:  innerH,
		StretchX:     sx,
		StretchY:     sy,
		Content:      content,
	}, nil
}

// Envelope is the merged form of a scan: each border line is reduced to the
// min/max envelope of its runs, NoRun where the line has none.
type Envelope struct {
	InnerWidth, InnerHeight int
	StretchX, StretchY      MarkerRun
	ContentX, ContentY      MarkerRun
}

// ScanMergedEnvelope scans buf like ScanSegments but keeps only the
// envelope of each line, as needed to derive a single inset pair per axis.
//
// A nil Envelope with a nil error means that neither the top nor the left
// line carries a marker.
func ScanMergedEnvelope(buf *PixelBuffer) (*Envelope, error) {
	lines, err := readBorder(buf)
	if err != nil {
		return nil, err
	}
	env := &Envelope{
		InnerWidth:  len(lines.top),
		InnerHeight: len(lines.left),
		StretchX:    envelope(segments(lines.top)),
		StretchY:    envelope(segments(lines.left)),
		ContentX:    envelope(segments(lines.bottom)),
		ContentY:    envelope(segments(lines.right)),
	}
	if !env.StretchX.IsValid() && !env.StretchY.IsValid() {
		return nil, nil
	}
	return env, nil
}

// thirds is the stretch run used on an axis without markers: the middle
// third of n pixels.
func thirds(n int) MarkerRun {
	t := n / 3
	return MarkerRun{Begin: t, End: n - 1 - t}
}

// StretchInsets converts the stretch envelopes into insets. An axis without
// markers stretches its middle third.
func (e Envelope) StretchInsets() Insets {
	x, y := e.StretchX, e.StretchY
	if !x.IsValid() {
		x = thirds(e.InnerWidth)
	}
	if !y.IsValid() {
		y = thirds(e.InnerHeight)
	}
	return Insets{
		Left:   x.Begin,
		Right:  e.InnerWidth - 1 - x.End,
		Top:    y.Begin,
		Bottom: e.InnerHeight - 1 - y.End,
	}
}

// ContentInsets converts the content envelopes into paddings. An axis
// without content markers reuses the stretch insets.
func (e Envelope) ContentInsets() Insets {
	in := e.StretchInsets()
	if x := e.ContentX; x.IsValid() {
		in.Left, in.Right = x.Begin, e.InnerWidth-1-x.End
	}
	if y := e.ContentY; y.IsValid() {
		in.Top, in.Bottom = y.Begin, e.InnerHeight-1-y.End
	}
	return in
}
