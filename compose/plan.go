// Package compose renders a source bitmap as a nine or three slice image of
// any destination size.
//
// Rendering happens in two steps. NewPlan maps the source, its insets and a
// destination size onto blit operations; Draw executes a plan against a
// destination image. Plans never retain the source.
package compose

import (
	"fmt"
	"image"
	"math"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/inset"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// Part names a cell of the 3x3 grid.
type Part uint8

const (
	TopLeft Part = iota
	TopRight
	BottomLeft
	BottomRight
	TopEdge
	BottomEdge
	LeftEdge
	RightEdge
	Center
)

func (p Part) String() string {
	switch p {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case TopEdge:
		return "top"
	case BottomEdge:
		return "bottom"
	case LeftEdge:
		return "left"
	case RightEdge:
		return "right"
	case Center:
		return "center"
	}
	return fmt.Sprintf("Part(%d)", uint8(p))
}

// Blit copies Src, in natural source pixels, scaled into Dst, in
// destination pixels.
type Blit struct {
	Part Part
	Src  image.Rectangle
	Dst  image.Rectangle
}

// Tile describes a tiled center: Src is resampled once into a tile of Size
// and repeated across Dst, with the pattern origin at Dst.Min.
type Tile struct {
	Src  image.Rectangle
	Size image.Point
	Dst  image.Rectangle
}

// Fragments lists the visible tile placements. Each fragment's Src is in
// tile coordinates; fragments along the trailing edges are clipped to Dst.
func (t Tile) Fragments() []Blit {
	if t.Size.X <= 0 || t.Size.Y <= 0 || t.Dst.Empty() {
		return nil
	}
	var frags []Blit
	for y := t.Dst.Min.Y; y < t.Dst.Max.Y; y += t.Size.Y {
		for x := t.Dst.Min.X; x < t.Dst.Max.X; x += t.Size.X {
			dst := image.Rectangle{
				Min: image.Pt(x, y),
				Max: image.Pt(x, y).Add(t.Size),
			}.Intersect(t.Dst)
			frags = append(frags, Blit{
				Part: Center,
				Src:  image.Rectangle{Max: dst.Size()},
				Dst:  dst,
			})
		}
	}
	return frags
}

// Params describes what to render.
type Params struct {
	// Natural is the size of the source in pixels.
	Natural image.Point
	// Scale is the density the source was authored at.
	Scale ninepatch.Scale
	// Insets are in display (1x) units.
	Insets ninepatch.Insets
	Mode   ninepatch.Mode
	Center ninepatch.CenterMode
}

// ParamsOf returns the render parameters of an inset model snapshot.
func ParamsOf(st inset.State) Params {
	return Params{
		Natural: st.Natural,
		Scale:   st.Scale,
		Insets:  st.Insets,
		Mode:    st.Mode,
		Center:  st.Center,
	}
}

// Validate reports whether p can be rendered.
func (p Params) Validate() error {
	if p.Natural.X <= 0 || p.Natural.Y <= 0 {
		return fmt.Errorf("%w: source %v", ninepatch.ErrInvalidDimensions, p.Natural)
	}
	if err := p.Scale.Validate(); err != nil {
		return err
	}
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: resizing mode %q", ninepatch.ErrInvalidMode, string(p.Mode))
	}
	if !p.Center.Valid() {
		return fmt.Errorf("%w: center mode %q", ninepatch.ErrInvalidMode, string(p.Center))
	}
	return nil
}

// Display returns the source size in display (1x) units.
func (p Params) Display() image.Point {
	return image.Point{
		X: p.Scale.Display(p.Natural.X),
		Y: p.Scale.Display(p.Natural.Y),
	}
}

// Effective returns the insets that take part in slicing: the axis
// suppressed by a 3-part mode is zeroed and the rest is clamped against the
// display size, shrinking the trailing edge when a pair overflows.
func (p Params) Effective() ninepatch.Insets {
	in := p.Insets
	if !p.Mode.Vertical() {
		in.Top, in.Bottom = 0, 0
	}
	if !p.Mode.Horizontal() {
		in.Left, in.Right = 0, 0
	}
	return inset.Clamp(in, p.Display(), inset.Right, inset.Bottom)
}

// Plan is the list of blits rendering a source at Size.
type Plan struct {
	Size  image.Point
	Blits []Blit
	// Tile is set when the center is tiled rather than stretched. The
	// center is then absent from Blits.
	Tile *Tile
}

// round half up, as used for every display to destination conversion.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// NewPlan computes the blits that render p at size.
//
// Edge thicknesses are scaled and rounded; the center takes the remainder so
// that edges and center always meet without gaps.
func NewPlan(p Params, size image.Point) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	if size.X < 0 || size.Y < 0 {
		return Plan{}, fmt.Errorf("%w: destination %v", ninepatch.ErrInvalidDimensions, size)
	}
	var (
		disp   = p.Display()
		in     = p.Effective()
		center = image.Point{
			X: max(0, disp.X-in.Horizontal()),
			Y: max(0, disp.Y-in.Vertical()),
		}
		s   = int(p.Scale)
		kx  = float64(size.X) / float64(disp.X)
		ky  = float64(size.Y) / float64(disp.Y)
		src = in.Mul(s)
		sc  = center.Mul(s)
		sw  = p.Natural.X
		sh  = p.Natural.Y
		dst = ninepatch.Grid{
			Size: size,
			X1:   round(float64(in.Left) * kx),
			X2:   round(float64(in.Right) * kx),
			Y1:   round(float64(in.Top) * ky),
			Y2:   round(float64(in.Bottom) * ky),
		}
		cols = dst.Columns()
		rows = dst.Rows()
		dc   = dst.Stretch()
		plan = Plan{Size: size}
	)
	add := func(part Part, sx, sy, sdx, sdy, dx, dy, ddx, ddy int) {
		if sdx <= 0 || sdy <= 0 || ddx <= 0 || ddy <= 0 {
			return
		}
		plan.Blits = append(plan.Blits, Blit{
			Part: part,
			Src:  image.Rect(sx, sy, sx+sdx, sy+sdy),
			Dst:  image.Rect(dx, dy, dx+ddx, dy+ddy),
		})
	}
	add(TopLeft, 0, 0, src.Left, src.Top, 0, 0, dst.X1, dst.Y1)
	add(TopRight, sw-src.Right, 0, src.Right, src.Top, cols[2], 0, dst.X2, dst.Y1)
	add(BottomLeft, 0, sh-src.Bottom, src.Left, src.Bottom, 0, rows[2], dst.X1, dst.Y2)
	add(BottomRight, sw-src.Right, sh-src.Bottom, src.Right, src.Bottom, cols[2], rows[2], dst.X2, dst.Y2)
	if p.Mode.Vertical() {
		add(TopEdge, src.Left, 0, sc.X, src.Top, dst.X1, 0, dc.X, dst.Y1)
		add(BottomEdge, src.Left, sh-src.Bottom, sc.X, src.Bottom, dst.X1, rows[2], dc.X, dst.Y2)
	}
	if p.Mode.Horizontal() {
		add(LeftEdge, 0, src.Top, src.Left, sc.Y, 0, dst.Y1, dst.X1, dc.Y)
		add(RightEdge, sw-src.Right, src.Top, src.Right, sc.Y, cols[2], dst.Y1, dst.X2, dc.Y)
	}
	if dc.X > 0 && dc.Y > 0 && sc.X > 0 && sc.Y > 0 {
		var (
			csrc = image.Rect(src.Left, src.Top, src.Left+sc.X, src.Top+sc.Y)
			cdst = image.Rect(dst.X1, dst.Y1, dst.X1+dc.X, dst.Y1+dc.Y)
		)
		switch p.Center {
		case ninepatch.Stretch:
			plan.Blits = append(plan.Blits, Blit{Part: Center, Src: csrc, Dst: cdst})
		case ninepatch.Tile:
			plan.Tile = &Tile{
				Src: csrc,
				Size: image.Point{
					X: max(1, round(float64(center.X)*kx)),
					Y: max(1, round(float64(center.Y)*ky)),
				},
				Dst: cdst,
			}
		}
	}
	patchkit.Logger().Debug("compose plan",
		"size", size, "blits", len(plan.Blits), "tiled", plan.Tile != nil)
	return plan, nil
}
