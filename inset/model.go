// Package inset holds the editable inset model of a nine-patch editing
// session.
//
// Insets are kept in display (1x) units of the attached source. Every
// mutation re-clamps them so that the center region never collapses:
// left+right stays below the canvas width and top+bottom below the canvas
// height.
package inset

import (
	"errors"
	"fmt"
	"image"
	"math"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

var (
	// ErrNoSource reports an operation that needs an attached bitmap.
	ErrNoSource = errors.New("no source attached")
	// ErrPriority reports a clamp priority naming an edge of the wrong axis.
	ErrPriority = errors.New("invalid clamp priority")
)

// Edge names one of the four guide lines.
type Edge uint8

const (
	Left Edge = iota
	Right
	Top
	Bottom
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("Edge(%d)", uint8(e))
}

// Bitmap is a source image whose memory is released explicitly.
type Bitmap interface {
	image.Image
	Release()
}

// Patch is a partial inset update. Nil fields are left unchanged.
type Patch struct {
	Left, Right, Top, Bottom *int
}

// Value returns a pointer to v, for building a Patch.
func Value(v int) *int {
	return &v
}

// PatchOf sets every field of a Patch from in.
func PatchOf(in ninepatch.Insets) Patch {
	return Patch{
		Left:   Value(in.Left),
		Right:  Value(in.Right),
		Top:    Value(in.Top),
		Bottom: Value(in.Bottom),
	}
}

// apply merges p over in.
func (p Patch) apply(in ninepatch.Insets) ninepatch.Insets {
	if p.Left != nil {
		in.Left = *p.Left
	}
	if p.Right != nil {
		in.Right = *p.Right
	}
	if p.Top != nil {
		in.Top = *p.Top
	}
	if p.Bottom != nil {
		in.Bottom = *p.Bottom
	}
	return in
}

// State is a snapshot of the model.
type State struct {
	// Natural is the size of the attached source in pixels.
	Natural image.Point
	// Canvas is the natural size in display units: max(1, round(natural/scale)).
	Canvas image.Point
	// Scale is the density the source was authored at.
	Scale  ninepatch.Scale
	Insets ninepatch.Insets
	Mode   ninepatch.Mode
	Center ninepatch.CenterMode
}

// Model is the inset state of one editing session. It owns the attached
// source bitmap and releases it when replaced.
//
// Model is not safe for concurrent use; see package session.
type Model struct {
	src   Bitmap
	state State
}

// New returns an empty 9-part, stretch model at 1x.
func New() *Model {
	return &Model{
		state: State{
			Scale:  1,
			Mode:   ninepatch.NinePart,
			Center: ninepatch.Stretch,
		},
	}
}

// State returns a snapshot of the model.
func (m *Model) State() State {
	return m.state
}

// Source borrows the attached bitmap. The caller must not retain it past
// the next mutation of the model.
func (m *Model) Source() Bitmap {
	return m.src
}

// Attach replaces the source bitmap, releasing the previous one, and
// re-clamps the insets against the new canvas.
func (m *Model) Attach(src Bitmap, scale ninepatch.Scale) error {
	if err := scale.Validate(); err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("attaching: %w", ErrNoSource)
	}
	size := src.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("attaching %v source: %w", size, ninepatch.ErrInvalidDimensions)
	}
	if m.src != nil && m.src != src {
		patchkit.Logger().Debug("releasing replaced bitmap", "size", m.state.Natural)
		m.src.Release()
	}
	m.src = src
	m.state.Natural = size
	m.state.Scale = scale
	m.resize()
	return nil
}

// Release frees the attached bitmap and empties the model.
func (m *Model) Release() {
	if m.src != nil {
		patchkit.Logger().Debug("releasing bitmap", "size", m.state.Natural)
		m.src.Release()
	}
	m.src = nil
	m.state.Natural = image.Point{}
	m.state.Canvas = image.Point{}
}

// SetScale changes the source density, keeping the natural size.
func (m *Model) SetScale(scale ninepatch.Scale) error {
	if err := scale.Validate(); err != nil {
		return err
	}
	m.state.Scale = scale
	if m.src != nil {
		m.resize()
	}
	return nil
}

// SetMode changes the resizing and center modes. Insets are kept as they
// are; the compositor decides which of them apply.
func (m *Model) SetMode(mode ninepatch.Mode, center ninepatch.CenterMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: resizing mode %q", ninepatch.ErrInvalidMode, string(mode))
	}
	if !center.Valid() {
		return fmt.Errorf("%w: center mode %q", ninepatch.ErrInvalidMode, string(center))
	}
	m.state.Mode = mode
	m.state.Center = center
	return nil
}

// SetInsets merges p into the insets and clamps the result.
//
// When a pair of opposite insets overflows the canvas, the edge named by
// horizontal (Left or Right) or vertical (Top or Bottom) gives way. An
// interactive drag passes the edge opposite to the one being dragged so
// that the dragged edge holds while it pushes the other one.
func (m *Model) SetInsets(p Patch, horizontal, vertical Edge) error {
	if horizontal != Left && horizontal != Right {
		return fmt.Errorf("%w: %v is not horizontal", ErrPriority, horizontal)
	}
	if vertical != Top && vertical != Bottom {
		return fmt.Errorf("%w: %v is not vertical", ErrPriority, vertical)
	}
	if m.src == nil {
		return fmt.Errorf("setting insets: %w", ErrNoSource)
	}
	m.state.Insets = Clamp(p.apply(m.state.Insets), m.state.Canvas, horizontal, vertical)
	return nil
}

// NearestEdge returns the guide line closest to the canvas point (x, y).
// Vertical guides are measured along x, horizontal guides along y. Ties go
// to the first of left, right, top, bottom.
func (m *Model) NearestEdge(x, y float64) Edge {
	var (
		in = m.state.Insets
		c  = m.state.Canvas
	)
	dist := [...]float64{
		Left:   math.Abs(x - float64(in.Left)),
		Right:  math.Abs(x - float64(c.X-in.Right)),
		Top:    math.Abs(y - float64(in.Top)),
		Bottom: math.Abs(y - float64(c.Y-in.Bottom)),
	}
	nearest := Left
	for e := Right; e <= Bottom; e++ {
		if dist[e] < dist[nearest] {
			nearest = e
		}
	}
	return nearest
}

// resize recomputes the canvas from the natural size and re-clamps with
// the default priorities.
func (m *Model) resize() {
	s := m.state.Scale
	m.state.Canvas = image.Point{
		X: s.Display(m.state.Natural.X),
		Y: s.Display(m.state.Natural.Y),
	}
	m.state.Insets = Clamp(m.state.Insets, m.state.Canvas, Right, Bottom)
}

// Clamp limits each inset to [0, dimension-1] and then, if a pair still
// covers the whole dimension, shrinks the edge named by horizontal or
// vertical so that one pixel of center remains.
func Clamp(in ninepatch.Insets, size image.Point, horizontal, vertical Edge) ninepatch.Insets {
	in.Left = clamp(in.Left, size.X-1)
	in.Right = clamp(in.Right, size.X-1)
	in.Top = clamp(in.Top, size.Y-1)
	in.Bottom = clamp(in.Bottom, size.Y-1)
	if in.Left+in.Right >= size.X {
		if horizontal == Left {
			in.Left = clamp(size.X-in.Right-1, size.X-1)
		} else {
			in.Right = clamp(size.X-in.Left-1, size.X-1)
		}
	}
	if in.Top+in.Bottom >= size.Y {
		if vertical == Top {
			in.Top = clamp(size.Y-in.Bottom-1, size.Y-1)
		} else {
			in.Bottom = clamp(size.Y-in.Top-1, size.Y-1)
		}
	}
	return in
}

// clamp v to [0, hi], with hi floored at zero.
func clamp(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
