// Package ninepatch implements the data model and marker scanning of
// stretchable 9-Patch images.
// https://developer.android.com/guide/topics/graphics/drawables#nine-patch
package ninepatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions reports an image too small to scan or slice.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrInvalidScale reports a source or target scale outside 1x-3x.
	ErrInvalidScale = errors.New("invalid scale")
	// ErrInvalidMode reports an unknown resizing or center mode.
	ErrInvalidMode = errors.New("invalid mode")
)

// Insets describes the thickness of the unscaled border on each side.
type Insets struct {
	Left, Right, Top, Bottom int
}

// Horizontal returns the combined thickness of the left and right edges.
func (in Insets) Horizontal() int {
	return in.Left + in.Right
}

// Vertical returns the combined thickness of the top and bottom edges.
func (in Insets) Vertical() int {
	return in.Top + in.Bottom
}

// Mul scales every inset by k.
func (in Insets) Mul(k int) Insets {
	return Insets{
		Left:   in.Left * k,
		Right:  in.Right * k,
		Top:    in.Top * k,
		Bottom: in.Bottom * k,
	}
}

// Mode selects how an image is divided into slices.
type Mode string

const (
	NinePart            Mode = "9-part"
	ThreePartHorizontal Mode = "3-part-horizontal"
	ThreePartVertical   Mode = "3-part-vertical"
)

// Valid reports whether m is one of the known resizing modes.
func (m Mode) Valid() bool {
	switch m {
	case NinePart, ThreePartHorizontal, ThreePartVertical:
		return true
	}
	return false
}

// Horizontal reports whether the left and right edges take part in slicing.
func (m Mode) Horizontal() bool {
	return m != ThreePartVertical
}

// Vertical reports whether the top and bottom edges take part in slicing.
func (m Mode) Vertical() bool {
	return m != ThreePartHorizontal
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: resizing mode %q", ErrInvalidMode, string(m))
	}
	return []byte(m), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v := Mode(b)
	if !v.Valid() {
		return fmt.Errorf("%w: resizing mode %q", ErrInvalidMode, string(b))
	}
	*m = v
	return nil
}

// CenterMode selects how the center slice fills its area.
type CenterMode string

const (
	Stretch CenterMode = "stretch"
	Tile    CenterMode = "tile"
)

// Valid reports whether c is one of the known center modes.
func (c CenterMode) Valid() bool {
	return c == Stretch || c == Tile
}

func (c CenterMode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: center mode %q", ErrInvalidMode, string(c))
	}
	return []byte(c), nil
}

func (c *CenterMode) UnmarshalText(b []byte) error {
	v := CenterMode(b)
	if !v.Valid() {
		return fmt.Errorf("%w: center mode %q", ErrInvalidMode, string(b))
	}
	*c = v
	return nil
}

// Scale is a display density multiplier: 1x, 2x or 3x.
type Scale int

// Scales lists every supported scale in ascending order.
var Scales = [...]Scale{1, 2, 3}

// Validate reports ErrInvalidScale for anything but 1, 2 or 3.
func (s Scale) Validate() error {
	if s < 1 || s > 3 {
		return fmt.Errorf("%w: %d", ErrInvalidScale, int(s))
	}
	return nil
}

func (s Scale) String() string {
	return fmt.Sprintf("%dx", int(s))
}

// Display converts a natural pixel length into display (1x) units, never
// returning less than one.
func (s Scale) Display(natural int) int {
	v := (2*natural + int(s)) / (2 * int(s))
	if v < 1 {
		return 1
	}
	return v
}
