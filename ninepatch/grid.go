package ninepatch

import "image"

// Grid describes the stretchable regions of a 9-Patch as 3x3 grid divided
// by 4 lines.
type Grid struct {
	// Size specifies the total dimensions including static and stretch regions.
	Size image.Point
	// X1 is the distance in pixels before the stretchable region along the X axis.
	// X2 is the distance in pixels after the stretchable region along the X axis.
	X1, X2 int
	// Y1 is the distance in pixels before the stretchable region along the Y axis.
	// Y2 is the distance in pixels after the stretchable region along the Y axis.
	Y1, Y2 int
}

// GridOf divides an area of the given size by insets.
func GridOf(size image.Point, in Insets) Grid {
	return Grid{
		Size: size,
		X1:   in.Left,
		X2:   in.Right,
		Y1:   in.Top,
		Y2:   in.Bottom,
	}
}

// Static returns the statically known dimensions (the corners).
func (g Grid) Static() image.Point {
	return image.Point{
		X: g.X1 + g.X2,
		Y: g.Y1 + g.Y2,
	}
}

// Stretch returns the stretch dimensions (the space between the corners).
func (g Grid) Stretch() image.Point {
	stretch := g.Size.Sub(g.Static())
	if stretch.X < 0 {
		stretch.X = 0
	}
	if stretch.Y < 0 {
		stretch.Y = 0
	}
	return stretch
}

// Columns returns the x offsets of the four grid lines.
func (g Grid) Columns() [4]int {
	return [4]int{0, g.X1, g.Size.X - g.X2, g.Size.X}
}

// Rows returns the y offsets of the four grid lines.
func (g Grid) Rows() [4]int {
	return [4]int{0, g.Y1, g.Size.Y - g.Y2, g.Size.Y}
}
