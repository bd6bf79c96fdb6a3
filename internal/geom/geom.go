// Package geom holds the float geometry shared by shapes, handles and the viewport.
package geom

import (
	"image"
	"math"
)

// Point is a position in either logical or screen space.
type Point struct {
	X, Y float64
}

// Size is a width and height pair, used for the default creation size.
type Size struct {
	Width, Height float64
}

// Rect is an axis aligned rectangle anchored at (X, Y). Width and Height may be
// negative while a shape is being drawn towards the top or left.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Normalize returns r with non-negative width and height covering the same area.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains reports whether (x, y) lies strictly inside r. Points on an edge are
// outside. The result does not depend on the sign of Width or Height.
func (r Rect) Contains(x, y float64) bool {
	return between(x, r.X, r.X+r.Width) && between(y, r.Y, r.Y+r.Height)
}

func between(v, a, b float64) bool {
	return (v > a && v < b) || (v < a && v > b)
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Image converts r to an integer rectangle, rounding outwards so strokes are not
// clipped.
func (r Rect) Image() image.Rectangle {
	n := r.Normalize()
	return image.Rect(
		int(math.Floor(n.X)),
		int(math.Floor(n.Y)),
		int(math.Ceil(n.X+n.Width)),
		int(math.Ceil(n.Y+n.Height)),
	)
}

// Finite reports whether every field of r is a finite number.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
