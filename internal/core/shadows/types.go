package shadows

// Point represents a 2D position in world space
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in world space
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r, boundary included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of r
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Corners returns the corners of r clockwise from the top-left
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// Segment represents one occluding edge considered by the visibility sweep
type Segment struct {
	A, B Point
}
