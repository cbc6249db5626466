package core

import "fmt"

// Point represents a 2D grid coordinate, origin at bottom-left, Y grows upward
type Point struct {
	X, Y int
}

// Add returns p offset by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// String formats the point as (x,y)
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Manhattan returns |dx| + |dy| between a and b
func Manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Adjacent reports whether a and b share an edge under 4-connectivity
func Adjacent(a, b Point) bool {
	return Manhattan(a, b) == 1
}
