package model

// Rect is an axis-aligned rectangle on the integer grid. X and Y are the
// top-left corner.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Overlaps returns true if the interiors of a and b intersect.
// Rectangles that only share an edge or a corner do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// Overlaps is the method form of Overlaps.
func (r Rect) Overlaps(other Rect) bool {
	return Overlaps(r, other)
}

// Within reports whether r lies entirely inside bounds.
func (r Rect) Within(bounds Rect) bool {
	return r.X >= bounds.X && r.Y >= bounds.Y &&
		r.X+r.Width <= bounds.X+bounds.Width &&
		r.Y+r.Height <= bounds.Y+bounds.Height
}

// Area returns width times height.
func (r Rect) Area() int {
	return r.Width * r.Height
}
