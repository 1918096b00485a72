package geom

import "fmt"

// Rect is an axis-aligned bounding rectangle. A degenerate rect (min equal
// to max on either axis) is valid; a point's rect is fully degenerate.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewRect returns a rect after checking the min<=max invariant on both axes.
func NewRect(minX, minY, maxX, maxY float64) (Rect, error) {
	if minX > maxX {
		return Rect{}, fmt.Errorf("%w: min x (%v) must be <= max x (%v)",
			ErrInvalidGeometry, minX, maxX)
	}
	if minY > maxY {
		return Rect{}, fmt.Errorf("%w: min y (%v) must be <= max y (%v)",
			ErrInvalidGeometry, minY, maxY)
	}
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, nil
}

// RectFromCoords folds min/max over a coordinate set. The ok result is
// false when the set is empty.
func RectFromCoords(coords []Coordinate) (r Rect, ok bool) {
	if len(coords) == 0 {
		return Rect{}, false
	}
	r = Rect{
		MinX: coords[0].X, MinY: coords[0].Y,
		MaxX: coords[0].X, MaxY: coords[0].Y,
	}
	for _, c := range coords[1:] {
		if c.X < r.MinX {
			r.MinX = c.X
		}
		if c.Y < r.MinY {
			r.MinY = c.Y
		}
		if c.X > r.MaxX {
			r.MaxX = c.X
		}
		if c.Y > r.MaxY {
			r.MaxY = c.Y
		}
	}
	return r, true
}

// Intersects reports whether the rects share any point. Touching edges and
// corners count; the intersection test is closed on all boundaries.
func (r Rect) Intersects(other Rect) bool {
	return r.MinX <= other.MaxX && r.MaxX >= other.MinX &&
		r.MinY <= other.MaxY && r.MaxY >= other.MinY
}

// Contains reports whether other lies entirely inside r, boundaries
// included.
func (r Rect) Contains(other Rect) bool {
	return r.MinX <= other.MinX && r.MaxX >= other.MaxX &&
		r.MinY <= other.MinY && r.MaxY >= other.MaxY
}

// ContainsCoordinate reports whether the coordinate lies inside r,
// boundaries included.
func (r Rect) ContainsCoordinate(c Coordinate) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// Expand returns the union of two rects.
func (r Rect) Expand(other Rect) Rect {
	if other.MinX < r.MinX {
		r.MinX = other.MinX
	}
	if other.MinY < r.MinY {
		r.MinY = other.MinY
	}
	if other.MaxX > r.MaxX {
		r.MaxX = other.MaxX
	}
	if other.MaxY > r.MaxY {
		r.MaxY = other.MaxY
	}
	return r
}

// Buffer grows the rect by dist in all four directions.
func (r Rect) Buffer(dist float64) Rect {
	return Rect{
		MinX: r.MinX - dist, MinY: r.MinY - dist,
		MaxX: r.MaxX + dist, MaxY: r.MaxY + dist,
	}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Center returns the midpoint of the rect.
func (r Rect) Center() Coordinate {
	return Coordinate{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}
