package geom

import (
	"math/rand"
	"testing"

	"github.com/tidwall/assert"
)

func TestNewRect(t *testing.T) {
	r, err := NewRect(0, 0, 10, 10)
	assert.Assert(err == nil)
	assert.Assert(r.MinX == 0 && r.MaxX == 10)

	_, err = NewRect(10, 0, 0, 10)
	assert.Assert(err != nil)
	_, err = NewRect(0, 10, 10, 0)
	assert.Assert(err != nil)

	// degenerate is allowed
	r, err = NewRect(5, 5, 5, 5)
	assert.Assert(err == nil)
	assert.Assert(r.Width() == 0 && r.Height() == 0 && r.Area() == 0)
}

func TestRectFromCoords(t *testing.T) {
	_, ok := RectFromCoords(nil)
	assert.Assert(!ok)

	coords := []Coordinate{{X: 1, Y: 2}, {X: 5, Y: 8}, {X: 3, Y: 4}}
	r, ok := RectFromCoords(coords)
	assert.Assert(ok)
	assert.Assert(r == Rect{MinX: 1, MinY: 2, MaxX: 5, MaxY: 8})
}

// The derived rect must contain every input coordinate and be the
// tightest such rect: every edge is attained by some coordinate.
func TestRectFromCoordsTightest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(50)
		coords := make([]Coordinate, n)
		for i := range coords {
			coords[i] = Coordinate{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		}
		r, ok := RectFromCoords(coords)
		if !ok {
			t.Fatal("expected a rect")
		}
		var hitMinX, hitMinY, hitMaxX, hitMaxY bool
		for _, c := range coords {
			if !r.ContainsCoordinate(c) {
				t.Fatalf("coordinate %v outside derived rect %v", c, r)
			}
			hitMinX = hitMinX || c.X == r.MinX
			hitMinY = hitMinY || c.Y == r.MinY
			hitMaxX = hitMaxX || c.X == r.MaxX
			hitMaxY = hitMaxY || c.Y == r.MaxY
		}
		if !(hitMinX && hitMinY && hitMaxX && hitMaxY) {
			t.Fatalf("rect %v not tight for input", r)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 5, 5}
	b := Rect{3, 3, 8, 8}
	assert.Assert(a.Intersects(b) && b.Intersects(a))

	c := Rect{6, 6, 9, 9}
	assert.Assert(!a.Intersects(c))

	// touching edge and corner count as intersecting
	assert.Assert(a.Intersects(Rect{5, 0, 10, 5}))
	assert.Assert(a.Intersects(Rect{5, 5, 10, 10}))
}

func TestRectContains(t *testing.T) {
	outer := Rect{0, 0, 10, 10}
	inner := Rect{2, 2, 5, 5}
	assert.Assert(outer.Contains(inner))
	assert.Assert(!inner.Contains(outer))
	assert.Assert(outer.Contains(outer))
	assert.Assert(outer.ContainsCoordinate(Coordinate{X: 10, Y: 10}))
	assert.Assert(!outer.ContainsCoordinate(Coordinate{X: 10.1, Y: 10}))
}

func TestRectExpand(t *testing.T) {
	a := Rect{0, 0, 5, 5}
	b := Rect{3, 3, 8, 8}
	u := a.Expand(b)
	assert.Assert(u == Rect{0, 0, 8, 8})
	assert.Assert(u.Contains(a) && u.Contains(b))

	// mutual containment implies equality
	if a.Contains(b) && b.Contains(a) {
		t.Fatal("disjoint-ish rects cannot mutually contain")
	}
	assert.Assert(a.Contains(a) && a == a.Expand(a))
}

func TestRectBufferCenter(t *testing.T) {
	r := Rect{5, 5, 10, 10}
	assert.Assert(r.Buffer(2) == Rect{3, 3, 12, 12})
	assert.Assert(r.Center() == Coordinate{X: 7.5, Y: 7.5})
}
