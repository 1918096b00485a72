package index

import "github.com/geost/geost/geom"

// PreFilter is the bounding-rect pre-test used before exact geometric
// checks. It returns false only when a and b provably cannot intersect
// (disjoint envelopes). A true result is a candidate, not a match: callers
// that need precision must follow with an exact test. False negatives are
// impossible.
func PreFilter(a, b geom.Rect) bool {
	return a.Intersects(b)
}

// PreFilterGeoms applies PreFilter to two geometries' cached rects. A
// geometry without a rect cannot be proven disjoint from anything, so the
// result is conservatively true.
func PreFilterGeoms(a, b *geom.Geometry) bool {
	ra, ok := a.Rect()
	if !ok {
		return true
	}
	rb, ok := b.Rect()
	if !ok {
		return true
	}
	return PreFilter(ra, rb)
}
