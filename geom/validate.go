package geom

import (
	"fmt"
	"math"
)

// ringCloseEps is the tolerance used by the construction-time ring closure
// pre-check (IEEE 754 machine epsilon). IsValid checks closure by exact
// value equality.
const ringCloseEps = 2.220446049250313e-16

func validateLine(coords []Coordinate) error {
	if len(coords) < 2 {
		return fmt.Errorf("%w: linestring requires at least 2 points, got %d",
			ErrInvalidGeometry, len(coords))
	}
	return nil
}

func validatePolygon(exterior []Coordinate, holes [][]Coordinate) error {
	if err := validateRing(exterior); err != nil {
		return err
	}
	for i, hole := range holes {
		if err := validateRing(hole); err != nil {
			return fmt.Errorf("hole %d: %w", i, err)
		}
	}
	return nil
}

func validateRing(ring []Coordinate) error {
	if len(ring) < 4 {
		return fmt.Errorf("%w: ring requires at least 4 points, got %d",
			ErrInvalidGeometry, len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if math.Abs(first.X-last.X) > ringCloseEps ||
		math.Abs(first.Y-last.Y) > ringCloseEps {
		return fmt.Errorf("%w: ring is not closed (first and last points must be equal)",
			ErrInvalidGeometry)
	}
	return nil
}

// IsValid is a cheap structural check usable without reconstructing the
// geometry: line lengths, ring lengths and exact ring closure, non-empty
// multi variants. It recurses into collections and reports false on the
// first violation.
func (g *Geometry) IsValid() bool {
	switch g.kind {
	case Point:
		return true
	case LineString:
		return len(g.coords) >= 2
	case Polygon:
		return validPolyData(g.poly)
	case MultiPoint:
		return len(g.coords) > 0
	case MultiLineString:
		if len(g.lines) == 0 {
			return false
		}
		for _, line := range g.lines {
			if len(line) < 2 {
				return false
			}
		}
		return true
	case MultiPolygon:
		if len(g.polys) == 0 {
			return false
		}
		for _, p := range g.polys {
			if !validPolyData(p) {
				return false
			}
		}
		return true
	case Collection:
		if len(g.geoms) == 0 {
			return false
		}
		for i := range g.geoms {
			if !g.geoms[i].IsValid() {
				return false
			}
		}
		return true
	}
	return false
}

func validPolyData(p PolygonData) bool {
	if !validRing(p.Exterior) {
		return false
	}
	for _, h := range p.Holes {
		if !validRing(h) {
			return false
		}
	}
	return true
}

func validRing(ring []Coordinate) bool {
	if len(ring) < 4 {
		return false
	}
	return ring[0].Equal2D(ring[len(ring)-1])
}
