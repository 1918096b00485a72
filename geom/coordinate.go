package geom

import (
	"fmt"
	"math"
)

// Coordinate is an immutable 2-4 dimensional position. The Z and M values
// are optional and tracked by the HasZ/HasM fields rather than NaN
// sentinels, so every stored component is always a finite number.
type Coordinate struct {
	X, Y float64
	Z, M float64
	HasZ bool
	HasM bool
}

// NewCoordinate returns a validated 2-D coordinate.
func NewCoordinate(x, y float64) (Coordinate, error) {
	if err := checkFinite(x, "x"); err != nil {
		return Coordinate{}, err
	}
	if err := checkFinite(y, "y"); err != nil {
		return Coordinate{}, err
	}
	return Coordinate{X: x, Y: y}, nil
}

// NewCoordinateZ returns a validated 3-D coordinate.
func NewCoordinateZ(x, y, z float64) (Coordinate, error) {
	c, err := NewCoordinate(x, y)
	if err != nil {
		return Coordinate{}, err
	}
	if err := checkFinite(z, "z"); err != nil {
		return Coordinate{}, err
	}
	c.Z, c.HasZ = z, true
	return c, nil
}

// NewCoordinateZM returns a validated 4-D coordinate.
func NewCoordinateZM(x, y, z, m float64) (Coordinate, error) {
	c, err := NewCoordinateZ(x, y, z)
	if err != nil {
		return Coordinate{}, err
	}
	if err := checkFinite(m, "m"); err != nil {
		return Coordinate{}, err
	}
	c.M, c.HasM = m, true
	return c, nil
}

func checkFinite(v float64, name string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v",
			ErrInvalidCoordinate, name, v)
	}
	return nil
}

// GeographicValid reports whether the coordinate is a plausible lon/lat
// pair: longitude in [-180,180] and latitude in [-90,90].
func (c Coordinate) GeographicValid() bool {
	return c.X >= -180 && c.X <= 180 && c.Y >= -90 && c.Y <= 90
}

// Equal2D reports whether two coordinates share the same X and Y,
// ignoring Z and M.
func (c Coordinate) Equal2D(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}
