package geom

import "fmt"

// Srid identifies a spatial reference system. The value is opaque to this
// package: validity means "positive integer", registry membership is the
// projection layer's concern.
type Srid int32

const (
	// WGS84 is the standard geographic lon/lat system.
	WGS84 Srid = 4326
	// WebMercator is the spherical mercator projection used by web maps.
	WebMercator Srid = 3857
	// NAD83 is the North American geographic datum.
	NAD83 Srid = 4269
	// DefaultSrid is used when a caller does not supply one.
	DefaultSrid = WGS84
)

// NewSrid validates a reference system code.
func NewSrid(code int32) (Srid, error) {
	if code <= 0 {
		return 0, fmt.Errorf("%w: srid must be positive, got %d",
			ErrInvalidSrid, code)
	}
	return Srid(code), nil
}

// Code returns the numeric identifier.
func (s Srid) Code() int32 { return int32(s) }

// Geographic reports whether the srid is one of the well-known lon/lat
// systems (as opposed to a projected plane).
func (s Srid) Geographic() bool {
	switch s {
	case 4326, 4269, 4267, 4258, 4148, 4674, 4283, 4612, 4490:
		return true
	}
	return false
}
