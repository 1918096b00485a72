package geom

import "errors"

// Validation failures are returned as wrapped sentinel errors so that a host
// binding can classify them with errors.Is and surface the detail message
// as-is. Nothing in this package panics on caller input.
var (
	// ErrInvalidCoordinate is returned when a coordinate component is not
	// a finite number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidSrid is returned when a reference system identifier is not
	// a positive integer.
	ErrInvalidSrid = errors.New("invalid srid")

	// ErrInvalidGeometry is returned for structural violations: too few
	// points, unclosed rings, or an inverted bounding rectangle.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrEmptyGeometry is returned when a required coordinate or child
	// sequence is empty.
	ErrEmptyGeometry = errors.New("empty geometry")
)
