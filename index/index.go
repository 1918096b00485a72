// Package index provides in-memory spatial indexing over geometry
// bounding rects. Entries hold only an id and an envelope: the index never
// retains the geometry payload, so indexed geometries may be freed or
// rewritten afterwards without invalidating the index.
//
// All queries are approximate containment tests against stored envelopes.
// Exact geometric testing after narrowing is the caller's responsibility.
package index

import (
	"errors"

	"github.com/geost/geost/geom"
)

// ErrNoBounds is returned when a geometry without a bounding rect is
// handed to Insert or BulkLoad. A validly constructed geometry always has
// one; this is a defensive check.
var ErrNoBounds = errors.New("geometry has no bounding rect")

// Neighbor is one k-nearest-neighbor result.
type Neighbor struct {
	ID   uint64
	Dist float64
}

// Entry pairs an id with the geometry to index for BulkLoad.
type Entry struct {
	ID   uint64
	Geom *geom.Geometry
}

// SpatialIndex answers rect, nearest-neighbor, and within-distance queries
// over geometries keyed by opaque ids. Implementations are not internally
// synchronized; concurrent mutation needs external locking.
type SpatialIndex interface {
	// Insert adds a geometry's envelope under id. Fails with ErrNoBounds
	// when the geometry has no rect.
	Insert(id uint64, g *geom.Geometry) error

	// SearchRect returns the ids of all entries whose envelope intersects
	// rect under closed-interval semantics. No ordering guarantee.
	SearchRect(rect geom.Rect) []uint64

	// Nearest returns up to k entries ordered by ascending point-to-envelope
	// Euclidean distance. Fewer than k are returned when the index is
	// smaller; an empty index yields an empty result.
	Nearest(pt geom.Coordinate, k int) []Neighbor

	// WithinDistance returns the ids of all entries whose envelope lies
	// within the given linear distance of pt. The boundary is closed: an
	// entry at exactly dist is included.
	WithinDistance(pt geom.Coordinate, dist float64) []uint64

	// Remove deletes the entry with the given id, reporting whether one
	// was found.
	Remove(id uint64) bool

	// Len returns the number of entries.
	Len() int

	// IsEmpty reports whether the index holds no entries.
	IsEmpty() bool
}
