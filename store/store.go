// Package store keeps geometries keyed by id with a spatial index kept
// in sync on every mutation.
package store

import (
	"github.com/geost/geost/geom"
	"github.com/geost/geost/index"
	"github.com/geost/geost/internal/log"
	"github.com/tidwall/btree"
)

// Store is an ordered, spatially indexed geometry container.
// It is not safe for concurrent use.
type Store struct {
	geoms  btree.Map[uint64, *geom.Geometry] // sorted by id
	spatial *index.RTree                     // only geometries with bounds
	points int                               // total point count
}

// New returns an empty store.
func New() *Store {
	return &Store{
		spatial: index.NewRTree(),
	}
}

// Count returns the number of geometries in the store.
func (s *Store) Count() int {
	return s.geoms.Len()
}

// PointCount returns the total number of coordinates across all
// geometries in the store.
func (s *Store) PointCount() int {
	return s.points
}

// Bounds returns the rectangle covering every indexed geometry.
// The ok return is false when the store holds no indexable geometry.
func (s *Store) Bounds() (geom.Rect, bool) {
	var bounds geom.Rect
	var any bool
	s.geoms.Scan(func(_ uint64, g *geom.Geometry) bool {
		rect, ok := g.Rect()
		if !ok {
			return true
		}
		if !any {
			bounds = rect
			any = true
		} else {
			bounds = bounds.Expand(rect)
		}
		return true
	})
	return bounds, any
}

// Set adds or replaces a geometry and returns the previous one, if any.
func (s *Store) Set(id uint64, g *geom.Geometry) (prev *geom.Geometry) {
	prev, _ = s.geoms.Set(id, g)
	if prev != nil {
		if _, ok := prev.Rect(); ok {
			s.spatial.Remove(id)
		}
		s.points -= prev.NumPoints()
	}
	if _, ok := g.Rect(); ok {
		// Insert only fails for unbounded geometries, checked above
		s.spatial.Insert(id, g)
	}
	s.points += g.NumPoints()
	return prev
}

// Delete removes a geometry and returns it.
// The return value is nil when the id is not present.
func (s *Store) Delete(id uint64) (prev *geom.Geometry) {
	prev, _ = s.geoms.Delete(id)
	if prev == nil {
		return nil
	}
	if _, ok := prev.Rect(); ok {
		s.spatial.Remove(id)
	}
	s.points -= prev.NumPoints()
	return prev
}

// Get returns the geometry for an id, or nil when absent.
func (s *Store) Get(id uint64) *geom.Geometry {
	g, _ := s.geoms.Get(id)
	return g
}

// Scan iterates over the store in ascending id order.
func (s *Store) Scan(iter func(id uint64, g *geom.Geometry) bool) {
	s.geoms.Scan(iter)
}

// SearchRect returns the ids of geometries whose bounds intersect rect,
// in index order.
func (s *Store) SearchRect(rect geom.Rect) []uint64 {
	return s.spatial.SearchRect(rect)
}

// Nearby returns up to k geometry ids ordered by envelope distance
// from pt.
func (s *Store) Nearby(pt geom.Coordinate, k int) []index.Neighbor {
	return s.spatial.Nearest(pt, k)
}

// WithinDistance returns the ids of geometries whose envelopes lie
// within dist of pt.
func (s *Store) WithinDistance(pt geom.Coordinate, dist float64) []uint64 {
	return s.spatial.WithinDistance(pt, dist)
}

// Load replaces the store contents with the given entries, bulk
// loading the spatial index. Unbounded geometries are kept in the
// store but stay out of the index.
func (s *Store) Load(entries []index.Entry) error {
	geoms := btree.Map[uint64, *geom.Geometry]{}
	points := 0
	bounded := entries[:0:0]
	for _, e := range entries {
		geoms.Set(e.ID, e.Geom)
		points += e.Geom.NumPoints()
		if _, ok := e.Geom.Rect(); ok {
			bounded = append(bounded, e)
		}
	}
	spatial, err := index.BulkLoad(bounded)
	if err != nil {
		return err
	}
	s.geoms = geoms
	s.spatial = spatial
	s.points = points
	log.Debugf("loaded %d geometries, %d indexed", len(entries), len(bounded))
	return nil
}
