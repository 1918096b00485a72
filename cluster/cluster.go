// Package cluster groups geometries by spatial proximity. Each algorithm
// reduces its inputs to representative centroids, partitions them, and
// returns the partition as a collection of multipoints, one per cluster,
// ordered by ascending cluster id. Inputs are never mutated.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/geost/geost/geom"
)

var (
	// ErrEmptyInput is returned when no geometries are supplied.
	ErrEmptyInput = errors.New("empty geometry input")

	// ErrBadParameter is returned for out-of-range or non-finite
	// parameters before any computation begins.
	ErrBadParameter = errors.New("bad cluster parameter")

	// ErrNoClusters is returned when every input ends up as noise.
	ErrNoClusters = errors.New("no clusters formed")
)

// noise marks an input excluded from the partition.
const noise = -1

// centroids reduces each geometry to its representative 2-D point.
func centroids(geoms []*geom.Geometry) ([]geom.Coordinate, error) {
	pts := make([]geom.Coordinate, len(geoms))
	for i, g := range geoms {
		c, err := g.Centroid()
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		pts[i] = c
	}
	return pts, nil
}

// buildResult converts a per-input cluster assignment (noise = excluded)
// into a collection of multipoints carrying the first input's srid.
func buildResult(pts []geom.Coordinate, assign []int, srid geom.Srid) (*geom.Geometry, error) {
	groups := make(map[int][]geom.Coordinate)
	for i, a := range assign {
		if a == noise {
			continue
		}
		groups[a] = append(groups[a], pts[i])
	}
	if len(groups) == 0 {
		return nil, ErrNoClusters
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	children := make([]geom.Geometry, 0, len(ids))
	for _, id := range ids {
		mp, err := geom.NewMultiPoint(groups[id], srid)
		if err != nil {
			return nil, err
		}
		children = append(children, *mp)
	}
	return geom.NewCollection(children, srid)
}

func checkInput(geoms []*geom.Geometry) error {
	if len(geoms) == 0 {
		return ErrEmptyInput
	}
	return nil
}

func checkFiniteParam(v float64, name string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrBadParameter, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrBadParameter, name, v)
	}
	return nil
}

func sqdist(a, b geom.Coordinate) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
