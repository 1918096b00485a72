package cluster

import (
	"fmt"

	"github.com/geost/geost/geom"
)

// DBSCAN groups geometries by density. Points with at least minPoints
// neighbors within eps form dense regions; every point reachable from a
// dense point joins that region's cluster, either as a dense core point or
// as a border point. Points never reached stay noise and are excluded from
// the result. An all-noise outcome is an error, since no cluster forms.
//
// The eps comparison is closed: a neighbor at exactly eps counts.
func DBSCAN(geoms []*geom.Geometry, eps float64, minPoints int) (*geom.Geometry, error) {
	if err := checkInput(geoms); err != nil {
		return nil, err
	}
	if err := checkFiniteParam(eps, "eps"); err != nil {
		return nil, err
	}
	if minPoints < 1 {
		return nil, fmt.Errorf("%w: min points must be at least 1, got %d",
			ErrBadParameter, minPoints)
	}

	pts, err := centroids(geoms)
	if err != nil {
		return nil, err
	}
	n := len(pts)
	epsSq := eps * eps

	regionQuery := func(i int) []int {
		var nbrs []int
		for j := 0; j < n; j++ {
			if sqdist(pts[i], pts[j]) <= epsSq {
				nbrs = append(nbrs, j)
			}
		}
		return nbrs
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = noise
	}
	visited := make([]bool, n)
	queued := make([]bool, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		nbrs := regionQuery(i)
		if len(nbrs) < minPoints {
			// candidate noise; may still be absorbed as a border point
			continue
		}

		assign[i] = clusterID
		queue := nbrs
		for _, j := range queue {
			queued[j] = true
		}
		for qi := 0; qi < len(queue); qi++ {
			j := queue[qi]
			if !visited[j] {
				visited[j] = true
				jnbrs := regionQuery(j)
				if len(jnbrs) >= minPoints {
					for _, nb := range jnbrs {
						if !queued[nb] {
							queued[nb] = true
							queue = append(queue, nb)
						}
					}
				}
			}
			if assign[j] == noise {
				assign[j] = clusterID
			}
		}
		for _, j := range queue {
			queued[j] = false
		}
		clusterID++
	}

	return buildResult(pts, assign, geoms[0].SRID())
}
