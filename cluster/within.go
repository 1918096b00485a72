package cluster

import "github.com/geost/geost/geom"

// Within groups geometries by the transitive closure of the
// "within distance" relation: two inputs share a cluster when any chain of
// intermediate inputs connects them with each hop at most distance apart,
// even if the endpoints themselves are far apart. A distance of zero
// groups only coincident points. Every input is assigned; cluster ids
// renumber the union-find roots in first-encounter order.
func Within(geoms []*geom.Geometry, distance float64) (*geom.Geometry, error) {
	if err := checkInput(geoms); err != nil {
		return nil, err
	}
	if err := checkFiniteParam(distance, "distance"); err != nil {
		return nil, err
	}

	pts, err := centroids(geoms)
	if err != nil {
		return nil, err
	}
	n := len(pts)
	uf := newUnionFind(n)
	distSq := distance * distance

	// pairwise scan; fine at the scale this library targets
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sqdist(pts[i], pts[j]) <= distSq {
				uf.union(i, j)
			}
		}
	}

	assign := make([]int, n)
	roots := make(map[int]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		id, ok := roots[root]
		if !ok {
			id = len(roots)
			roots[root] = id
		}
		assign[i] = id
	}

	return buildResult(pts, assign, geoms[0].SRID())
}

// unionFind is a disjoint-set forest with path compression and
// union-by-rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
