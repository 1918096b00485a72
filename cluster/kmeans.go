package cluster

import (
	"fmt"
	"math/rand"

	"github.com/geost/geost/geom"
)

// maxKMeansIters caps Lloyd refinement.
const maxKMeansIters = 100

// KMeans groups geometries into k clusters with k-means++ seeding and
// Lloyd refinement. Center selection draws from the global random source,
// so results vary across runs; use KMeansRand for reproducible output. A
// k larger than the input count is clamped to it. Every input is assigned
// to exactly one cluster.
func KMeans(geoms []*geom.Geometry, k int) (*geom.Geometry, error) {
	return kmeans(geoms, k, nil)
}

// KMeansRand is KMeans with a caller-supplied random source, for
// deterministic seeding.
func KMeansRand(geoms []*geom.Geometry, k int, rng *rand.Rand) (*geom.Geometry, error) {
	return kmeans(geoms, k, rng)
}

func kmeans(geoms []*geom.Geometry, k int, rng *rand.Rand) (*geom.Geometry, error) {
	if err := checkInput(geoms); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", ErrBadParameter, k)
	}

	pts, err := centroids(geoms)
	if err != nil {
		return nil, err
	}
	if k > len(pts) {
		k = len(pts)
	}

	intn := rand.Intn
	f64 := rand.Float64
	if rng != nil {
		intn = rng.Intn
		f64 = rng.Float64
	}

	// k-means++ seeding: the first center is uniform; each further center
	// is drawn with probability proportional to the squared distance to
	// its nearest chosen center.
	centers := make([]geom.Coordinate, 1, k)
	centers[0] = pts[intn(len(pts))]
	for len(centers) < k {
		dists := make([]float64, len(pts))
		var total float64
		for i, p := range pts {
			best := sqdist(p, centers[0])
			for _, c := range centers[1:] {
				if d := sqdist(p, c); d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		if total <= 0 {
			// all remaining points coincide with a chosen center
			break
		}
		threshold := f64() * total
		var cum float64
		for i, d := range dists {
			cum += d
			if cum >= threshold {
				centers = append(centers, pts[i])
				break
			}
		}
	}

	assign := make([]int, len(pts))
	for iter := 0; iter < maxKMeansIters; iter++ {
		changed := false
		for i, p := range pts {
			nearest := 0
			best := sqdist(p, centers[0])
			for ci := 1; ci < len(centers); ci++ {
				if d := sqdist(p, centers[ci]); d < best {
					best, nearest = d, ci
				}
			}
			if assign[i] != nearest {
				assign[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}
		// centers with no members are left where they are
		for ci := range centers {
			var sx, sy float64
			var count int
			for i, a := range assign {
				if a == ci {
					sx += pts[i].X
					sy += pts[i].Y
					count++
				}
			}
			if count > 0 {
				centers[ci] = geom.Coordinate{
					X: sx / float64(count),
					Y: sy / float64(count),
				}
			}
		}
	}

	return buildResult(pts, assign, geoms[0].SRID())
}
