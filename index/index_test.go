package index

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/geost/geost/geom"
)

func expect(t testing.TB, what bool) {
	t.Helper()
	if !what {
		t.Fatal("not what you expected")
	}
}

func P(t testing.TB, x, y float64) *geom.Geometry {
	t.Helper()
	g, err := geom.NewPoint(x, y, geom.WGS84)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func box(t testing.TB, minX, minY, maxX, maxY float64) *geom.Geometry {
	t.Helper()
	ext := []geom.Coordinate{
		{X: minX, Y: minY}, {X: maxX, Y: minY},
		{X: maxX, Y: maxY}, {X: minX, Y: minY},
	}
	g, err := geom.NewPolygon(ext, nil, geom.WGS84)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sorted(ids []uint64) []uint64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestInsertAndSearchRect(t *testing.T) {
	tr := NewRTree()
	expect(t, tr.IsEmpty() && tr.Len() == 0)

	expect(t, tr.Insert(1, P(t, 5, 5)) == nil)
	ids := tr.SearchRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})
	expect(t, len(ids) == 1 && ids[0] == 1)

	// disjoint query finds nothing
	ids = tr.SearchRect(geom.Rect{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30})
	expect(t, len(ids) == 0)
	expect(t, tr.Len() == 1 && !tr.IsEmpty())
}

func TestSearchRectTouchingCounts(t *testing.T) {
	tr := NewRTree()
	expect(t, tr.Insert(0, box(t, 0, 0, 5, 5)) == nil)
	expect(t, tr.Insert(1, box(t, 5, 0, 10, 5)) == nil)

	ids := sorted(tr.SearchRect(geom.Rect{MinX: 5, MinY: 0, MaxX: 5, MaxY: 5}))
	expect(t, len(ids) == 2 && ids[0] == 0 && ids[1] == 1)

	// corner touch
	tr2 := NewRTree()
	expect(t, tr2.Insert(0, box(t, 0, 0, 5, 5)) == nil)
	ids = tr2.SearchRect(geom.Rect{MinX: 5, MinY: 5, MaxX: 9, MaxY: 9})
	expect(t, len(ids) == 1)
}

func TestBulkLoad(t *testing.T) {
	entries := make([]Entry, 100)
	for i := range entries {
		entries[i] = Entry{ID: uint64(i), Geom: P(t, float64(i), float64(i))}
	}
	tr, err := BulkLoad(entries)
	expect(t, err == nil)
	expect(t, tr.Len() == 100)

	ids := tr.SearchRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 99, MaxY: 99})
	expect(t, len(ids) == 100)
}

func TestBulkLoadEmpty(t *testing.T) {
	tr, err := BulkLoad(nil)
	expect(t, err == nil && tr.IsEmpty())
}

func TestBulkLoadMatchesSequential(t *testing.T) {
	entries := []Entry{
		{ID: 0, Geom: P(t, 1, 1)},
		{ID: 1, Geom: P(t, 5, 5)},
		{ID: 2, Geom: P(t, 9, 9)},
	}
	bulk, err := BulkLoad(entries)
	expect(t, err == nil)
	seq := NewRTree()
	for _, e := range entries {
		expect(t, seq.Insert(e.ID, e.Geom) == nil)
	}
	q := geom.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	a, b := sorted(bulk.SearchRect(q)), sorted(seq.SearchRect(q))
	expect(t, len(a) == len(b))
	for i := range a {
		expect(t, a[i] == b[i])
	}
}

func TestNearestOrdering(t *testing.T) {
	tr := NewRTree()
	expect(t, tr.Insert(0, P(t, 0, 0)) == nil)
	expect(t, tr.Insert(1, P(t, 3, 0)) == nil)
	expect(t, tr.Insert(2, P(t, 0, 5)) == nil)

	origin := geom.Coordinate{X: 0, Y: 0}
	nbrs := tr.Nearest(origin, 3)
	expect(t, len(nbrs) == 3)
	expect(t, nbrs[0].ID == 0 && math.Abs(nbrs[0].Dist-0) < 1e-10)
	expect(t, nbrs[1].ID == 1 && math.Abs(nbrs[1].Dist-3) < 1e-10)
	expect(t, nbrs[2].ID == 2 && math.Abs(nbrs[2].Dist-5) < 1e-10)

	// euclidean, not axis-aligned: (3,4) is at distance 5
	tr2 := NewRTree()
	expect(t, tr2.Insert(7, P(t, 3, 4)) == nil)
	nbrs = tr2.Nearest(origin, 1)
	expect(t, len(nbrs) == 1 && math.Abs(nbrs[0].Dist-5) < 1e-10)
}

func TestNearestBounds(t *testing.T) {
	tr := NewRTree()
	expect(t, len(tr.Nearest(geom.Coordinate{}, 5)) == 0)

	expect(t, tr.Insert(0, P(t, 0, 0)) == nil)
	expect(t, tr.Insert(1, P(t, 1, 1)) == nil)
	expect(t, len(tr.Nearest(geom.Coordinate{}, 100)) == 2)
	expect(t, len(tr.Nearest(geom.Coordinate{}, 0)) == 0)
}

func TestWithinDistance(t *testing.T) {
	tr := NewRTree()
	for i, x := range []float64{0, 2, 4, 6} {
		expect(t, tr.Insert(uint64(i), P(t, x, 0)) == nil)
	}
	origin := geom.Coordinate{X: 0, Y: 0}
	ids := sorted(tr.WithinDistance(origin, 3))
	expect(t, len(ids) == 2 && ids[0] == 0 && ids[1] == 1)

	// closed boundary: a point at exactly the radius is included
	ids = tr.WithinDistance(origin, 2)
	expect(t, len(ids) == 2)

	// would miss (3,0)-style entries if the radius were compared squared
	ids = sorted(tr.WithinDistance(origin, 5))
	expect(t, len(ids) == 3)

	expect(t, len(tr.WithinDistance(origin, 0.5)) == 1)
	expect(t, len(NewRTree().WithinDistance(origin, 100)) == 0)
}

func TestWithinDistanceEnvelope(t *testing.T) {
	// envelope (8,8)-(12,12): nearest corner to origin is (8,8), ~11.314
	tr := NewRTree()
	expect(t, tr.Insert(0, box(t, 8, 8, 12, 12)) == nil)
	origin := geom.Coordinate{X: 0, Y: 0}
	expect(t, len(tr.WithinDistance(origin, 11)) == 0)
	expect(t, len(tr.WithinDistance(origin, 12)) == 1)
}

func TestRemove(t *testing.T) {
	tr := NewRTree()
	expect(t, tr.Insert(0, P(t, 1, 1)) == nil)
	expect(t, tr.Insert(1, P(t, 5, 5)) == nil)

	expect(t, tr.Remove(0))
	expect(t, tr.Len() == 1)
	expect(t, !tr.Remove(0))
	expect(t, !tr.Remove(999))

	// removed id is absent from every query kind
	origin := geom.Coordinate{X: 0, Y: 0}
	expect(t, len(tr.SearchRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2})) == 0)
	nbrs := tr.Nearest(origin, 10)
	expect(t, len(nbrs) == 1 && nbrs[0].ID == 1)
	ids := tr.WithinDistance(origin, 100)
	expect(t, len(ids) == 1 && ids[0] == 1)
}

func TestRemoveIdenticalEnvelopes(t *testing.T) {
	// three entries sharing one envelope: removal must be by identity
	tr := NewRTree()
	for id := uint64(0); id < 3; id++ {
		expect(t, tr.Insert(id, box(t, 0, 0, 5, 5)) == nil)
	}
	expect(t, tr.Remove(1))
	ids := sorted(tr.SearchRect(geom.Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}))
	expect(t, len(ids) == 2 && ids[0] == 0 && ids[1] == 2)
}

func TestSearchRectBruteForce100k(t *testing.T) {
	// 1000x100 grid of points
	const n = 100000
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		x := float64(i % 1000)
		y := float64(i / 1000)
		entries[i] = Entry{ID: uint64(i), Geom: P(t, x, y)}
	}
	tr, err := BulkLoad(entries)
	expect(t, err == nil && tr.Len() == n)

	q := geom.Rect{MinX: 10, MinY: 10, MaxX: 19, MaxY: 19}
	got := sorted(tr.SearchRect(q))

	var want []uint64
	for _, e := range entries {
		r, ok := e.Geom.Rect()
		expect(t, ok)
		if r.Intersects(q) {
			want = append(want, e.ID)
		}
	}
	sorted(want)
	expect(t, len(got) == 100)
	expect(t, len(got) == len(want))
	for i := range got {
		expect(t, got[i] == want[i])
	}
}

func TestRandomizedQueriesMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const n = 2000
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			ID:   uint64(i),
			Geom: P(t, rng.Float64()*100, rng.Float64()*100),
		}
	}
	tr, err := BulkLoad(entries)
	expect(t, err == nil)

	for trial := 0; trial < 20; trial++ {
		x, y := rng.Float64()*90, rng.Float64()*90
		q := geom.Rect{MinX: x, MinY: y, MaxX: x + 10, MaxY: y + 10}
		got := sorted(tr.SearchRect(q))
		var want []uint64
		for _, e := range entries {
			r, _ := e.Geom.Rect()
			if r.Intersects(q) {
				want = append(want, e.ID)
			}
		}
		sorted(want)
		expect(t, len(got) == len(want))
		for i := range got {
			expect(t, got[i] == want[i])
		}
	}
}

func TestNoBoundsRejected(t *testing.T) {
	var g geom.Geometry // zero value has no rect
	tr := NewRTree()
	err := tr.Insert(0, &g)
	expect(t, errors.Is(err, ErrNoBounds))

	_, err = BulkLoad([]Entry{{ID: 0, Geom: &g}})
	expect(t, errors.Is(err, ErrNoBounds))
}

func TestPreFilter(t *testing.T) {
	a := geom.Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	b := geom.Rect{MinX: 3, MinY: 3, MaxX: 8, MaxY: 8}
	c := geom.Rect{MinX: 9, MinY: 9, MaxX: 12, MaxY: 12}
	expect(t, PreFilter(a, b))
	expect(t, !PreFilter(a, c))
	// touching is a candidate, not a proven miss
	expect(t, PreFilter(a, geom.Rect{MinX: 5, MinY: 5, MaxX: 9, MaxY: 9}))

	ga := P(t, 1, 1)
	gb := P(t, 1, 1)
	gc := P(t, 50, 50)
	expect(t, PreFilterGeoms(ga, gb))
	expect(t, !PreFilterGeoms(ga, gc))
}
