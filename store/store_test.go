package store

import (
	"testing"

	"github.com/geost/geost/geom"
	"github.com/geost/geost/index"
)

func expect(t testing.TB, what bool) {
	t.Helper()
	if !what {
		t.Fatal("not what you expected")
	}
}

func P(t testing.TB, x, y float64) *geom.Geometry {
	t.Helper()
	g, err := geom.NewPoint(x, y, geom.WebMercator)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func L(t testing.TB, coords ...geom.Coordinate) *geom.Geometry {
	t.Helper()
	g, err := geom.NewLineString(coords, geom.WebMercator)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestStoreSetGetDelete(t *testing.T) {
	s := New()
	expect(t, s.Count() == 0)
	expect(t, s.Get(1) == nil)

	prev := s.Set(1, P(t, 5, 5))
	expect(t, prev == nil)
	expect(t, s.Count() == 1)
	expect(t, s.PointCount() == 1)
	g := s.Get(1)
	expect(t, g != nil && g.Point().X == 5)

	// replace keeps the count, swaps the points
	prev = s.Set(1, L(t,
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	expect(t, prev != nil && prev.Kind() == geom.Point)
	expect(t, s.Count() == 1)
	expect(t, s.PointCount() == 3)

	prev = s.Delete(1)
	expect(t, prev != nil && prev.Kind() == geom.LineString)
	expect(t, s.Count() == 0)
	expect(t, s.PointCount() == 0)
	expect(t, s.Delete(1) == nil)
}

func TestStoreSearchRect(t *testing.T) {
	s := New()
	s.Set(1, P(t, 1, 1))
	s.Set(2, P(t, 5, 5))
	s.Set(3, P(t, 50, 50))

	rect, err := geom.NewRect(0, 0, 10, 10)
	expect(t, err == nil)
	ids := s.SearchRect(rect)
	expect(t, len(ids) == 2)
	seen := map[uint64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	expect(t, seen[1] && seen[2] && !seen[3])

	// replaced geometry is findable at its new location only
	s.Set(2, P(t, 100, 100))
	ids = s.SearchRect(rect)
	expect(t, len(ids) == 1 && ids[0] == 1)
}

func TestStoreNearby(t *testing.T) {
	s := New()
	s.Set(1, P(t, 0, 0))
	s.Set(2, P(t, 3, 4))
	s.Set(3, P(t, 10, 0))

	nn := s.Nearby(geom.Coordinate{X: 0, Y: 0}, 2)
	expect(t, len(nn) == 2)
	expect(t, nn[0].ID == 1 && nn[0].Dist == 0)
	expect(t, nn[1].ID == 2 && nn[1].Dist == 5)
}

func TestStoreWithinDistance(t *testing.T) {
	s := New()
	s.Set(1, P(t, 0, 0))
	s.Set(2, P(t, 6, 0))
	s.Set(3, P(t, 100, 0))

	ids := s.WithinDistance(geom.Coordinate{X: 0, Y: 0}, 6)
	expect(t, len(ids) == 2)
}

func TestStoreBounds(t *testing.T) {
	s := New()
	_, ok := s.Bounds()
	expect(t, !ok)

	s.Set(1, P(t, -5, 2))
	s.Set(2, P(t, 9, 30))
	bounds, ok := s.Bounds()
	expect(t, ok)
	expect(t, bounds.MinX == -5 && bounds.MinY == 2)
	expect(t, bounds.MaxX == 9 && bounds.MaxY == 30)

	s.Delete(2)
	bounds, ok = s.Bounds()
	expect(t, ok)
	expect(t, bounds.MaxX == -5 && bounds.MaxY == 2)
}

func TestStoreLoad(t *testing.T) {
	s := New()
	s.Set(99, P(t, 1, 1))

	var entries []index.Entry
	for i := 0; i < 100; i++ {
		entries = append(entries, index.Entry{
			ID:   uint64(i),
			Geom: P(t, float64(i), float64(i)),
		})
	}
	err := s.Load(entries)
	expect(t, err == nil)
	expect(t, s.Count() == 100)
	expect(t, s.Get(99) != nil && s.Get(99).Point().X == 99)

	rect, err := geom.NewRect(0, 0, 9, 9)
	expect(t, err == nil)
	expect(t, len(s.SearchRect(rect)) == 10)
}

func TestStoreLoadEmpty(t *testing.T) {
	s := New()
	s.Set(1, P(t, 1, 1))
	err := s.Load(nil)
	expect(t, err == nil)
	expect(t, s.Count() == 0)
	expect(t, s.PointCount() == 0)
}

func TestStoreScanOrdered(t *testing.T) {
	s := New()
	s.Set(3, P(t, 3, 3))
	s.Set(1, P(t, 1, 1))
	s.Set(2, P(t, 2, 2))

	var ids []uint64
	s.Scan(func(id uint64, g *geom.Geometry) bool {
		ids = append(ids, id)
		return true
	})
	expect(t, len(ids) == 3)
	expect(t, ids[0] == 1 && ids[1] == 2 && ids[2] == 3)
}
