package index

import (
	"math"
	"sort"

	"github.com/geost/geost/geom"
	"github.com/tidwall/rtree"
)

// RTree is the balanced bounding-volume tree implementation of
// SpatialIndex. Entry data is the bare id: equality is identity, never the
// envelope, so removal stays well-defined when entries share a rect.
type RTree struct {
	tree rtree.RTreeG[uint64]
}

var _ SpatialIndex = (*RTree)(nil)

// NewRTree returns an empty index.
func NewRTree() *RTree {
	return &RTree{}
}

// BulkLoad builds a populated index in one pass. Entries are sorted by the
// interleaved bit order of their envelope centers before insertion, which
// packs spatially close entries into the same leaves for better query
// locality than arbitrary-order inserts. Fails atomically if any entry
// lacks a rect.
func BulkLoad(entries []Entry) (*RTree, error) {
	type loaded struct {
		id       uint64
		min, max [2]float64
		key      uint64
	}
	items := make([]loaded, len(entries))
	var world geom.Rect
	for i, ent := range entries {
		r, ok := ent.Geom.Rect()
		if !ok {
			return nil, ErrNoBounds
		}
		items[i] = loaded{
			id:  ent.ID,
			min: [2]float64{r.MinX, r.MinY},
			max: [2]float64{r.MaxX, r.MaxY},
		}
		if i == 0 {
			world = r
		} else {
			world = world.Expand(r)
		}
	}
	w, h := world.Width(), world.Height()
	for i := range items {
		cx := (items[i].min[0] + items[i].max[0]) / 2
		cy := (items[i].min[1] + items[i].max[1]) / 2
		items[i].key = interleave(norm16(cx, world.MinX, w), norm16(cy, world.MinY, h))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].key < items[j].key })

	tr := NewRTree()
	for _, it := range items {
		tr.tree.Insert(it.min, it.max, it.id)
	}
	return tr, nil
}

// norm16 maps v in [lo,lo+span] to a 16-bit cell.
func norm16(v, lo, span float64) uint32 {
	if span <= 0 {
		return 0
	}
	n := uint32((v - lo) / span * 65535)
	if n > 65535 {
		n = 65535
	}
	return n
}

// interleave spreads the bits of two 16-bit values into a z-order key.
func interleave(x, y uint32) uint64 {
	spread := func(v uint32) uint64 {
		n := uint64(v)
		n = (n | n<<16) & 0x0000ffff0000ffff
		n = (n | n<<8) & 0x00ff00ff00ff00ff
		n = (n | n<<4) & 0x0f0f0f0f0f0f0f0f
		n = (n | n<<2) & 0x3333333333333333
		n = (n | n<<1) & 0x5555555555555555
		return n
	}
	return spread(x) | spread(y)<<1
}

// Insert adds one geometry's envelope under id.
func (tr *RTree) Insert(id uint64, g *geom.Geometry) error {
	r, ok := g.Rect()
	if !ok {
		return ErrNoBounds
	}
	tr.tree.Insert([2]float64{r.MinX, r.MinY}, [2]float64{r.MaxX, r.MaxY}, id)
	return nil
}

// SearchRect returns all ids whose envelope intersects rect. Touching
// edges and corners count.
func (tr *RTree) SearchRect(rect geom.Rect) []uint64 {
	var ids []uint64
	tr.tree.Search(
		[2]float64{rect.MinX, rect.MinY},
		[2]float64{rect.MaxX, rect.MaxY},
		func(_, _ [2]float64, id uint64) bool {
			ids = append(ids, id)
			return true
		},
	)
	return ids
}

// Nearest returns up to k entries by ascending point-to-envelope distance.
// Squared distances order the traversal; the reported distances are linear.
func (tr *RTree) Nearest(pt geom.Coordinate, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	var out []Neighbor
	dist := rectDistAlgo(pt)
	tr.tree.Nearby(dist,
		func(_, _ [2]float64, id uint64, sqdist float64) bool {
			out = append(out, Neighbor{ID: id, Dist: math.Sqrt(sqdist)})
			return len(out) < k
		},
	)
	return out
}

// WithinDistance returns all ids whose envelope lies within dist of pt.
// The caller passes a linear distance; the squared comparison stays
// internal to this method.
func (tr *RTree) WithinDistance(pt geom.Coordinate, dist float64) []uint64 {
	var ids []uint64
	maxSq := dist * dist
	algo := rectDistAlgo(pt)
	tr.tree.Nearby(algo,
		func(_, _ [2]float64, id uint64, sqdist float64) bool {
			if sqdist > maxSq {
				return false
			}
			ids = append(ids, id)
			return true
		},
	)
	return ids
}

// Remove locates the entry with the given id by linear scan and deletes
// it. Envelope-only equality cannot drive structural removal, since
// distinct entries may share an identical envelope.
func (tr *RTree) Remove(id uint64) bool {
	var min, max [2]float64
	var found bool
	tr.tree.Scan(func(emin, emax [2]float64, eid uint64) bool {
		if eid == id {
			min, max, found = emin, emax, true
			return false
		}
		return true
	})
	if !found {
		return false
	}
	tr.tree.Delete(min, max, id)
	return true
}

// Len returns the number of entries.
func (tr *RTree) Len() int { return tr.tree.Len() }

// IsEmpty reports whether the index holds no entries.
func (tr *RTree) IsEmpty() bool { return tr.tree.Len() == 0 }

// rectDistAlgo returns a traversal ordering function measuring squared
// Euclidean distance from pt to a box, zero inside the box.
func rectDistAlgo(pt geom.Coordinate) func(min, max [2]float64, id uint64, item bool) float64 {
	return func(min, max [2]float64, _ uint64, _ bool) float64 {
		var sq float64
		for i, v := range [2]float64{pt.X, pt.Y} {
			if v < min[i] {
				d := min[i] - v
				sq += d * d
			} else if v > max[i] {
				d := v - max[i]
				sq += d * d
			}
		}
		return sq
	}
}
