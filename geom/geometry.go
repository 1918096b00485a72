package geom

import "fmt"

// Kind tags the concrete variant held by a Geometry.
type Kind byte

const (
	Point Kind = iota + 1
	LineString
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
	Collection
)

// String returns the conventional type name for the kind.
func (k Kind) String() string {
	switch k {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	case Collection:
		return "GeometryCollection"
	}
	return "Unknown"
}

// PolygonData is one polygon: an exterior ring plus zero or more holes.
type PolygonData struct {
	Exterior []Coordinate
	Holes    [][]Coordinate
}

// Geometry is the aggregate root: a kind-tagged union over seven variants
// with a reference system, a cached bounding rect, and derived flags.
// A Geometry is constructed once through a variant constructor and is
// immutable afterwards, except for RecomputeBounds/MapCoords which exist
// for collaborators that rewrite coordinates in place. Each Geometry owns
// its coordinate storage exclusively; collections own their children.
type Geometry struct {
	kind   Kind
	pt     Coordinate
	coords []Coordinate   // LineString, MultiPoint
	lines  [][]Coordinate // MultiLineString
	poly   PolygonData    // Polygon
	polys  []PolygonData  // MultiPolygon
	geoms  []Geometry     // Collection
	srid   Srid
	rect   Rect
	flags  Flags
}

// NewPoint returns a validated 2-D point geometry.
func NewPoint(x, y float64, srid Srid) (*Geometry, error) {
	c, err := NewCoordinate(x, y)
	if err != nil {
		return nil, err
	}
	return NewPointCoord(c, srid)
}

// NewPointCoord builds a point geometry from an already-validated
// coordinate, preserving its Z/M values.
func NewPointCoord(c Coordinate, srid Srid) (*Geometry, error) {
	g := &Geometry{kind: Point, pt: c, srid: srid}
	g.recompute()
	return g, nil
}

// NewLineString builds a line geometry. Lines need at least two points.
func NewLineString(coords []Coordinate, srid Srid) (*Geometry, error) {
	if err := validateLine(coords); err != nil {
		return nil, err
	}
	g := &Geometry{kind: LineString, coords: coords, srid: srid}
	g.recompute()
	return g, nil
}

// NewPolygon builds a polygon from an exterior ring and optional holes.
// Every ring must have at least four points and be closed; ring closure is
// checked with a small tolerance here, while IsValid requires exact
// equality.
func NewPolygon(exterior []Coordinate, holes [][]Coordinate, srid Srid) (*Geometry, error) {
	if err := validatePolygon(exterior, holes); err != nil {
		return nil, err
	}
	g := &Geometry{
		kind: Polygon,
		poly: PolygonData{Exterior: exterior, Holes: holes},
		srid: srid,
	}
	g.recompute()
	return g, nil
}

// NewMultiPoint builds a multipoint from a non-empty coordinate set.
func NewMultiPoint(coords []Coordinate, srid Srid) (*Geometry, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: multipoint requires at least one point",
			ErrEmptyGeometry)
	}
	g := &Geometry{kind: MultiPoint, coords: coords, srid: srid}
	g.recompute()
	return g, nil
}

// NewMultiLineString builds a multiline from a non-empty set of valid lines.
func NewMultiLineString(lines [][]Coordinate, srid Srid) (*Geometry, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: multilinestring requires at least one line",
			ErrEmptyGeometry)
	}
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
	}
	g := &Geometry{kind: MultiLineString, lines: lines, srid: srid}
	g.recompute()
	return g, nil
}

// NewMultiPolygon builds a multipolygon from a non-empty set of valid
// polygons.
func NewMultiPolygon(polys []PolygonData, srid Srid) (*Geometry, error) {
	if len(polys) == 0 {
		return nil, fmt.Errorf("%w: multipolygon requires at least one polygon",
			ErrEmptyGeometry)
	}
	for _, p := range polys {
		if err := validatePolygon(p.Exterior, p.Holes); err != nil {
			return nil, err
		}
	}
	g := &Geometry{kind: MultiPolygon, polys: polys, srid: srid}
	g.recompute()
	return g, nil
}

// NewCollection builds a geometry collection from non-empty children.
// Collections nest arbitrarily.
func NewCollection(geoms []Geometry, srid Srid) (*Geometry, error) {
	if len(geoms) == 0 {
		return nil, fmt.Errorf("%w: collection requires at least one geometry",
			ErrEmptyGeometry)
	}
	g := &Geometry{kind: Collection, geoms: geoms, srid: srid}
	g.recompute()
	return g, nil
}

// Kind returns the variant tag.
func (g *Geometry) Kind() Kind { return g.kind }

// SRID returns the reference system identifier.
func (g *Geometry) SRID() Srid { return g.srid }

// TypeName returns the conventional name of the variant.
func (g *Geometry) TypeName() string { return g.kind.String() }

// Flags returns the derived property bitset.
func (g *Geometry) Flags() Flags { return g.flags }

// Rect returns the cached bounding rect. The ok result is false when there
// are no coordinates to bound, which cannot happen for a geometry built by
// the constructors in this package.
func (g *Geometry) Rect() (r Rect, ok bool) {
	return g.rect, g.flags.Has(HasRect)
}

// Empty reports whether the geometry holds no coordinates.
func (g *Geometry) Empty() bool { return g.flags.Has(IsEmpty) }

// Point returns the coordinate of a Point geometry.
func (g *Geometry) Point() Coordinate { return g.pt }

// Coords returns the coordinate sequence of a LineString or MultiPoint.
// The returned slice is owned by the geometry and must not be modified.
func (g *Geometry) Coords() []Coordinate { return g.coords }

// Lines returns the line sequences of a MultiLineString.
func (g *Geometry) Lines() [][]Coordinate { return g.lines }

// PolygonData returns the rings of a Polygon.
func (g *Geometry) PolygonData() PolygonData { return g.poly }

// Polygons returns the members of a MultiPolygon.
func (g *Geometry) Polygons() []PolygonData { return g.polys }

// Children returns the members of a Collection.
func (g *Geometry) Children() []Geometry { return g.geoms }

// NumPoints counts every vertex in the geometry, recursively for
// collections. Polygon counts include hole vertices.
func (g *Geometry) NumPoints() int {
	switch g.kind {
	case Point:
		return 1
	case LineString, MultiPoint:
		return len(g.coords)
	case Polygon:
		return numPolyPoints(g.poly)
	case MultiLineString:
		var n int
		for _, line := range g.lines {
			n += len(line)
		}
		return n
	case MultiPolygon:
		var n int
		for _, p := range g.polys {
			n += numPolyPoints(p)
		}
		return n
	case Collection:
		var n int
		for i := range g.geoms {
			n += g.geoms[i].NumPoints()
		}
		return n
	}
	return 0
}

func numPolyPoints(p PolygonData) int {
	n := len(p.Exterior)
	for _, h := range p.Holes {
		n += len(h)
	}
	return n
}

// Dimension returns the topological dimension: 0 for points, 1 for lines,
// 2 for polygons. Collections take the maximum over their children.
func (g *Geometry) Dimension() int {
	switch g.kind {
	case Point, MultiPoint:
		return 0
	case LineString, MultiLineString:
		return 1
	case Polygon, MultiPolygon:
		return 2
	case Collection:
		var max int
		for i := range g.geoms {
			if d := g.geoms[i].Dimension(); d > max {
				max = d
			}
		}
		return max
	}
	return 0
}

// CoordinateDimension returns 2, 3, or 4 depending on the presence of Z
// and M values.
func (g *Geometry) CoordinateDimension() int {
	switch {
	case g.flags.Has(HasZ | HasM):
		return 4
	case g.flags.Has(HasZ):
		return 3
	default:
		return 2
	}
}

// RecomputeBounds re-derives the cached rect and flags from the current
// coordinates. Collaborators that rewrite coordinates in place (such as a
// projection pipeline) are required to call this afterwards; the cache is
// not kept in sync automatically.
func (g *Geometry) RecomputeBounds() {
	g.recompute()
}

func (g *Geometry) recompute() {
	var coords []Coordinate
	var rect Rect
	var hasRect bool
	switch g.kind {
	case Point:
		coords = []Coordinate{g.pt}
		rect, hasRect = RectFromCoords(coords)
	case LineString, MultiPoint:
		coords = g.coords
		rect, hasRect = RectFromCoords(coords)
	case Polygon:
		// the exterior encloses all holes
		coords = g.poly.Exterior
		rect, hasRect = RectFromCoords(coords)
	case MultiLineString:
		for _, line := range g.lines {
			coords = append(coords, line...)
		}
		rect, hasRect = RectFromCoords(coords)
	case MultiPolygon:
		for _, p := range g.polys {
			coords = append(coords, p.Exterior...)
		}
		rect, hasRect = RectFromCoords(coords)
	case Collection:
		for i := range g.geoms {
			g.geoms[i].recompute()
			cr, ok := g.geoms[i].Rect()
			if !ok {
				continue
			}
			if !hasRect {
				rect, hasRect = cr, true
			} else {
				rect = rect.Expand(cr)
			}
		}
	}

	flags := HasSrid
	if hasRect {
		flags |= HasRect
	}
	if g.kind == Collection {
		empty := true
		for i := range g.geoms {
			if !g.geoms[i].Empty() {
				empty = false
			}
			flags |= g.geoms[i].flags & (HasZ | HasM)
		}
		if empty {
			flags |= IsEmpty
		}
	} else {
		if g.NumPoints() == 0 {
			flags |= IsEmpty
		}
		g.forEachCoord(func(c Coordinate) bool {
			if c.HasZ {
				flags |= HasZ
			}
			if c.HasM {
				flags |= HasM
			}
			return flags&(HasZ|HasM) != HasZ|HasM
		})
	}
	g.rect = rect
	g.flags = flags
}

// MapCoords rewrites every coordinate through fn and recomputes the cached
// rect and flags. The transform must return valid coordinates; the first
// error aborts the rewrite with the geometry unchanged.
func (g *Geometry) MapCoords(fn func(Coordinate) (Coordinate, error)) error {
	mapped, err := g.mapped(fn)
	if err != nil {
		return err
	}
	*g = *mapped
	return nil
}

func (g *Geometry) mapped(fn func(Coordinate) (Coordinate, error)) (*Geometry, error) {
	out := &Geometry{kind: g.kind, srid: g.srid}
	mapCoords := func(coords []Coordinate) ([]Coordinate, error) {
		res := make([]Coordinate, len(coords))
		for i, c := range coords {
			mc, err := fn(c)
			if err != nil {
				return nil, err
			}
			res[i] = mc
		}
		return res, nil
	}
	mapPoly := func(p PolygonData) (PolygonData, error) {
		ext, err := mapCoords(p.Exterior)
		if err != nil {
			return PolygonData{}, err
		}
		holes := make([][]Coordinate, len(p.Holes))
		for i, h := range p.Holes {
			if holes[i], err = mapCoords(h); err != nil {
				return PolygonData{}, err
			}
		}
		return PolygonData{Exterior: ext, Holes: holes}, nil
	}
	var err error
	switch g.kind {
	case Point:
		if out.pt, err = fn(g.pt); err != nil {
			return nil, err
		}
	case LineString, MultiPoint:
		if out.coords, err = mapCoords(g.coords); err != nil {
			return nil, err
		}
	case Polygon:
		if out.poly, err = mapPoly(g.poly); err != nil {
			return nil, err
		}
	case MultiLineString:
		out.lines = make([][]Coordinate, len(g.lines))
		for i, line := range g.lines {
			if out.lines[i], err = mapCoords(line); err != nil {
				return nil, err
			}
		}
	case MultiPolygon:
		out.polys = make([]PolygonData, len(g.polys))
		for i, p := range g.polys {
			if out.polys[i], err = mapPoly(p); err != nil {
				return nil, err
			}
		}
	case Collection:
		out.geoms = make([]Geometry, len(g.geoms))
		for i := range g.geoms {
			mg, err := g.geoms[i].mapped(fn)
			if err != nil {
				return nil, err
			}
			out.geoms[i] = *mg
		}
	}
	out.recompute()
	return out, nil
}

// forEachCoord visits every leaf coordinate until fn returns false.
func (g *Geometry) forEachCoord(fn func(Coordinate) bool) bool {
	each := func(coords []Coordinate) bool {
		for _, c := range coords {
			if !fn(c) {
				return false
			}
		}
		return true
	}
	switch g.kind {
	case Point:
		return fn(g.pt)
	case LineString, MultiPoint:
		return each(g.coords)
	case Polygon:
		if !each(g.poly.Exterior) {
			return false
		}
		for _, h := range g.poly.Holes {
			if !each(h) {
				return false
			}
		}
	case MultiLineString:
		for _, line := range g.lines {
			if !each(line) {
				return false
			}
		}
	case MultiPolygon:
		for _, p := range g.polys {
			if !each(p.Exterior) {
				return false
			}
			for _, h := range p.Holes {
				if !each(h) {
					return false
				}
			}
		}
	case Collection:
		for i := range g.geoms {
			if !g.geoms[i].forEachCoord(fn) {
				return false
			}
		}
	}
	return true
}
