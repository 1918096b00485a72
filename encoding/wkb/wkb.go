// Package wkb converts geometries to and from Well-Known Binary.
//
// The encoder always writes little-endian output; the decoder accepts
// either byte order. The PostGIS EWKB extensions are understood: the
// Z, M and SRID type flags on input, and MarshalEWKB writes the SRID
// flag for carrying reference systems.
package wkb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/geost/geost/geom"
)

var (
	ErrCorrupt     = errors.New("wkb: corrupt data")
	ErrUnknownType = errors.New("wkb: unknown geometry type")
)

const (
	typePoint = 1 + iota
	typeLineString
	typePolygon
	typeMultiPoint
	typeMultiLineString
	typeMultiPolygon
	typeCollection
)

const (
	flagZ    = 0x80000000
	flagM    = 0x40000000
	flagSrid = 0x20000000
)

// Marshal returns the WKB encoding of g.
func Marshal(g *geom.Geometry) ([]byte, error) {
	return appendGeometry(nil, g, false)
}

// MarshalEWKB is like Marshal but embeds the geometry's SRID using the
// EWKB type flag.
func MarshalEWKB(g *geom.Geometry) ([]byte, error) {
	return appendGeometry(nil, g, true)
}

func appendGeometry(dst []byte, g *geom.Geometry, withSrid bool) ([]byte, error) {
	hasZ := g.Flags().Has(geom.HasZ)
	hasM := g.Flags().Has(geom.HasM)

	dst = append(dst, 1) // little-endian
	var typ uint32
	switch g.Kind() {
	case geom.Point:
		typ = typePoint
	case geom.LineString:
		typ = typeLineString
	case geom.Polygon:
		typ = typePolygon
	case geom.MultiPoint:
		typ = typeMultiPoint
	case geom.MultiLineString:
		typ = typeMultiLineString
	case geom.MultiPolygon:
		typ = typeMultiPolygon
	case geom.Collection:
		typ = typeCollection
	default:
		return nil, ErrUnknownType
	}
	if hasZ {
		typ |= flagZ
	}
	if hasM {
		typ |= flagM
	}
	if withSrid {
		typ |= flagSrid
	}
	dst = appendUint32(dst, typ)
	if withSrid {
		dst = appendUint32(dst, uint32(g.SRID().Code()))
	}

	switch g.Kind() {
	case geom.Point:
		dst = appendCoord(dst, g.Point(), hasZ, hasM)
	case geom.LineString:
		dst = appendCoords(dst, g.Coords(), hasZ, hasM)
	case geom.Polygon:
		dst = appendRings(dst, g.PolygonData(), hasZ, hasM)
	case geom.MultiPoint:
		coords := g.Coords()
		dst = appendUint32(dst, uint32(len(coords)))
		for _, c := range coords {
			child, err := geom.NewPointCoord(c, g.SRID())
			if err != nil {
				return nil, err
			}
			dst, err = appendGeometry(dst, child, false)
			if err != nil {
				return nil, err
			}
		}
	case geom.MultiLineString:
		lines := g.Lines()
		dst = appendUint32(dst, uint32(len(lines)))
		for _, line := range lines {
			child, err := geom.NewLineString(line, g.SRID())
			if err != nil {
				return nil, err
			}
			dst, err = appendGeometry(dst, child, false)
			if err != nil {
				return nil, err
			}
		}
	case geom.MultiPolygon:
		polys := g.Polygons()
		dst = appendUint32(dst, uint32(len(polys)))
		for _, poly := range polys {
			child, err := geom.NewPolygon(poly.Exterior, poly.Holes, g.SRID())
			if err != nil {
				return nil, err
			}
			dst, err = appendGeometry(dst, child, false)
			if err != nil {
				return nil, err
			}
		}
	case geom.Collection:
		children := g.Children()
		dst = appendUint32(dst, uint32(len(children)))
		for i := range children {
			var err error
			dst, err = appendGeometry(dst, &children[i], false)
			if err != nil {
				return nil, err
			}
		}
	}
	return dst, nil
}

func appendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendFloat(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

func appendCoord(dst []byte, c geom.Coordinate, hasZ, hasM bool) []byte {
	dst = appendFloat(dst, c.X)
	dst = appendFloat(dst, c.Y)
	if hasZ {
		dst = appendFloat(dst, c.Z)
	}
	if hasM {
		dst = appendFloat(dst, c.M)
	}
	return dst
}

func appendCoords(dst []byte, coords []geom.Coordinate, hasZ, hasM bool) []byte {
	dst = appendUint32(dst, uint32(len(coords)))
	for _, c := range coords {
		dst = appendCoord(dst, c, hasZ, hasM)
	}
	return dst
}

func appendRings(dst []byte, poly geom.PolygonData, hasZ, hasM bool) []byte {
	dst = appendUint32(dst, uint32(1+len(poly.Holes)))
	dst = appendCoords(dst, poly.Exterior, hasZ, hasM)
	for _, hole := range poly.Holes {
		dst = appendCoords(dst, hole, hasZ, hasM)
	}
	return dst
}

// Unmarshal parses WKB or EWKB into a geometry. An embedded EWKB SRID
// is honored; plain WKB gets the default SRID.
func Unmarshal(data []byte) (*geom.Geometry, error) {
	d := &decoder{data: data, srid: geom.DefaultSrid}
	g, err := d.geometry()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.data)-d.pos)
	}
	return g, nil
}

type decoder struct {
	data []byte
	pos  int
	srid geom.Srid
}

func (d *decoder) geometry() (*geom.Geometry, error) {
	if d.pos >= len(d.data) {
		return nil, fmt.Errorf("%w: missing byte order", ErrCorrupt)
	}
	var order binary.ByteOrder
	switch d.data[d.pos] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("%w: bad byte order %d", ErrCorrupt, d.data[d.pos])
	}
	d.pos++

	typ, err := d.uint32(order)
	if err != nil {
		return nil, err
	}
	hasZ := typ&flagZ != 0
	hasM := typ&flagM != 0
	if typ&flagSrid != 0 {
		code, err := d.uint32(order)
		if err != nil {
			return nil, err
		}
		srid, err := geom.NewSrid(int32(code))
		if err != nil {
			return nil, err
		}
		d.srid = srid
	}
	typ &^= flagZ | flagM | flagSrid

	switch typ {
	case typePoint:
		c, err := d.coord(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		return geom.NewPointCoord(c, d.srid)
	case typeLineString:
		coords, err := d.coords(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(coords, d.srid)
	case typePolygon:
		poly, err := d.rings(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(poly.Exterior, poly.Holes, d.srid)
	case typeMultiPoint:
		children, err := d.children(order, geom.Point)
		if err != nil {
			return nil, err
		}
		coords := make([]geom.Coordinate, len(children))
		for i := range children {
			coords[i] = children[i].Point()
		}
		return geom.NewMultiPoint(coords, d.srid)
	case typeMultiLineString:
		children, err := d.children(order, geom.LineString)
		if err != nil {
			return nil, err
		}
		lines := make([][]geom.Coordinate, len(children))
		for i := range children {
			lines[i] = children[i].Coords()
		}
		return geom.NewMultiLineString(lines, d.srid)
	case typeMultiPolygon:
		children, err := d.children(order, geom.Polygon)
		if err != nil {
			return nil, err
		}
		polys := make([]geom.PolygonData, len(children))
		for i := range children {
			polys[i] = children[i].PolygonData()
		}
		return geom.NewMultiPolygon(polys, d.srid)
	case typeCollection:
		n, err := d.uint32(order)
		if err != nil {
			return nil, err
		}
		if err := d.checkCount(n, 5); err != nil {
			return nil, err
		}
		geoms := make([]geom.Geometry, 0, n)
		for i := uint32(0); i < n; i++ {
			g, err := d.geometry()
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, *g)
		}
		return geom.NewCollection(geoms, d.srid)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownType, typ)
}

// children reads a count followed by that many embedded geometries, all
// of which must have the expected kind. Each embedded geometry carries
// its own byte-order byte; the count uses the parent's order.
func (d *decoder) children(order binary.ByteOrder, kind geom.Kind) ([]geom.Geometry, error) {
	n, err := d.uint32(order)
	if err != nil {
		return nil, err
	}
	if err := d.checkCount(n, 5); err != nil {
		return nil, err
	}
	geoms := make([]geom.Geometry, 0, n)
	for i := uint32(0); i < n; i++ {
		g, err := d.geometry()
		if err != nil {
			return nil, err
		}
		if g.Kind() != kind {
			return nil, fmt.Errorf("%w: expected %s child, got %s",
				ErrCorrupt, kind, g.Kind())
		}
		geoms = append(geoms, *g)
	}
	return geoms, nil
}

// checkCount guards against absurd counts from corrupt input before any
// allocation happens. width is the minimum encoded size of one element.
func (d *decoder) checkCount(n uint32, width int) error {
	if int(n) > (len(d.data)-d.pos)/width {
		return fmt.Errorf("%w: count %d exceeds input", ErrCorrupt, n)
	}
	return nil
}

func (d *decoder) uint32(order binary.ByteOrder) (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, fmt.Errorf("%w: truncated", ErrCorrupt)
	}
	v := order.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) float(order binary.ByteOrder) (float64, error) {
	if d.pos+8 > len(d.data) {
		return 0, fmt.Errorf("%w: truncated", ErrCorrupt)
	}
	v := math.Float64frombits(order.Uint64(d.data[d.pos:]))
	d.pos += 8
	return v, nil
}

func (d *decoder) coord(order binary.ByteOrder, hasZ, hasM bool) (geom.Coordinate, error) {
	dims := 2
	if hasZ {
		dims++
	}
	if hasM {
		dims++
	}
	vals := make([]float64, dims)
	for i := range vals {
		v, err := d.float(order)
		if err != nil {
			return geom.Coordinate{}, err
		}
		vals[i] = v
	}
	switch {
	case hasZ && hasM:
		return geom.NewCoordinateZM(vals[0], vals[1], vals[2], vals[3])
	case hasZ:
		return geom.NewCoordinateZ(vals[0], vals[1], vals[2])
	case hasM:
		c, err := geom.NewCoordinate(vals[0], vals[1])
		if err != nil {
			return geom.Coordinate{}, err
		}
		if math.IsNaN(vals[2]) || math.IsInf(vals[2], 0) {
			return geom.Coordinate{}, fmt.Errorf("%w: non-finite m", ErrCorrupt)
		}
		c.M, c.HasM = vals[2], true
		return c, nil
	}
	return geom.NewCoordinate(vals[0], vals[1])
}

func (d *decoder) coords(order binary.ByteOrder, hasZ, hasM bool) ([]geom.Coordinate, error) {
	n, err := d.uint32(order)
	if err != nil {
		return nil, err
	}
	if err := d.checkCount(n, 16); err != nil {
		return nil, err
	}
	coords := make([]geom.Coordinate, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := d.coord(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func (d *decoder) rings(order binary.ByteOrder, hasZ, hasM bool) (geom.PolygonData, error) {
	var poly geom.PolygonData
	n, err := d.uint32(order)
	if err != nil {
		return poly, err
	}
	if err := d.checkCount(n, 4); err != nil {
		return poly, err
	}
	for i := uint32(0); i < n; i++ {
		ring, err := d.coords(order, hasZ, hasM)
		if err != nil {
			return poly, err
		}
		if i == 0 {
			poly.Exterior = ring
		} else {
			poly.Holes = append(poly.Holes, ring)
		}
	}
	if poly.Exterior == nil {
		return poly, fmt.Errorf("%w: polygon without rings", ErrCorrupt)
	}
	return poly, nil
}
