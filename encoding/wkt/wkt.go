// Package wkt converts geometries to and from Well-Known Text, with
// the EWKT "SRID=n;" prefix extension for carrying reference systems.
package wkt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/geost/geost/geom"
)

var ErrSyntax = errors.New("wkt: syntax error")

// Marshal returns the WKT encoding of g. Z, M and ZM dimension tags
// are written when the geometry carries those coordinates.
func Marshal(g *geom.Geometry) ([]byte, error) {
	return appendGeometry(nil, g)
}

// MarshalEWKT is like Marshal but prefixes the output with the
// geometry's SRID in the "SRID=n;" form.
func MarshalEWKT(g *geom.Geometry) ([]byte, error) {
	dst := append([]byte("SRID="), strconv.AppendInt(nil, int64(g.SRID().Code()), 10)...)
	dst = append(dst, ';')
	return appendGeometry(dst, g)
}

func appendGeometry(dst []byte, g *geom.Geometry) ([]byte, error) {
	hasZ := g.Flags().Has(geom.HasZ)
	hasM := g.Flags().Has(geom.HasM)
	dst = append(dst, strings.ToUpper(g.TypeName())...)
	switch {
	case hasZ && hasM:
		dst = append(dst, " ZM"...)
	case hasZ:
		dst = append(dst, " Z"...)
	case hasM:
		dst = append(dst, " M"...)
	}
	dst = append(dst, ' ')
	switch g.Kind() {
	case geom.Point:
		dst = append(dst, '(')
		dst = appendCoord(dst, g.Point(), hasZ, hasM)
		dst = append(dst, ')')
	case geom.LineString, geom.MultiPoint:
		dst = appendCoords(dst, g.Coords(), hasZ, hasM)
	case geom.Polygon:
		dst = appendRings(dst, g.PolygonData(), hasZ, hasM)
	case geom.MultiLineString:
		dst = append(dst, '(')
		for i, line := range g.Lines() {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = appendCoords(dst, line, hasZ, hasM)
		}
		dst = append(dst, ')')
	case geom.MultiPolygon:
		dst = append(dst, '(')
		for i, poly := range g.Polygons() {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = appendRings(dst, poly, hasZ, hasM)
		}
		dst = append(dst, ')')
	case geom.Collection:
		dst = append(dst, '(')
		children := g.Children()
		for i := range children {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			var err error
			dst, err = appendGeometry(dst, &children[i])
			if err != nil {
				return nil, err
			}
		}
		dst = append(dst, ')')
	default:
		return nil, fmt.Errorf("%w: unknown geometry kind", ErrSyntax)
	}
	return dst, nil
}

func appendCoord(dst []byte, c geom.Coordinate, hasZ, hasM bool) []byte {
	dst = strconv.AppendFloat(dst, c.X, 'f', -1, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, c.Y, 'f', -1, 64)
	if hasZ {
		dst = append(dst, ' ')
		dst = strconv.AppendFloat(dst, c.Z, 'f', -1, 64)
	}
	if hasM {
		dst = append(dst, ' ')
		dst = strconv.AppendFloat(dst, c.M, 'f', -1, 64)
	}
	return dst
}

func appendCoords(dst []byte, coords []geom.Coordinate, hasZ, hasM bool) []byte {
	dst = append(dst, '(')
	for i, c := range coords {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendCoord(dst, c, hasZ, hasM)
	}
	return append(dst, ')')
}

func appendRings(dst []byte, poly geom.PolygonData, hasZ, hasM bool) []byte {
	dst = append(dst, '(')
	dst = appendCoords(dst, poly.Exterior, hasZ, hasM)
	for _, hole := range poly.Holes {
		dst = append(dst, ", "...)
		dst = appendCoords(dst, hole, hasZ, hasM)
	}
	return append(dst, ')')
}

// Unmarshal parses WKT or EWKT into a geometry. Without an EWKT SRID
// prefix the geometry gets the default SRID.
func Unmarshal(data []byte) (*geom.Geometry, error) {
	p := &parser{s: string(data), srid: geom.DefaultSrid}
	p.skip()
	if err := p.sridPrefix(); err != nil {
		return nil, err
	}
	g, err := p.geometry()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.i != len(p.s) {
		return nil, fmt.Errorf("%w: trailing input at offset %d", ErrSyntax, p.i)
	}
	return g, nil
}

type parser struct {
	s    string
	i    int
	srid geom.Srid
	hasZ bool
	hasM bool
}

func (p *parser) skip() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\r', '\n':
			p.i++
		default:
			return
		}
	}
}

func (p *parser) word() string {
	start := p.i
	for p.i < len(p.s) {
		c := p.s[p.i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			p.i++
		} else {
			break
		}
	}
	return strings.ToUpper(p.s[start:p.i])
}

func (p *parser) expect(ch byte) error {
	p.skip()
	if p.i >= len(p.s) || p.s[p.i] != ch {
		return fmt.Errorf("%w: expected %q at offset %d", ErrSyntax, ch, p.i)
	}
	p.i++
	return nil
}

// peek reports whether the next non-space byte is ch, without consuming.
func (p *parser) peek(ch byte) bool {
	p.skip()
	return p.i < len(p.s) && p.s[p.i] == ch
}

func (p *parser) number() (float64, error) {
	p.skip()
	start := p.i
	for p.i < len(p.s) {
		c := p.s[p.i]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' ||
			c == 'e' || c == 'E' {
			p.i++
		} else {
			break
		}
	}
	if start == p.i {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrSyntax, p.i)
	}
	v, err := strconv.ParseFloat(p.s[start:p.i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, p.s[start:p.i])
	}
	return v, nil
}

func (p *parser) sridPrefix() error {
	if !strings.HasPrefix(strings.ToUpper(p.s[p.i:]), "SRID") {
		return nil
	}
	p.i += len("SRID")
	if err := p.expect('='); err != nil {
		return err
	}
	v, err := p.number()
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	srid, err := geom.NewSrid(int32(v))
	if err != nil {
		return err
	}
	p.srid = srid
	return nil
}

func (p *parser) geometry() (*geom.Geometry, error) {
	p.skip()
	name := p.word()
	// the dimension tag may be glued to the type name or stand alone
	p.hasZ, p.hasM = false, false
	for _, suffix := range []string{"ZM", "Z", "M"} {
		trimmed := strings.TrimSuffix(name, suffix)
		if trimmed != name && knownType(trimmed) {
			name = trimmed
			p.hasZ = strings.Contains(suffix, "Z")
			p.hasM = strings.Contains(suffix, "M")
			break
		}
	}
	if !p.hasZ && !p.hasM {
		save := p.i
		p.skip()
		switch tag := p.word(); tag {
		case "ZM":
			p.hasZ, p.hasM = true, true
		case "Z":
			p.hasZ = true
		case "M":
			p.hasM = true
		default:
			p.i = save
		}
	}
	if !knownType(name) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrSyntax, name)
	}

	save := p.i
	p.skip()
	if p.word() == "EMPTY" {
		return nil, fmt.Errorf("%w: %s is empty", geom.ErrEmptyGeometry,
			strings.ToLower(name))
	}
	p.i = save

	switch name {
	case "POINT":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		c, err := p.coord()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return geom.NewPointCoord(c, p.srid)
	case "LINESTRING":
		coords, err := p.coords()
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(coords, p.srid)
	case "POLYGON":
		poly, err := p.rings()
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(poly.Exterior, poly.Holes, p.srid)
	case "MULTIPOINT":
		coords, err := p.multiPointCoords()
		if err != nil {
			return nil, err
		}
		return geom.NewMultiPoint(coords, p.srid)
	case "MULTILINESTRING":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var lines [][]geom.Coordinate
		for {
			coords, err := p.coords()
			if err != nil {
				return nil, err
			}
			lines = append(lines, coords)
			if !p.peek(',') {
				break
			}
			p.i++
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return geom.NewMultiLineString(lines, p.srid)
	case "MULTIPOLYGON":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var polys []geom.PolygonData
		for {
			poly, err := p.rings()
			if err != nil {
				return nil, err
			}
			polys = append(polys, poly)
			if !p.peek(',') {
				break
			}
			p.i++
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return geom.NewMultiPolygon(polys, p.srid)
	case "GEOMETRYCOLLECTION":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		var geoms []geom.Geometry
		for {
			g, err := p.geometry()
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, *g)
			if !p.peek(',') {
				break
			}
			p.i++
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return geom.NewCollection(geoms, p.srid)
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrSyntax, name)
}

func knownType(name string) bool {
	switch name {
	case "POINT", "LINESTRING", "POLYGON", "MULTIPOINT",
		"MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION":
		return true
	}
	return false
}

func (p *parser) coord() (geom.Coordinate, error) {
	x, err := p.number()
	if err != nil {
		return geom.Coordinate{}, err
	}
	y, err := p.number()
	if err != nil {
		return geom.Coordinate{}, err
	}
	switch {
	case p.hasZ && p.hasM:
		z, err := p.number()
		if err != nil {
			return geom.Coordinate{}, err
		}
		m, err := p.number()
		if err != nil {
			return geom.Coordinate{}, err
		}
		return geom.NewCoordinateZM(x, y, z, m)
	case p.hasZ:
		z, err := p.number()
		if err != nil {
			return geom.Coordinate{}, err
		}
		return geom.NewCoordinateZ(x, y, z)
	case p.hasM:
		m, err := p.number()
		if err != nil {
			return geom.Coordinate{}, err
		}
		c, err := geom.NewCoordinate(x, y)
		if err != nil {
			return geom.Coordinate{}, err
		}
		// number() rejects non-finite tokens, so m is already finite
		c.M, c.HasM = m, true
		return c, nil
	}
	return geom.NewCoordinate(x, y)
}

func (p *parser) coords() ([]geom.Coordinate, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var coords []geom.Coordinate
	for {
		c, err := p.coord()
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
		if !p.peek(',') {
			break
		}
		p.i++
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return coords, nil
}

// multiPointCoords accepts both "MULTIPOINT (1 2, 3 4)" and the
// parenthesized "MULTIPOINT ((1 2), (3 4))" form.
func (p *parser) multiPointCoords() ([]geom.Coordinate, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var coords []geom.Coordinate
	for {
		wrapped := p.peek('(')
		if wrapped {
			p.i++
		}
		c, err := p.coord()
		if err != nil {
			return nil, err
		}
		if wrapped {
			if err := p.expect(')'); err != nil {
				return nil, err
			}
		}
		coords = append(coords, c)
		if !p.peek(',') {
			break
		}
		p.i++
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return coords, nil
}

func (p *parser) rings() (geom.PolygonData, error) {
	var poly geom.PolygonData
	if err := p.expect('('); err != nil {
		return poly, err
	}
	first := true
	for {
		ring, err := p.coords()
		if err != nil {
			return poly, err
		}
		if first {
			poly.Exterior = ring
			first = false
		} else {
			poly.Holes = append(poly.Holes, ring)
		}
		if !p.peek(',') {
			break
		}
		p.i++
	}
	if err := p.expect(')'); err != nil {
		return poly, err
	}
	return poly, nil
}
