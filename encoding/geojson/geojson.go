// Package geojson converts geometries to and from RFC 7946 GeoJSON.
//
// GeoJSON positions are always longitude/latitude in WGS 84, so decoded
// geometries carry the WGS 84 SRID and the SRID of encoded geometries is
// not written out.
package geojson

import (
	"errors"
	"strconv"

	"github.com/geost/geost/geom"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	ErrInvalidJSON        = errors.New("geojson: invalid json")
	ErrInvalidType        = errors.New("geojson: invalid type")
	ErrInvalidCoordinates = errors.New("geojson: invalid coordinates")
)

// Marshal returns the GeoJSON encoding of g.
func Marshal(g *geom.Geometry) ([]byte, error) {
	return appendGeometry(nil, g)
}

// MarshalBBox is like Marshal but adds the RFC 7946 bbox member
// derived from the geometry's bounds.
func MarshalBBox(g *geom.Geometry) ([]byte, error) {
	data, err := Marshal(g)
	if err != nil {
		return nil, err
	}
	rect, ok := g.Rect()
	if !ok {
		return data, nil
	}
	return sjson.SetBytes(data, "bbox",
		[]float64{rect.MinX, rect.MinY, rect.MaxX, rect.MaxY})
}

// MarshalIndent is like Marshal but indents the output for humans.
func MarshalIndent(g *geom.Geometry) ([]byte, error) {
	data, err := Marshal(g)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(data), nil
}

// Feature wraps g in a GeoJSON Feature with the given id and no
// properties.
func Feature(id uint64, g *geom.Geometry) ([]byte, error) {
	gdata, err := Marshal(g)
	if err != nil {
		return nil, err
	}
	data := []byte(`{"type":"Feature"}`)
	data, err = sjson.SetBytes(data, "id", id)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetRawBytes(data, "geometry", gdata)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(data, "properties", []byte("{}"))
}

func appendGeometry(dst []byte, g *geom.Geometry) ([]byte, error) {
	hasZ := g.Flags().Has(geom.HasZ)
	switch g.Kind() {
	case geom.Point:
		dst = append(dst, `{"type":"Point","coordinates":`...)
		dst = appendPosition(dst, g.Point(), hasZ)
	case geom.LineString:
		dst = append(dst, `{"type":"LineString","coordinates":`...)
		dst = appendPositions(dst, g.Coords(), hasZ)
	case geom.Polygon:
		dst = append(dst, `{"type":"Polygon","coordinates":`...)
		dst = appendPolygon(dst, g.PolygonData(), hasZ)
	case geom.MultiPoint:
		dst = append(dst, `{"type":"MultiPoint","coordinates":`...)
		dst = appendPositions(dst, g.Coords(), hasZ)
	case geom.MultiLineString:
		dst = append(dst, `{"type":"MultiLineString","coordinates":`...)
		dst = append(dst, '[')
		for i, line := range g.Lines() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendPositions(dst, line, hasZ)
		}
		dst = append(dst, ']')
	case geom.MultiPolygon:
		dst = append(dst, `{"type":"MultiPolygon","coordinates":`...)
		dst = append(dst, '[')
		for i, poly := range g.Polygons() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendPolygon(dst, poly, hasZ)
		}
		dst = append(dst, ']')
	case geom.Collection:
		dst = append(dst, `{"type":"GeometryCollection","geometries":[`...)
		children := g.Children()
		for i := range children {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = appendGeometry(dst, &children[i])
			if err != nil {
				return nil, err
			}
		}
		dst = append(dst, ']')
	default:
		return nil, ErrInvalidType
	}
	return append(dst, '}'), nil
}

func appendPosition(dst []byte, c geom.Coordinate, hasZ bool) []byte {
	dst = append(dst, '[')
	dst = strconv.AppendFloat(dst, c.X, 'f', -1, 64)
	dst = append(dst, ',')
	dst = strconv.AppendFloat(dst, c.Y, 'f', -1, 64)
	if hasZ {
		dst = append(dst, ',')
		dst = strconv.AppendFloat(dst, c.Z, 'f', -1, 64)
	}
	return append(dst, ']')
}

func appendPositions(dst []byte, coords []geom.Coordinate, hasZ bool) []byte {
	dst = append(dst, '[')
	for i, c := range coords {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendPosition(dst, c, hasZ)
	}
	return append(dst, ']')
}

func appendPolygon(dst []byte, poly geom.PolygonData, hasZ bool) []byte {
	dst = append(dst, '[')
	dst = appendPositions(dst, poly.Exterior, hasZ)
	for _, hole := range poly.Holes {
		dst = append(dst, ',')
		dst = appendPositions(dst, hole, hasZ)
	}
	return append(dst, ']')
}

// Unmarshal parses GeoJSON into a geometry. Feature and
// FeatureCollection inputs are unwrapped: a Feature yields its
// geometry, a FeatureCollection yields a collection of them.
func Unmarshal(data []byte) (*geom.Geometry, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return parseGeometry(gjson.ParseBytes(data))
}

func parseGeometry(res gjson.Result) (*geom.Geometry, error) {
	switch res.Get("type").String() {
	case "Point":
		c, err := parsePosition(res.Get("coordinates"))
		if err != nil {
			return nil, err
		}
		return geom.NewPointCoord(c, geom.WGS84)
	case "LineString":
		coords, err := parsePositions(res.Get("coordinates"))
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(coords, geom.WGS84)
	case "Polygon":
		exterior, holes, err := parsePolygon(res.Get("coordinates"))
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(exterior, holes, geom.WGS84)
	case "MultiPoint":
		coords, err := parsePositions(res.Get("coordinates"))
		if err != nil {
			return nil, err
		}
		return geom.NewMultiPoint(coords, geom.WGS84)
	case "MultiLineString":
		var lines [][]geom.Coordinate
		var perr error
		res.Get("coordinates").ForEach(func(_, line gjson.Result) bool {
			coords, err := parsePositions(line)
			if err != nil {
				perr = err
				return false
			}
			lines = append(lines, coords)
			return true
		})
		if perr != nil {
			return nil, perr
		}
		return geom.NewMultiLineString(lines, geom.WGS84)
	case "MultiPolygon":
		var polys []geom.PolygonData
		var perr error
		res.Get("coordinates").ForEach(func(_, poly gjson.Result) bool {
			exterior, holes, err := parsePolygon(poly)
			if err != nil {
				perr = err
				return false
			}
			polys = append(polys, geom.PolygonData{Exterior: exterior, Holes: holes})
			return true
		})
		if perr != nil {
			return nil, perr
		}
		return geom.NewMultiPolygon(polys, geom.WGS84)
	case "GeometryCollection":
		return parseChildren(res.Get("geometries"))
	case "Feature":
		return parseGeometry(res.Get("geometry"))
	case "FeatureCollection":
		var geoms []geom.Geometry
		var perr error
		res.Get("features").ForEach(func(_, feat gjson.Result) bool {
			g, err := parseGeometry(feat.Get("geometry"))
			if err != nil {
				perr = err
				return false
			}
			geoms = append(geoms, *g)
			return true
		})
		if perr != nil {
			return nil, perr
		}
		return geom.NewCollection(geoms, geom.WGS84)
	}
	return nil, ErrInvalidType
}

func parseChildren(res gjson.Result) (*geom.Geometry, error) {
	var geoms []geom.Geometry
	var perr error
	res.ForEach(func(_, child gjson.Result) bool {
		g, err := parseGeometry(child)
		if err != nil {
			perr = err
			return false
		}
		geoms = append(geoms, *g)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return geom.NewCollection(geoms, geom.WGS84)
}

func parsePosition(res gjson.Result) (geom.Coordinate, error) {
	arr := res.Array()
	if len(arr) < 2 {
		return geom.Coordinate{}, ErrInvalidCoordinates
	}
	switch {
	case len(arr) >= 4:
		return geom.NewCoordinateZM(arr[0].Float(), arr[1].Float(),
			arr[2].Float(), arr[3].Float())
	case len(arr) == 3:
		return geom.NewCoordinateZ(arr[0].Float(), arr[1].Float(), arr[2].Float())
	}
	return geom.NewCoordinate(arr[0].Float(), arr[1].Float())
}

func parsePositions(res gjson.Result) ([]geom.Coordinate, error) {
	var coords []geom.Coordinate
	var perr error
	res.ForEach(func(_, pos gjson.Result) bool {
		c, err := parsePosition(pos)
		if err != nil {
			perr = err
			return false
		}
		coords = append(coords, c)
		return true
	})
	return coords, perr
}

func parsePolygon(res gjson.Result) (exterior []geom.Coordinate, holes [][]geom.Coordinate, err error) {
	rings := res.Array()
	if len(rings) == 0 {
		return nil, nil, ErrInvalidCoordinates
	}
	exterior, err = parsePositions(rings[0])
	if err != nil {
		return nil, nil, err
	}
	for _, ring := range rings[1:] {
		hole, err := parsePositions(ring)
		if err != nil {
			return nil, nil, err
		}
		holes = append(holes, hole)
	}
	return exterior, holes, nil
}
