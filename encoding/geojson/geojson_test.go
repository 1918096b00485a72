package geojson

import (
	"errors"
	"strings"
	"testing"

	"github.com/geost/geost/geom"
	"github.com/tidwall/gjson"
)

func expect(t testing.TB, what bool) {
	t.Helper()
	if !what {
		t.Fatal("not what you expected")
	}
}

func ring(xys ...float64) []geom.Coordinate {
	coords := make([]geom.Coordinate, 0, len(xys)/2)
	for i := 0; i < len(xys); i += 2 {
		coords = append(coords, geom.Coordinate{X: xys[i], Y: xys[i+1]})
	}
	return coords
}

func TestMarshalPoint(t *testing.T) {
	g, err := geom.NewPoint(-122.4, 37.7, geom.WGS84)
	expect(t, err == nil)
	data, err := Marshal(g)
	expect(t, err == nil)
	expect(t, string(data) == `{"type":"Point","coordinates":[-122.4,37.7]}`)
}

func TestMarshalPointZ(t *testing.T) {
	c, err := geom.NewCoordinateZ(1, 2, 3)
	expect(t, err == nil)
	g, err := geom.NewPointCoord(c, geom.WGS84)
	expect(t, err == nil)
	data, err := Marshal(g)
	expect(t, err == nil)
	expect(t, string(data) == `{"type":"Point","coordinates":[1,2,3]}`)
}

func TestMarshalPolygonWithHole(t *testing.T) {
	g, err := geom.NewPolygon(
		ring(0, 0, 10, 0, 10, 10, 0, 10, 0, 0),
		[][]geom.Coordinate{ring(4, 4, 6, 4, 6, 6, 4, 6, 4, 4)},
		geom.WGS84,
	)
	expect(t, err == nil)
	data, err := Marshal(g)
	expect(t, err == nil)
	res := gjson.ParseBytes(data)
	expect(t, res.Get("type").String() == "Polygon")
	expect(t, len(res.Get("coordinates").Array()) == 2)
	expect(t, len(res.Get("coordinates.0").Array()) == 5)
}

func TestRoundTrip(t *testing.T) {
	poly, err := geom.NewPolygon(ring(0, 0, 10, 0, 10, 10, 0, 10, 0, 0), nil, geom.WGS84)
	expect(t, err == nil)
	line, err := geom.NewLineString(ring(0, 0, 5, 5, 10, 0), geom.WGS84)
	expect(t, err == nil)
	mp, err := geom.NewMultiPoint(ring(1, 1, 2, 2), geom.WGS84)
	expect(t, err == nil)
	coll, err := geom.NewCollection([]geom.Geometry{*poly, *line, *mp}, geom.WGS84)
	expect(t, err == nil)

	for _, g := range []*geom.Geometry{poly, line, mp, coll} {
		data, err := Marshal(g)
		expect(t, err == nil)
		back, err := Unmarshal(data)
		expect(t, err == nil)
		expect(t, back.Kind() == g.Kind())
		expect(t, back.NumPoints() == g.NumPoints())
		expect(t, back.SRID() == geom.WGS84)
		r1, ok1 := g.Rect()
		r2, ok2 := back.Rect()
		expect(t, ok1 == ok2 && r1 == r2)
	}
}

func TestUnmarshalMultiLineString(t *testing.T) {
	g, err := Unmarshal([]byte(`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3]]]}`))
	expect(t, err == nil)
	expect(t, g.Kind() == geom.MultiLineString)
	expect(t, len(g.Lines()) == 2)
}

func TestUnmarshalMultiPolygon(t *testing.T) {
	g, err := Unmarshal([]byte(`{"type":"MultiPolygon","coordinates":[` +
		`[[[0,0],[1,0],[1,1],[0,1],[0,0]]],` +
		`[[[5,5],[6,5],[6,6],[5,6],[5,5]]]]}`))
	expect(t, err == nil)
	expect(t, g.Kind() == geom.MultiPolygon)
	expect(t, len(g.Polygons()) == 2)
}

func TestUnmarshalZ(t *testing.T) {
	g, err := Unmarshal([]byte(`{"type":"Point","coordinates":[1,2,3]}`))
	expect(t, err == nil)
	expect(t, g.Flags().Has(geom.HasZ))
	expect(t, g.Point().Z == 3)
}

func TestUnmarshalFeature(t *testing.T) {
	g, err := Unmarshal([]byte(`{"type":"Feature","properties":{"name":"x"},` +
		`"geometry":{"type":"Point","coordinates":[4,5]}}`))
	expect(t, err == nil)
	expect(t, g.Kind() == geom.Point)
	expect(t, g.Point().X == 4 && g.Point().Y == 5)
}

func TestUnmarshalFeatureCollection(t *testing.T) {
	g, err := Unmarshal([]byte(`{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]}},` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[2,2]}}]}`))
	expect(t, err == nil)
	expect(t, g.Kind() == geom.Collection)
	expect(t, len(g.Children()) == 2)
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"Point"`))
	expect(t, errors.Is(err, ErrInvalidJSON))
	_, err = Unmarshal([]byte(`{"type":"Circle","coordinates":[0,0]}`))
	expect(t, errors.Is(err, ErrInvalidType))
	_, err = Unmarshal([]byte(`{"type":"Point","coordinates":[1]}`))
	expect(t, errors.Is(err, ErrInvalidCoordinates))
	_, err = Unmarshal([]byte(`{"type":"Polygon","coordinates":[]}`))
	expect(t, errors.Is(err, ErrInvalidCoordinates))
	// rejected by geometry validation, not the parser
	_, err = Unmarshal([]byte(`{"type":"LineString","coordinates":[[0,0]]}`))
	expect(t, err != nil)
}

func TestMarshalIndent(t *testing.T) {
	g, err := geom.NewPoint(1, 2, geom.WGS84)
	expect(t, err == nil)
	data, err := MarshalIndent(g)
	expect(t, err == nil)
	expect(t, strings.Contains(string(data), "\n"))
	back, err := Unmarshal(data)
	expect(t, err == nil)
	expect(t, back.Point().X == 1)
}

func TestMarshalBBox(t *testing.T) {
	g, err := geom.NewLineString(ring(0, 0, 10, 5), geom.WGS84)
	expect(t, err == nil)
	data, err := MarshalBBox(g)
	expect(t, err == nil)
	bbox := gjson.GetBytes(data, "bbox").Array()
	expect(t, len(bbox) == 4)
	expect(t, bbox[0].Float() == 0 && bbox[2].Float() == 10)
	expect(t, bbox[3].Float() == 5)

	back, err := Unmarshal(data)
	expect(t, err == nil)
	expect(t, back.Kind() == geom.LineString)
}

func TestFeature(t *testing.T) {
	g, err := geom.NewPoint(9, 8, geom.WGS84)
	expect(t, err == nil)
	data, err := Feature(42, g)
	expect(t, err == nil)
	res := gjson.ParseBytes(data)
	expect(t, res.Get("type").String() == "Feature")
	expect(t, res.Get("id").Int() == 42)
	expect(t, res.Get("geometry.type").String() == "Point")
	expect(t, res.Get("properties").IsObject())

	back, err := Unmarshal(data)
	expect(t, err == nil)
	expect(t, back.Point().X == 9)
}
