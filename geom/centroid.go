package geom

import (
	"fmt"
	"math"
)

// Centroid returns a representative 2-D point for the geometry: the mean of
// points, the length-weighted midpoint of lines, or the area-weighted
// center of polygons (holes subtracted). Collections aggregate over the
// children of their highest topological dimension. Degenerate shapes fall
// back down the dimension ladder (a zero-area polygon is treated as its
// boundary, a zero-length line as its vertices).
func (g *Geometry) Centroid() (Coordinate, error) {
	var acc centroidAcc
	g.accumCentroid(&acc)
	c, ok := acc.result()
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: cannot compute centroid for %s",
			ErrEmptyGeometry, g.TypeName())
	}
	return c, nil
}

// centroidAcc accumulates weighted sums at each topological dimension.
// The highest dimension with nonzero weight wins.
type centroidAcc struct {
	sumX, sumY [3]float64
	weight     [3]float64
}

func (a *centroidAcc) addPoint(c Coordinate) {
	a.sumX[0] += c.X
	a.sumY[0] += c.Y
	a.weight[0]++
}

func (a *centroidAcc) addLine(coords []Coordinate) {
	for i := 1; i < len(coords); i++ {
		p, q := coords[i-1], coords[i]
		dx, dy := q.X-p.X, q.Y-p.Y
		length := math.Sqrt(dx*dx + dy*dy)
		a.sumX[1] += (p.X + q.X) / 2 * length
		a.sumY[1] += (p.Y + q.Y) / 2 * length
		a.weight[1] += length
	}
	for _, c := range coords {
		a.addPoint(c)
	}
}

func (a *centroidAcc) addPolygon(p PolygonData) {
	a.addRingArea(p.Exterior, 1)
	for _, h := range p.Holes {
		a.addRingArea(h, -1)
	}
	a.addLine(p.Exterior)
}

// addRingArea applies the shoelace formula. The sign argument subtracts
// holes; ring orientation is normalized by taking absolute area.
func (a *centroidAcc) addRingArea(ring []Coordinate, sign float64) {
	if len(ring) < 4 {
		return
	}
	var area, cx, cy float64
	for i := 1; i < len(ring); i++ {
		p, q := ring[i-1], ring[i]
		cross := p.X*q.Y - q.X*p.Y
		area += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	area /= 2
	if area == 0 {
		return
	}
	cx /= 6 * area
	cy /= 6 * area
	w := math.Abs(area) * sign
	a.sumX[2] += cx * w
	a.sumY[2] += cy * w
	a.weight[2] += w
}

func (a *centroidAcc) result() (Coordinate, bool) {
	for dim := 2; dim >= 0; dim-- {
		if a.weight[dim] > 0 {
			return Coordinate{
				X: a.sumX[dim] / a.weight[dim],
				Y: a.sumY[dim] / a.weight[dim],
			}, true
		}
	}
	return Coordinate{}, false
}

func (g *Geometry) accumCentroid(acc *centroidAcc) {
	switch g.kind {
	case Point:
		acc.addPoint(g.pt)
	case MultiPoint:
		for _, c := range g.coords {
			acc.addPoint(c)
		}
	case LineString:
		acc.addLine(g.coords)
	case MultiLineString:
		for _, line := range g.lines {
			acc.addLine(line)
		}
	case Polygon:
		acc.addPolygon(g.poly)
	case MultiPolygon:
		for _, p := range g.polys {
			acc.addPolygon(p)
		}
	case Collection:
		for i := range g.geoms {
			g.geoms[i].accumCentroid(acc)
		}
	}
}
