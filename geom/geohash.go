package geom

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
)

// Geohash encodes the geometry's centroid as a geohash string with the
// given character precision (1-12). The geometry must be in a geographic
// reference system with coordinates in lon/lat order.
func (g *Geometry) Geohash(precision uint) (string, error) {
	if precision < 1 || precision > 12 {
		return "", fmt.Errorf("%w: geohash precision must be 1-12, got %d",
			ErrInvalidGeometry, precision)
	}
	c, err := g.Centroid()
	if err != nil {
		return "", err
	}
	if !c.GeographicValid() {
		return "", fmt.Errorf("%w: centroid (%v, %v) is outside lon/lat range",
			ErrInvalidCoordinate, c.X, c.Y)
	}
	return geohash.EncodeWithPrecision(c.Y, c.X, precision), nil
}
