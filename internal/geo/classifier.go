package geo

import (
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// IsInside reports whether p falls inside zone. It is pure and never panics:
// malformed geometry (missing radius, too few vertices, unknown kind)
// classifies as outside, so one bad zone cannot abort a full evaluation pass.
// Circle and corridor boundaries are inclusive.
func IsInside(p Point, zone Zone) bool {
	switch zone.Kind {
	case KindCircle:
		if zone.Center == nil || zone.Radius <= 0 {
			return false
		}
		return Distance(p, *zone.Center) <= zone.Radius

	case KindPolygon:
		if len(zone.Points) < 3 {
			return false
		}
		return pointInRing(p, zone.Points)

	case KindCorridor:
		if len(zone.Points) < 2 || zone.Radius <= 0 {
			return false
		}
		return DistanceToPolyline(p, zone.Points) <= zone.Radius
	}
	return false
}

// pointInRing runs a planar point-in-ring test in lng/lat degree space, the
// same coordinate treatment the dashboard map uses. The ring is closed before
// testing if the input does not repeat its first vertex.
func pointInRing(p Point, ring []Point) bool {
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, v := range ring {
		flat = append(flat, v.Lng, v.Lat)
	}
	if ring[0] != ring[len(ring)-1] {
		flat = append(flat, ring[0].Lng, ring[0].Lat)
	}
	return xy.IsPointInRing(geom.XY, geom.Coord{p.Lng, p.Lat}, flat)
}
