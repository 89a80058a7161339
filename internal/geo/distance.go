package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used to convert angular
// distances to meters.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// DistanceToPolyline returns the minimum geodesic distance in meters from p to
// any segment of the polyline, not just its vertices. A polyline with fewer
// than two vertices yields +Inf.
func DistanceToPolyline(p Point, line []Point) float64 {
	if len(line) < 2 {
		return math.Inf(1)
	}

	x := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
	best := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		a := s2.PointFromLatLng(s2.LatLngFromDegrees(line[i].Lat, line[i].Lng))
		b := s2.PointFromLatLng(s2.LatLngFromDegrees(line[i+1].Lat, line[i+1].Lng))
		d := s2.DistanceFromSegment(x, a, b).Radians() * EarthRadiusMeters
		if d < best {
			best = d
		}
	}
	return best
}
