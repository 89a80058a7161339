package geo

// Point is a WGS84 coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ShapeKind string

const (
	KindCircle   ShapeKind = "circle"
	KindPolygon  ShapeKind = "polygon"
	KindCorridor ShapeKind = "corridor" // provider calls this "sausage"
)

// Zone is a named geofence. Geometry fields are populated per Kind: circles
// carry Center+Radius, polygons carry Points (ring, >=3 vertices, closing
// vertex optional), corridors carry Points (polyline, >=2 vertices) plus a
// buffer Radius. Radius is always meters.
type Zone struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Kind     ShapeKind `json:"type"`
	Center   *Point    `json:"center,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Points   []Point   `json:"points,omitempty"`
	Color    string    `json:"color,omitempty"`
	Category string    `json:"category,omitempty"`
}
