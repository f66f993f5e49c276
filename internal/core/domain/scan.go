package domain

// Polygon is the outer ring of a survey area: an ordered sequence of at
// least three vertices, implicitly closed (the last vertex connects back
// to the first). Holes are not supported.
type Polygon []GeoPoint

// ScanConfig is the input to the coverage scan pattern generator.
// It is owned by the caller and read-only to the engine.
type ScanConfig struct {
	Polygon    Polygon   `json:"polygon"`
	Altitude   float64   `json:"altitude"` // meters AGL
	Spacing    float64   `json:"spacing"`  // meters between scan lines, > 0
	Angle      float64   `json:"angle"`    // degrees, 0 = north, clockwise positive
	StartPoint GeoPoint  `json:"start_point"`
	EndPoint   *GeoPoint `json:"end_point,omitempty"` // nil = end at last scan point
	Speed      float64   `json:"speed"`               // cruise speed in m/s, > 0
}

// ScanWaypoint is one element of the generated flight path. Sequence
// order is flight order: the first waypoint is the takeoff point, the
// last is the landing point (or the final scan point when no landing
// point was supplied).
type ScanWaypoint struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude float64 `json:"altitude"`
	Speed    float64 `json:"speed"`
}

// ScanStatistics summarises a generated path. Recomputed fresh on every
// generation call.
type ScanStatistics struct {
	WaypointCount       int     `json:"waypoint_count"`
	ScanLineCount       int     `json:"scan_line_count"`
	TotalDistance       float64 `json:"total_distance"`        // meters
	EstimatedFlightTime float64 `json:"estimated_flight_time"` // seconds
	CoverageArea        float64 `json:"coverage_area"`         // square meters
}

// ScanValidation reports configuration problems. Errors block
// generation; warnings are advisories accompanying a still-valid config.
type ScanValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ScanResult is the output of one generation call.
type ScanResult struct {
	Waypoints  []ScanWaypoint `json:"waypoints"`
	Statistics ScanStatistics `json:"statistics"`
}
