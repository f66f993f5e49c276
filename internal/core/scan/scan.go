// Package scan implements the coverage scan pattern generator: given a
// survey polygon, a takeoff point and scan parameters, it produces a
// boustrophedon waypoint path covering the polygon, plus validation
// diagnostics and summary statistics.
//
// The engine is a pure, synchronous computation with no shared state; it
// is safe to call concurrently with distinct configs.
package scan

import (
	"fmt"
	"math"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/geospatial"
)

// Limits holds the validation bounds and advisory thresholds. The
// warning thresholds are UX heuristics, so they are configuration
// rather than constants of the algorithm.
type Limits struct {
	MinAltitude      float64 // meters AGL
	MaxAltitude      float64 // meters AGL
	MaxScanLines     int     // above this, warn about pattern density
	MaxFlightSeconds float64 // above this, warn about flight time
}

// DefaultLimits are the values used when no configuration overrides them.
var DefaultLimits = Limits{
	MinAltitude:      0,
	MaxAltitude:      200,
	MaxScanLines:     500,
	MaxFlightSeconds: 1800,
}

// NormalizeAngle wraps a compass angle in degrees into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Validate checks a scan configuration. All structural problems are
// collected into Errors so the caller sees the full problem set in one
// pass; Warnings are non-blocking advisories and never affect IsValid.
func Validate(cfg domain.ScanConfig, lim Limits) domain.ScanValidation {
	v := domain.ScanValidation{}

	if len(cfg.Polygon) < 3 {
		v.Errors = append(v.Errors, "polygon must have at least 3 vertices")
	} else if !isSimple(projectPolygon(cfg.Polygon)) {
		v.Errors = append(v.Errors, "polygon is self-intersecting")
	}
	if cfg.Spacing <= 0 {
		v.Errors = append(v.Errors, "spacing must be positive")
	}
	if cfg.Altitude < lim.MinAltitude || cfg.Altitude > lim.MaxAltitude {
		v.Errors = append(v.Errors, fmt.Sprintf("altitude must be between %g and %g meters", lim.MinAltitude, lim.MaxAltitude))
	}
	if cfg.Speed <= 0 {
		v.Errors = append(v.Errors, "speed must be positive")
	}

	v.IsValid = len(v.Errors) == 0
	if !v.IsValid {
		return v
	}

	// Advisories need well-defined geometry, so they only run on a
	// config that passed every structural check. The candidate count is
	// derived arithmetically first: materializing the spans costs O(count)
	// time and memory, which is unbounded as spacing approaches zero, and
	// past the density threshold the advisory alone is the answer.
	if candidateLineCount(cfg) > lim.MaxScanLines {
		v.Warnings = append(v.Warnings, "very dense scan pattern, consider increasing spacing")
		return v
	}

	spans, path := buildPath(cfg)
	if len(spans) > lim.MaxScanLines {
		v.Warnings = append(v.Warnings, "very dense scan pattern, consider increasing spacing")
	}
	if pathLength(path)/cfg.Speed > lim.MaxFlightSeconds {
		v.Warnings = append(v.Warnings, "flight time exceeds typical limits")
	}
	return v
}

// candidateLineCount computes how many candidate scan lines scanSpans
// would place, from the rotated bounding-box extent alone. Clipping can
// only keep or split candidates, never add steps, so this bounds the
// span-build cost without running it.
func candidateLineCount(cfg domain.ScanConfig) int {
	origin := cfg.Polygon[0]
	rad := NormalizeAngle(cfg.Angle) * math.Pi / 180

	rotated := make([]domain.PlanarPoint, len(cfg.Polygon))
	for i, v := range cfg.Polygon {
		rotated[i] = rotateCCW(geospatial.ToPlanar(origin, v), rad)
	}
	_, minY, _, maxY := boundingBox(rotated)

	// Mirrors the candidate loop in scanSpans: first line at half
	// spacing above minY, stepping by spacing up to maxY less half
	// spacing, with the same boundary epsilon.
	n := math.Floor((maxY-minY-cfg.Spacing+1e-9)/cfg.Spacing) + 1
	switch {
	case n < 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int(n)
}

// Generate produces the full waypoint path and statistics for a valid
// configuration. Callers are expected to run Validate first; Generate
// rejects structurally broken input outright but does not repeat the
// full geometric analysis, and its behavior on a non-simple polygon is
// unsupported.
func Generate(cfg domain.ScanConfig) (*domain.ScanResult, error) {
	if len(cfg.Polygon) < 3 {
		return nil, fmt.Errorf("scan config invalid: polygon has %d vertices, need at least 3", len(cfg.Polygon))
	}
	if cfg.Spacing <= 0 {
		return nil, fmt.Errorf("scan config invalid: spacing %g must be positive", cfg.Spacing)
	}
	if cfg.Speed <= 0 {
		return nil, fmt.Errorf("scan config invalid: speed %g must be positive", cfg.Speed)
	}

	spans, path := buildPath(cfg)

	// Zero spans means the spacing exceeds the polygon extent: the path
	// degrades to a direct transit, surfaced through ScanLineCount.
	if len(spans) == 0 && cfg.EndPoint == nil {
		path = append(path, path[0])
	}

	origin := cfg.Polygon[0]
	rad := NormalizeAngle(cfg.Angle) * math.Pi / 180

	waypoints := make([]domain.ScanWaypoint, len(path))
	for i, p := range path {
		g := geospatial.ToGeo(origin, rotateCCW(p, -rad))
		waypoints[i] = domain.ScanWaypoint{
			Lat:      g.Lat,
			Lon:      g.Lon,
			Altitude: cfg.Altitude,
			Speed:    cfg.Speed,
		}
	}

	total := pathLength(path)
	return &domain.ScanResult{
		Waypoints: waypoints,
		Statistics: domain.ScanStatistics{
			WaypointCount:       len(waypoints),
			ScanLineCount:       len(spans),
			TotalDistance:       total,
			EstimatedFlightTime: total / cfg.Speed,
			CoverageArea:        math.Abs(signedArea(projectPolygon(cfg.Polygon))),
		},
	}, nil
}

// projectPolygon converts the geographic ring into the planar frame
// anchored at its first vertex. The origin is fixed once per call so all
// distances within the call are self-consistent.
func projectPolygon(polygon domain.Polygon) []domain.PlanarPoint {
	pts := make([]domain.PlanarPoint, len(polygon))
	for i, v := range polygon {
		pts[i] = geospatial.ToPlanar(polygon[0], v)
	}
	return pts
}

// buildPath runs the rotate-clip-stitch pipeline in the rotated planar
// frame and returns the accepted spans plus the stitched path, still
// rotated. The caller is responsible for rotating back and unprojecting.
func buildPath(cfg domain.ScanConfig) ([]span, []domain.PlanarPoint) {
	origin := cfg.Polygon[0]
	rad := NormalizeAngle(cfg.Angle) * math.Pi / 180

	rotated := make([]domain.PlanarPoint, len(cfg.Polygon))
	for i, v := range cfg.Polygon {
		rotated[i] = rotateCCW(geospatial.ToPlanar(origin, v), rad)
	}

	spans := scanSpans(rotated, cfg.Spacing)

	start := rotateCCW(geospatial.ToPlanar(origin, cfg.StartPoint), rad)
	var end *domain.PlanarPoint
	if cfg.EndPoint != nil {
		e := rotateCCW(geospatial.ToPlanar(origin, *cfg.EndPoint), rad)
		end = &e
	}

	return spans, stitch(spans, start, end)
}
