package scan_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/core/scan"
)

// equatorSquare is a ~111.32 m x ~111.32 m survey square at the equator.
var equatorSquare = domain.Polygon{
	{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.001}, {Lat: 0.001, Lon: 0.001}, {Lat: 0.001, Lon: 0},
}

func baseConfig() domain.ScanConfig {
	return domain.ScanConfig{
		Polygon:    equatorSquare,
		Altitude:   50,
		Spacing:    20,
		Angle:      0,
		StartPoint: domain.GeoPoint{Lat: 0, Lon: 0},
		Speed:      5,
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0}, {45, 45}, {360, 0}, {361, 1}, {-90, 270}, {720, 0}, {-720, 0}, {359.5, 359.5},
	}
	for _, c := range cases {
		if got := scan.NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%f) = %f, want %f", c.in, got, c.want)
		}
	}

	// Periodicity: adding whole turns never changes the result.
	for _, a := range []float64{0, 13.7, 211.2, 359.9} {
		for k := -3; k <= 3; k++ {
			got := scan.NormalizeAngle(a + 360*float64(k))
			if math.Abs(got-a) > 1e-9 {
				t.Errorf("NormalizeAngle(%f + 360*%d) = %f, want %f", a, k, got, a)
			}
			if got < 0 || got >= 360 {
				t.Errorf("NormalizeAngle result %f out of [0,360)", got)
			}
		}
	}
}

func TestValidateTooFewVertices(t *testing.T) {
	cfg := baseConfig()
	cfg.Polygon = domain.Polygon{{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0.001}}

	v := scan.Validate(cfg, scan.DefaultLimits)
	if v.IsValid {
		t.Fatal("expected invalid")
	}
	if len(v.Errors) < 1 {
		t.Fatal("expected at least one error")
	}
	if !strings.Contains(v.Errors[0], "vertices") {
		t.Errorf("error should mention vertex count: %q", v.Errors[0])
	}
}

func TestValidateBowtie(t *testing.T) {
	cfg := baseConfig()
	cfg.Polygon = domain.Polygon{
		{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0.001}, {Lat: 0, Lon: 0.001}, {Lat: 0.001, Lon: 0},
	}

	v := scan.Validate(cfg, scan.DefaultLimits)
	if v.IsValid {
		t.Fatal("bowtie must be invalid")
	}
	if len(v.Errors) == 0 {
		t.Fatal("expected a self-intersection error")
	}
	if !strings.Contains(v.Errors[0], "self-intersecting") {
		t.Errorf("unexpected error: %q", v.Errors[0])
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := domain.ScanConfig{
		Polygon:  domain.Polygon{{Lat: 0, Lon: 0}},
		Altitude: 500,
		Spacing:  0,
		Speed:    -1,
	}

	v := scan.Validate(cfg, scan.DefaultLimits)
	if v.IsValid {
		t.Fatal("expected invalid")
	}
	if len(v.Errors) != 4 {
		t.Errorf("expected 4 errors (vertices, spacing, altitude, speed), got %d: %v", len(v.Errors), v.Errors)
	}
}

func TestValidateOK(t *testing.T) {
	v := scan.Validate(baseConfig(), scan.DefaultLimits)
	if !v.IsValid {
		t.Fatalf("expected valid, errors: %v", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", v.Warnings)
	}
}

func TestValidateDenseWarning(t *testing.T) {
	cfg := baseConfig()
	cfg.Spacing = 0.1 // ~1100 lines over a 111 m square

	v := scan.Validate(cfg, scan.DefaultLimits)
	if !v.IsValid {
		t.Fatalf("warnings must not affect validity, errors: %v", v.Errors)
	}
	found := false
	for _, w := range v.Warnings {
		if strings.Contains(w, "dense") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected density warning, got %v", v.Warnings)
	}
}

func TestValidateNearZeroSpacing(t *testing.T) {
	// Spacing this small would mean ~1e11 scan lines over the square.
	// Validate must flag the density from the bounding-box extent alone
	// instead of materializing the pattern.
	cfg := baseConfig()
	cfg.Spacing = 1e-9

	done := make(chan domain.ScanValidation, 1)
	go func() { done <- scan.Validate(cfg, scan.DefaultLimits) }()

	select {
	case v := <-done:
		if !v.IsValid {
			t.Fatalf("warnings must not affect validity, errors: %v", v.Errors)
		}
		found := false
		for _, w := range v.Warnings {
			if strings.Contains(w, "dense") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected density warning, got %v", v.Warnings)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Validate did not return promptly for near-zero spacing")
	}
}

func TestValidateFlightTimeWarning(t *testing.T) {
	cfg := baseConfig()
	cfg.Speed = 0.05 // ~111 m legs at 5 cm/s far exceeds 1800 s

	v := scan.Validate(cfg, scan.DefaultLimits)
	if !v.IsValid {
		t.Fatalf("expected valid, errors: %v", v.Errors)
	}
	found := false
	for _, w := range v.Warnings {
		if strings.Contains(w, "flight time") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected flight time warning, got %v", v.Warnings)
	}
}

func TestGenerateEquatorSquare(t *testing.T) {
	res, err := scan.Generate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// floor(111.32 / 20) lines, inset by half a step, +-1 tolerance.
	if res.Statistics.ScanLineCount < 4 || res.Statistics.ScanLineCount > 6 {
		t.Errorf("scan line count: got %d, want ~5", res.Statistics.ScanLineCount)
	}
	if res.Statistics.TotalDistance <= 0 {
		t.Error("total distance must be positive")
	}
	wantTime := res.Statistics.TotalDistance / 5
	if math.Abs(res.Statistics.EstimatedFlightTime-wantTime) > 1e-9 {
		t.Errorf("flight time: got %f, want %f", res.Statistics.EstimatedFlightTime, wantTime)
	}
	if res.Statistics.WaypointCount != len(res.Waypoints) {
		t.Errorf("waypoint count %d != len(waypoints) %d", res.Statistics.WaypointCount, len(res.Waypoints))
	}

	// First waypoint is the takeoff point.
	if res.Waypoints[0].Lat != 0 || res.Waypoints[0].Lon != 0 {
		t.Errorf("first waypoint should be the start point, got %+v", res.Waypoints[0])
	}
	for _, wp := range res.Waypoints {
		if wp.Altitude != 50 || wp.Speed != 5 {
			t.Errorf("altitude and speed must be uniform, got %+v", wp)
		}
	}
}

func TestGenerateBoustrophedonAlternation(t *testing.T) {
	res, err := scan.Generate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Statistics.ScanLineCount < 2 {
		t.Skip("need at least 2 scan lines")
	}

	// Waypoints after the start come in (entry, exit) pairs. Consecutive
	// lines must traverse in opposite directions.
	first := res.Waypoints[2].Lon - res.Waypoints[1].Lon
	second := res.Waypoints[4].Lon - res.Waypoints[3].Lon
	if first*second >= 0 {
		t.Errorf("consecutive lines should alternate direction: %f then %f", first, second)
	}
}

func TestGenerateWaypointCountWithEndPoint(t *testing.T) {
	cfg := baseConfig()
	cfg.EndPoint = &domain.GeoPoint{Lat: 0.001, Lon: 0.001}

	res, err := scan.Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2 + 2*res.Statistics.ScanLineCount
	if res.Statistics.WaypointCount != want {
		t.Errorf("waypoint count: got %d, want %d", res.Statistics.WaypointCount, want)
	}

	last := res.Waypoints[len(res.Waypoints)-1]
	if math.Abs(last.Lat-0.001) > 1e-9 || math.Abs(last.Lon-0.001) > 1e-9 {
		t.Errorf("last waypoint should be the end point, got %+v", last)
	}
}

func TestGenerateSpacingLargerThanPolygon(t *testing.T) {
	cfg := baseConfig()
	cfg.Spacing = 10000

	res, err := scan.Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Statistics.ScanLineCount != 0 {
		t.Errorf("expected 0 scan lines, got %d", res.Statistics.ScanLineCount)
	}
	if len(res.Waypoints) != 2 {
		t.Errorf("expected direct transit of 2 waypoints, got %d", len(res.Waypoints))
	}
}

func TestGenerateAngleRotatesLines(t *testing.T) {
	// A 222 m (east-west) x 111 m (north-south) rectangle. Stepping
	// north (angle 0) fits ~5 lines; stepping east (angle 90) fits ~11.
	rect := domain.Polygon{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.002}, {Lat: 0.001, Lon: 0.002}, {Lat: 0.001, Lon: 0},
	}

	cfg := baseConfig()
	cfg.Polygon = rect

	north, err := scan.Generate(cfg)
	if err != nil {
		t.Fatalf("angle 0: %v", err)
	}

	cfg.Angle = 90
	east, err := scan.Generate(cfg)
	if err != nil {
		t.Fatalf("angle 90: %v", err)
	}

	if north.Statistics.ScanLineCount < 4 || north.Statistics.ScanLineCount > 6 {
		t.Errorf("angle 0: got %d lines, want ~5", north.Statistics.ScanLineCount)
	}
	if east.Statistics.ScanLineCount < 10 || east.Statistics.ScanLineCount > 12 {
		t.Errorf("angle 90: got %d lines, want ~11", east.Statistics.ScanLineCount)
	}

	// Angle must not change the coverage area.
	if math.Abs(north.Statistics.CoverageArea-east.Statistics.CoverageArea) > 1e-6 {
		t.Errorf("area depends on angle: %f vs %f", north.Statistics.CoverageArea, east.Statistics.CoverageArea)
	}
}

func TestGenerateCoverageAreaMatchesPolygonArea(t *testing.T) {
	res, err := scan.Generate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := scan.PolygonArea(equatorSquare)
	if math.Abs(res.Statistics.CoverageArea-want) > 1e-6 {
		t.Errorf("coverage area: got %f, want %f", res.Statistics.CoverageArea, want)
	}
}

func TestGenerateRejectsBrokenInput(t *testing.T) {
	cfg := baseConfig()
	cfg.Polygon = domain.Polygon{{Lat: 0, Lon: 0}}
	if _, err := scan.Generate(cfg); err == nil {
		t.Error("expected error for degenerate polygon")
	}

	cfg = baseConfig()
	cfg.Spacing = 0
	if _, err := scan.Generate(cfg); err == nil {
		t.Error("expected error for zero spacing")
	}

	cfg = baseConfig()
	cfg.Speed = 0
	if _, err := scan.Generate(cfg); err == nil {
		t.Error("expected error for zero speed")
	}
}

func TestGenerateWaypointsInsideBounds(t *testing.T) {
	// Every scan waypoint (all but takeoff/landing) must lie on the
	// polygon boundary or interior, so within its bounding box.
	res, err := scan.Generate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const eps = 1e-9
	for i, wp := range res.Waypoints[1:] {
		if wp.Lat < -eps || wp.Lat > 0.001+eps || wp.Lon < -eps || wp.Lon > 0.001+eps {
			t.Errorf("waypoint %d outside polygon bounds: %+v", i+1, wp)
		}
	}
}
