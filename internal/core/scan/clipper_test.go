package scan

import (
	"math"
	"sort"
	"testing"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

func TestLineCrossingsSquare(t *testing.T) {
	edges := buildEdges(square(100))

	xs := lineCrossings(edges, 50)
	if len(xs) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(xs))
	}
	if xs[0] != 0 || xs[1] != 100 {
		t.Errorf("crossings: got %v, want [0 100]", xs)
	}

	// Outside the polygon: no crossings.
	if xs := lineCrossings(edges, 150); len(xs) != 0 {
		t.Errorf("expected no crossings above the square, got %v", xs)
	}
}

func TestLineCrossingsSorted(t *testing.T) {
	// Triangle with vertices out of x order.
	pts := []domain.PlanarPoint{{X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	xs := lineCrossings(buildEdges(pts), 50)
	if !sort.Float64sAreSorted(xs) {
		t.Errorf("crossings not sorted: %v", xs)
	}
	if len(xs) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(xs))
	}
}

func TestScanSpansSquare(t *testing.T) {
	spans := scanSpans(square(100), 20)

	// Lines at y = 10, 30, 50, 70, 90.
	if len(spans) != 5 {
		t.Fatalf("expected 5 spans, got %d", len(spans))
	}
	for i, s := range spans {
		if s.x1 != 0 || s.x2 != 100 {
			t.Errorf("span %d: got (%f,%f), want (0,100)", i, s.x1, s.x2)
		}
		if i > 0 && spans[i].y <= spans[i-1].y {
			t.Errorf("spans not ordered by y: %f after %f", spans[i].y, spans[i-1].y)
		}
	}
}

func TestScanSpansWinding(t *testing.T) {
	// A clockwise ring must produce the same spans as its reversal.
	ccw := square(100)
	cw := make([]domain.PlanarPoint, len(ccw))
	for i, p := range ccw {
		cw[len(ccw)-1-i] = p
	}
	a := scanSpans(ccw, 20)
	b := scanSpans(cw, 20)
	if len(a) != len(b) {
		t.Fatalf("span count differs by winding: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if math.Abs(a[i].x1-b[i].x1) > 1e-9 || math.Abs(a[i].x2-b[i].x2) > 1e-9 || math.Abs(a[i].y-b[i].y) > 1e-9 {
			t.Errorf("span %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestScanSpansNarrowWaist(t *testing.T) {
	// H-shaped polygon: two 20-wide towers joined by a thin bridge at
	// mid height. Lines through the towers above/below the bridge must
	// yield two spans on one y.
	pts := []domain.PlanarPoint{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 45}, {X: 80, Y: 45}, {X: 80, Y: 0},
		{X: 100, Y: 0}, {X: 100, Y: 100}, {X: 80, Y: 100}, {X: 80, Y: 55},
		{X: 20, Y: 55}, {X: 20, Y: 100}, {X: 0, Y: 100},
	}
	spans := scanSpans(pts, 20)

	perY := make(map[float64]int)
	for _, s := range spans {
		perY[s.y]++
	}
	// y = 10, 30, 70, 90 cut both towers; y = 50 crosses the bridge.
	for _, y := range []float64{10, 30, 70, 90} {
		if perY[y] != 2 {
			t.Errorf("y=%v: expected 2 spans, got %d", y, perY[y])
		}
	}
	if perY[50] != 1 {
		t.Errorf("y=50: expected 1 span, got %d", perY[50])
	}
}

func TestScanSpansSpacingLargerThanPolygon(t *testing.T) {
	if spans := scanSpans(square(100), 10000); len(spans) != 0 {
		t.Errorf("expected 0 spans, got %d", len(spans))
	}
}

func TestScanSpansConvexCoverage(t *testing.T) {
	// For any convex polygon at least one line fits whenever the
	// spacing does not exceed the extent along the stepping direction.
	for _, spacing := range []float64{5, 20, 50, 99} {
		if spans := scanSpans(square(100), spacing); len(spans) < 1 {
			t.Errorf("spacing %f: expected >= 1 span", spacing)
		}
	}
}
