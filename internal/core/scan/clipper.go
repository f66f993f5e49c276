package scan

import (
	"math"
	"sort"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// edge is one side of the closed polygon ring, indexed so the clipper
// can be tested in isolation from rotation and projection.
type edge struct {
	a, b domain.PlanarPoint
}

// span is the in-polygon interval of one horizontal scan line.
type span struct {
	x1, x2, y float64
}

// buildEdges materialises the implicit closing edge.
func buildEdges(pts []domain.PlanarPoint) []edge {
	edges := make([]edge, len(pts))
	for i := range pts {
		edges[i] = edge{a: pts[i], b: pts[(i+1)%len(pts)]}
	}
	return edges
}

// lineCrossings intersects the horizontal line at y with every polygon
// edge and returns the sorted crossing X values. Edges parallel to the
// line are skipped; the half-spacing inset applied by scanSpans keeps
// lines off vertices, so tangent degeneracies do not arise in practice.
func lineCrossings(edges []edge, y float64) []float64 {
	var xs []float64
	for _, e := range edges {
		if e.a.Y == e.b.Y {
			continue
		}
		// Half-open test so a crossing exactly at a shared vertex is
		// counted once, not for both incident edges.
		if (e.a.Y > y) == (e.b.Y > y) {
			continue
		}
		t := (y - e.a.Y) / (e.b.Y - e.a.Y)
		xs = append(xs, e.a.X+t*(e.b.X-e.a.X))
	}
	sort.Float64s(xs)
	return xs
}

// scanSpans generates the evenly spaced scan-line spans covering the
// polygon, ordered by increasing Y. Candidate lines are inset by half a
// step from the bounding box edges; lines with fewer than two crossings
// do not pass through the interior and are dropped. Crossings are paired
// even-odd, so a non-convex polygon can contribute several spans on one
// line.
func scanSpans(pts []domain.PlanarPoint, spacing float64) []span {
	// Normalize winding to counterclockwise before clipping.
	if signedArea(pts) < 0 {
		rev := make([]domain.PlanarPoint, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}

	edges := buildEdges(pts)
	_, minY, _, maxY := boundingBox(pts)

	var spans []span
	for y := minY + spacing/2; y <= maxY-spacing/2+1e-9; y += spacing {
		xs := lineCrossings(edges, y)
		if len(xs) < 2 {
			continue
		}
		// Even-odd pairing: (enter, exit), (enter, exit), ...
		for i := 0; i+1 < len(xs); i += 2 {
			if math.Abs(xs[i+1]-xs[i]) == 0 {
				continue
			}
			spans = append(spans, span{x1: xs[i], x2: xs[i+1], y: y})
		}
	}
	return spans
}
