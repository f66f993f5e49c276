package scan

import (
	"math"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/geospatial"
)

// PolygonArea returns the area of a survey polygon in square meters,
// computed with the shoelace formula in a planar frame anchored at the
// first vertex. Returns 0 for degenerate polygons.
func PolygonArea(polygon domain.Polygon) float64 {
	if len(polygon) < 3 {
		return 0
	}
	pts := make([]domain.PlanarPoint, len(polygon))
	for i, v := range polygon {
		pts[i] = geospatial.ToPlanar(polygon[0], v)
	}
	return math.Abs(signedArea(pts))
}

// signedArea is the shoelace sum over planar vertices. Positive for
// counterclockwise winding.
func signedArea(pts []domain.PlanarPoint) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// boundingBox returns the axis-aligned extent of a planar vertex set.
func boundingBox(pts []domain.PlanarPoint) (minX, minY, maxX, maxY float64) {
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// isSimple reports whether no two non-adjacent edges of the closed
// polygon intersect. O(n²) over edge pairs, which is fine for
// interactively drawn polygons of tens of vertices.
func isSimple(pts []domain.PlanarPoint) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Skip the edge itself and the two edges sharing a vertex
			// with it (adjacency wraps around the ring).
			if j == i || j == (i+1)%n || (j+1)%n == i {
				continue
			}
			if segmentsIntersect(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

// segmentsIntersect reports whether segments p1-p2 and p3-p4 cross,
// including collinear overlap.
func segmentsIntersect(p1, p2, p3, p4 domain.PlanarPoint) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// cross is the 2D cross product (p2-p1) × (p3-p1).
func cross(p1, p2, p3 domain.PlanarPoint) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p3.X-p1.X)*(p2.Y-p1.Y)
}

// onSegment checks if q lies within the bounding box of segment p-r.
// Only meaningful when q is already known to be collinear with p-r.
func onSegment(p, r, q domain.PlanarPoint) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}
