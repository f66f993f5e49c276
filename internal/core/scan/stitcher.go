package scan

import (
	"math"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

// rotateCCW rotates a planar point counterclockwise by rad around the
// frame origin. The clipper frame is reached by rotating the polygon
// counterclockwise by the compass scan angle, which maps the stepping
// direction onto +Y and makes scan lines horizontal.
func rotateCCW(p domain.PlanarPoint, rad float64) domain.PlanarPoint {
	sin, cos := math.Sincos(rad)
	return domain.PlanarPoint{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// stitch connects the clipper's spans into one continuous path in the
// rotated frame: takeoff first, then each span traversed boustrophedon
// (the entry end of every span is whichever endpoint is closer to the
// previous exit), then the landing point if one was supplied. With zero
// spans the result is a direct transit [start] or [start, end].
func stitch(spans []span, start domain.PlanarPoint, end *domain.PlanarPoint) []domain.PlanarPoint {
	path := make([]domain.PlanarPoint, 0, 2+2*len(spans))
	path = append(path, start)

	prev := start
	for _, s := range spans {
		left := domain.PlanarPoint{X: s.x1, Y: s.y}
		right := domain.PlanarPoint{X: s.x2, Y: s.y}

		entry, exit := left, right
		if dist(prev, right) < dist(prev, left) {
			entry, exit = right, left
		}
		path = append(path, entry, exit)
		prev = exit
	}

	if end != nil {
		path = append(path, *end)
	}
	return path
}

func dist(a, b domain.PlanarPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// pathLength sums the euclidean leg distances of a planar path.
func pathLength(path []domain.PlanarPoint) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += dist(path[i-1], path[i])
	}
	return total
}
