package geospatial

import (
	"math"

	"github.com/alexsanchiss/uas-planner-sub002/internal/core/domain"
)

const (
	earthRadiusKm = 6371.0

	// metersPerDegree is the length of one degree of latitude. Longitude
	// degrees shrink by cos(lat).
	metersPerDegree = 111320.0
)

// ToPlanar projects a geographic point into a local tangent-plane frame
// anchored at origin, in meters (equirectangular approximation). The
// error stays well under 1% for areas up to a few kilometers across away
// from the poles; this is not a geodesic projection and must not be used
// for large-area inputs.
func ToPlanar(origin, p domain.GeoPoint) domain.PlanarPoint {
	return domain.PlanarPoint{
		X: (p.Lon - origin.Lon) * metersPerDegree * math.Cos(toRad(origin.Lat)),
		Y: (p.Lat - origin.Lat) * metersPerDegree,
	}
}

// ToGeo is the inverse of ToPlanar for the same origin.
func ToGeo(origin domain.GeoPoint, p domain.PlanarPoint) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: origin.Lat + p.Y/metersPerDegree,
		Lon: origin.Lon + p.X/(metersPerDegree*math.Cos(toRad(origin.Lat))),
	}
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / metersPerDegree
	lonDelta := radiusMeters / (metersPerDegree * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// CrossTrackDistance returns the distance in meters from point p to the
// segment a-b, all in geographic coordinates, using the planar frame
// anchored at a. Used for deviation detection over short legs.
func CrossTrackDistance(a, b, p domain.GeoPoint) float64 {
	pb := ToPlanar(a, b)
	pp := ToPlanar(a, p)

	segLen2 := pb.X*pb.X + pb.Y*pb.Y
	if segLen2 == 0 {
		return math.Hypot(pp.X, pp.Y)
	}

	// Clamp projection onto the segment
	t := (pp.X*pb.X + pp.Y*pb.Y) / segLen2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(pp.X-t*pb.X, pp.Y-t*pb.Y)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
