package geospatial

import (
	"math"

	"github.com/samirrijal/placemap/internal/core/domain"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// Distance returns the great-circle distance in meters between two points.
func Distance(a, b domain.GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Around returns the box enclosing a circle of radiusMeters around center.
func Around(center domain.GeoPoint, radiusMeters float64) domain.Bounds {
	latDelta := radiusMeters / metersPerDegree
	lngDelta := radiusMeters / (metersPerDegree * math.Cos(toRad(center.Lat)))

	return domain.Bounds{
		MinLat: center.Lat - latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLat: center.Lat + latDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
