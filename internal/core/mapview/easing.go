package mapview

import (
	"math"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// EaseInOutCubic maps linear progress p in [0,1] onto a cubic ease-in-out curve.
func EaseInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

// Interpolate returns the eased position between from and to at progress p.
// At p >= 1 it returns to exactly.
func Interpolate(from, to domain.GeoPoint, p float64) domain.GeoPoint {
	if p >= 1 {
		return to
	}
	if p <= 0 {
		return from
	}
	e := EaseInOutCubic(p)
	return domain.GeoPoint{
		Lat: from.Lat + (to.Lat-from.Lat)*e,
		Lng: from.Lng + (to.Lng-from.Lng)*e,
	}
}
