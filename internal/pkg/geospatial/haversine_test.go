package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/pkg/geospatial"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.GeoPoint
		want float64
		tol  float64
	}{
		{"same point", domain.GeoPoint{Lat: 38.4237, Lng: 27.1428}, domain.GeoPoint{Lat: 38.4237, Lng: 27.1428}, 0, 1e-6},
		{"one degree of latitude", domain.GeoPoint{Lat: 0, Lng: 0}, domain.GeoPoint{Lat: 1, Lng: 0}, 111195, 50},
		{"izmir to ankara", domain.GeoPoint{Lat: 38.4237, Lng: 27.1428}, domain.GeoPoint{Lat: 39.9334, Lng: 32.8597}, 520000, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geospatial.Distance(tt.a, tt.b); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance = %.1f, want %.1f ± %.1f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestAround_ContainsRadius(t *testing.T) {
	center := domain.GeoPoint{Lat: 38.4237, Lng: 27.1428}
	b := geospatial.Around(center, 1500)

	north := domain.GeoPoint{Lat: b.MaxLat, Lng: center.Lng}
	east := domain.GeoPoint{Lat: center.Lat, Lng: b.MaxLng}

	for _, edge := range []domain.GeoPoint{north, east} {
		d := geospatial.Distance(center, edge)
		if math.Abs(d-1500) > 15 {
			t.Errorf("expected edge about 1500m away, got %.1f", d)
		}
	}
}
