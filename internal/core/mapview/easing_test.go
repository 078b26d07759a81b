package mapview_test

import (
	"math"
	"testing"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
)

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
	}

	for _, tt := range tests {
		if got := mapview.EaseInOutCubic(tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EaseInOutCubic(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestInterpolate_ConvergesExactly(t *testing.T) {
	from := domain.GeoPoint{Lat: 0, Lng: 0}
	to := domain.GeoPoint{Lat: 10, Lng: 20}

	if got := mapview.Interpolate(from, to, 1.0); got != to {
		t.Fatalf("expected exactly %+v at p=1, got %+v", to, got)
	}

	odd := domain.GeoPoint{Lat: 43.26271, Lng: -2.92528}
	if got := mapview.Interpolate(domain.GeoPoint{Lat: 0.1, Lng: 0.2}, odd, 1.3); got != odd {
		t.Fatalf("expected exactly %+v past p=1, got %+v", odd, got)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	got := mapview.Interpolate(domain.GeoPoint{}, domain.GeoPoint{Lat: 10, Lng: 20}, 0.5)
	if got.Lat != 5 || got.Lng != 10 {
		t.Errorf("expected midpoint {5 10}, got %+v", got)
	}
}
