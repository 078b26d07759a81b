package mapview_test

import (
	"testing"

	"github.com/samirrijal/placemap/internal/core/mapview"
)

func TestZoomForRadius(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{100000, 9},
		{50000, 9},
		{49999, 10},
		{25000, 10},
		{24999, 11},
		{10000, 11},
		{5000, 12},
		{2500, 13},
		{1500, 14},
		{1000, 14},
		{999, 15},
		{500, 15},
		{499, 16},
		{1, 16},
	}

	for _, tt := range tests {
		if got := mapview.ZoomForRadius(tt.radius); got != tt.want {
			t.Errorf("ZoomForRadius(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestZoomForRadius_NonIncreasing(t *testing.T) {
	prev := mapview.ZoomForRadius(1)
	for r := 1.0; r <= 120000; r += 37 {
		z := mapview.ZoomForRadius(r)
		if z > prev {
			t.Fatalf("zoom increased from %d to %d at radius %v", prev, z, r)
		}
		prev = z
	}
}
