package echarts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/mapview"
)

var center = domain.GeoPoint{Lat: 38.4237, Lng: 27.1428}

func TestExtentCoversCircle(t *testing.T) {
	overlays := []domain.Overlay{
		{Kind: domain.OverlayRadiusCircle, Position: center, RadiusMeters: 1000},
		{Kind: domain.OverlayCenterMarker, Position: center},
	}

	b, ok := Extent(overlays)
	require.True(t, ok)
	assert.Less(t, b.MinLat, center.Lat)
	assert.Greater(t, b.MaxLat, center.Lat)
	assert.InDelta(t, center.Lat-b.MinLat, b.MaxLat-center.Lat, 1e-9)
	assert.InDelta(t, 1000.0/111320.0, b.MaxLat-center.Lat, 1e-9)
}

func TestExtentEmpty(t *testing.T) {
	_, ok := Extent(nil)
	assert.False(t, ok)
}

func TestRenderHTML(t *testing.T) {
	places := []domain.Place{
		{PlaceID: "a", Name: "Kordon Cafe", Location: domain.GeoPoint{Lat: 38.425, Lng: 27.14}},
		{PlaceID: "b", Name: "Agora", Location: domain.GeoPoint{Lat: 38.42, Lng: 27.145}},
	}
	state := domain.MapViewState{CurrentCenter: center, TargetCenter: center, Zoom: 14}
	overlays := mapview.Overlays(state, 1500, places, domain.NewSavedPlaceIDSet("b"), true)

	html, err := RenderHTML(Snapshot{Title: "Nearby", Overlays: overlays})
	require.NoError(t, err)

	page := string(html)
	assert.True(t, strings.Contains(page, "<html"), "expected an html page")
	assert.Contains(t, page, "Kordon Cafe")
	assert.Contains(t, page, "saved")
}

func TestRenderNothing(t *testing.T) {
	_, err := RenderHTML(Snapshot{Title: "empty"})
	assert.Error(t, err)
}
