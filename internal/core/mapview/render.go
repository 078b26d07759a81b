package mapview

import (
	"strconv"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// Stacking priorities. Saved markers sit above unsaved ones so a saved pin is
// never hidden by an unsaved pin at the same coordinate.
const (
	ZIndexRadiusCircle = 1
	ZIndexPlace        = 100
	ZIndexSavedPlace   = 200
	ZIndexCenter       = 1000
)

const (
	IconCenter = "https://maps.google.com/mapfiles/ms/icons/red-dot.png"
	IconPlace  = "https://maps.google.com/mapfiles/ms/icons/blue-dot.png"
	IconSaved  = "https://maps.google.com/mapfiles/ms/icons/yellow-dot.png"
)

// Overlays lays out everything drawn on the surface for a view: the radius
// circle, the center marker once the surface is ready, then one marker per
// place. The circle and center marker sit on the target center.
func Overlays(state domain.MapViewState, radius float64, places []domain.Place, saved domain.SavedPlaceIDSet, surfaceReady bool) []domain.Overlay {
	out := make([]domain.Overlay, 0, len(places)+2)

	out = append(out, domain.Overlay{
		Kind:         domain.OverlayRadiusCircle,
		Key:          "radius",
		Position:     state.TargetCenter,
		RadiusMeters: radius,
		ZIndex:       ZIndexRadiusCircle,
		Clickable:    false,
	})

	if surfaceReady {
		out = append(out, domain.Overlay{
			Kind:      domain.OverlayCenterMarker,
			Key:       "center",
			Position:  state.TargetCenter,
			Style:     domain.MarkerCenter,
			Icon:      IconCenter,
			Title:     "Search center",
			ZIndex:    ZIndexCenter,
			Clickable: true,
		})
	}

	for i, p := range places {
		marker := domain.Overlay{
			Kind:      domain.OverlayPlaceMarker,
			Key:       markerKey(p, i),
			Position:  p.Location,
			Style:     domain.MarkerDefault,
			Icon:      IconPlace,
			Title:     p.Name,
			ZIndex:    ZIndexPlace,
			Clickable: true,
		}
		if saved.Has(p.PlaceID) {
			marker.Style = domain.MarkerSaved
			marker.Icon = IconSaved
			marker.ZIndex = ZIndexSavedPlace
		}
		out = append(out, marker)
	}

	return out
}

// markerKey falls back to the list position when a place has no id, so
// reordering id-less places changes their identity.
func markerKey(p domain.Place, i int) string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return "idx-" + strconv.Itoa(i)
}
