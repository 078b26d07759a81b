package domain

// MapViewState is the authoritative center/zoom of one map view.
type MapViewState struct {
	CurrentCenter       GeoPoint `json:"currentCenter"`
	TargetCenter        GeoPoint `json:"targetCenter"`
	Zoom                int      `json:"zoom"`
	AnimationInProgress bool     `json:"animationInProgress"`
}

// OverlayKind distinguishes the layers drawn on a map surface.
type OverlayKind string

const (
	OverlayRadiusCircle OverlayKind = "radius_circle"
	OverlayCenterMarker OverlayKind = "center_marker"
	OverlayPlaceMarker  OverlayKind = "place_marker"
)

// MarkerStyle is the visual variant of a marker.
type MarkerStyle string

const (
	MarkerCenter  MarkerStyle = "center"
	MarkerDefault MarkerStyle = "default"
	MarkerSaved   MarkerStyle = "saved"
)

// Overlay is one drawable item. ZIndex is the stacking priority; a higher
// value is drawn on top and receives pointer events first.
type Overlay struct {
	Kind         OverlayKind `json:"kind"`
	Key          string      `json:"key"`
	Position     GeoPoint    `json:"position"`
	RadiusMeters float64     `json:"radiusMeters,omitempty"`
	Style        MarkerStyle `json:"style,omitempty"`
	Icon         string      `json:"icon,omitempty"`
	Title        string      `json:"title,omitempty"`
	ZIndex       int         `json:"zIndex"`
	Clickable    bool        `json:"clickable"`
}
