package ports

import (
	"context"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// MapSurface is the host map-rendering surface driven by a map view.
// Implementations must not call back into the view that drives them.
type MapSurface interface {
	PanTo(center domain.GeoPoint)
	SetZoom(zoom int)
	Render(overlays []domain.Overlay)
}

// SurfaceProvider hands out the surface for a map view.
type SurfaceProvider interface {
	Surface(viewID string) MapSurface
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
