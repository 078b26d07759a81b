package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
	"github.com/samirrijal/placemap/internal/pkg/geospatial"
	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// SearchService finds places around a point.
type SearchService struct {
	places     ports.PlacesLookup
	cache      ports.CacheService
	ttlSeconds int
}

// NewSearchService creates a new SearchService. cache may be nil; a zero ttl
// disables caching.
func NewSearchService(places ports.PlacesLookup, cache ports.CacheService, ttlSeconds int) *SearchService {
	return &SearchService{places: places, cache: cache, ttlSeconds: ttlSeconds}
}

// Nearby returns places within the query radius, each with its distance from
// the center.
func (s *SearchService) Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	caching := s.cache != nil && s.ttlSeconds > 0

	// Try cache
	cacheKey := fmt.Sprintf("places:nearby:%.6f:%.6f:%.0f:%s", q.Center.Lat, q.Center.Lng, q.RadiusMeters, q.Type)
	if caching {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("places_nearby").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("places_nearby").Inc()
	}

	places, err := s.places.SearchNearby(ctx, q)
	if err != nil {
		return nil, fail(ctx, "places.nearby", err, "Failed to search nearby places")
	}

	for i := range places {
		places[i].DistanceMeters = geospatial.Distance(q.Center, places[i].Location)
	}

	if caching {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttlSeconds)
		}
	}

	return places, nil
}

func validateQuery(q domain.NearbyQuery) error {
	if !q.Center.Valid() {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if q.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
	}
	if !domain.ValidPlaceType(q.Type) {
		return fmt.Errorf("%w: unknown place type %q", ErrInvalidInput, q.Type)
	}
	return nil
}
