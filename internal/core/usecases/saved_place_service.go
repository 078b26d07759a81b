package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/ports"
)

// SaveRequest is what a user submits to bookmark a place.
type SaveRequest struct {
	PlaceID    string          `json:"placeId"`
	PlaceName  string          `json:"placeName"`
	CustomName string          `json:"customName"`
	Address    string          `json:"address"`
	Location   domain.GeoPoint `json:"location"`
}

// SavedPlaceService manages the user's saved places.
type SavedPlaceService struct {
	store ports.SavedPlacesStore
}

// NewSavedPlaceService creates a new SavedPlaceService.
func NewSavedPlaceService(store ports.SavedPlacesStore) *SavedPlaceService {
	return &SavedPlaceService{store: store}
}

// List returns the user's saved places.
func (s *SavedPlaceService) List(ctx context.Context, token string) ([]domain.SavedPlace, error) {
	places, err := s.store.List(ctx, token)
	if err != nil {
		return nil, fail(ctx, "saved.list", err, "Failed to load saved places")
	}
	return places, nil
}

// Save bookmarks a place. The custom name defaults to the place name.
func (s *SavedPlaceService) Save(ctx context.Context, token string, req SaveRequest) (*domain.SavedPlace, error) {
	req.PlaceID = strings.TrimSpace(req.PlaceID)
	req.PlaceName = strings.TrimSpace(req.PlaceName)
	req.CustomName = strings.TrimSpace(req.CustomName)

	if req.PlaceID == "" {
		return nil, fmt.Errorf("%w: placeId is required", ErrInvalidInput)
	}
	if req.PlaceName == "" {
		return nil, fmt.Errorf("%w: placeName is required", ErrInvalidInput)
	}
	if !req.Location.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if req.CustomName == "" {
		req.CustomName = req.PlaceName
	}

	saved, err := s.store.Create(ctx, token, domain.SavedPlace{
		PlaceID:    req.PlaceID,
		PlaceName:  req.PlaceName,
		CustomName: req.CustomName,
		Address:    req.Address,
		Latitude:   req.Location.Lat,
		Longitude:  req.Location.Lng,
	})
	if err != nil {
		return nil, fail(ctx, "saved.create", err, "Failed to save place")
	}
	return saved, nil
}

// Delete removes a saved place by its persistent id.
func (s *SavedPlaceService) Delete(ctx context.Context, token, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, token, id); err != nil {
		return fail(ctx, "saved.delete", err, "Failed to delete place")
	}
	return nil
}

// SavedIDs returns the provider ids the user has saved.
func (s *SavedPlaceService) SavedIDs(ctx context.Context, token string) (domain.SavedPlaceIDSet, error) {
	places, err := s.List(ctx, token)
	if err != nil {
		return nil, err
	}
	return domain.SavedIDs(places), nil
}
