package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/domain"
	"github.com/samirrijal/placemap/internal/core/usecases"
)

func TestSavedPlaceService_SaveDefaultsCustomName(t *testing.T) {
	var got domain.SavedPlace
	store := &mockStore{
		createFn: func(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
			if token != "tok" {
				t.Errorf("expected token tok, got %q", token)
			}
			got = p
			p.ID = "42"
			return &p, nil
		},
	}
	svc := usecases.NewSavedPlaceService(store)

	saved, err := svc.Save(context.Background(), "tok", usecases.SaveRequest{
		PlaceID:   " ChIJ1 ",
		PlaceName: "Kordon",
		Location:  izmir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "42" {
		t.Errorf("expected id 42, got %q", saved.ID)
	}
	if got.PlaceID != "ChIJ1" || got.CustomName != "Kordon" {
		t.Errorf("unexpected stored place: %+v", got)
	}
	if got.Latitude != izmir.Lat || got.Longitude != izmir.Lng {
		t.Errorf("expected coordinates to be carried, got %v,%v", got.Latitude, got.Longitude)
	}
}

func TestSavedPlaceService_SaveValidation(t *testing.T) {
	store := &mockStore{
		createFn: func(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
			t.Fatal("store must not be called for invalid input")
			return nil, nil
		},
	}
	svc := usecases.NewSavedPlaceService(store)

	tests := []struct {
		name string
		req  usecases.SaveRequest
	}{
		{"missing place id", usecases.SaveRequest{PlaceName: "x", Location: izmir}},
		{"missing name", usecases.SaveRequest{PlaceID: "p", Location: izmir}},
		{"bad coordinates", usecases.SaveRequest{PlaceID: "p", PlaceName: "x", Location: domain.GeoPoint{Lat: 10, Lng: 200}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), "tok", tt.req)
			if !errors.Is(err, usecases.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSavedPlaceService_DuplicateIsNormalized(t *testing.T) {
	store := &mockStore{
		createFn: func(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
			return nil, &apierror.ServerRejection{Status: 409, Message: "Place already saved"}
		},
	}
	svc := usecases.NewSavedPlaceService(store)

	_, err := svc.Save(context.Background(), "tok", usecases.SaveRequest{PlaceID: "p", PlaceName: "x", Location: izmir})

	var ne *apierror.NormalizedError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NormalizedError, got %T", err)
	}
	if ne.Status != 409 || ne.Message != "Place already saved" {
		t.Errorf("unexpected normalized error: %+v", ne)
	}
}

func TestSavedPlaceService_SavedIDs(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context, token string) ([]domain.SavedPlace, error) {
			return []domain.SavedPlace{{ID: "1", PlaceID: "a"}, {ID: "2", PlaceID: "b"}}, nil
		},
	}
	svc := usecases.NewSavedPlaceService(store)

	ids, err := svc.SavedIDs(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ids.Has("a") || !ids.Has("b") || ids.Has("1") {
		t.Errorf("unexpected id set: %v", ids.IDs())
	}
}

func TestSavedPlaceService_DeleteRequiresID(t *testing.T) {
	svc := usecases.NewSavedPlaceService(&mockStore{})

	if err := svc.Delete(context.Background(), "tok", "  "); !errors.Is(err, usecases.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Delete(context.Background(), "tok", "7"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
