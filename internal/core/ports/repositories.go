package ports

import (
	"context"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// PlacesLookup finds places around a point. Failures are returned as
// apierror failure values.
type PlacesLookup interface {
	SearchNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error)
}

// SavedPlacesStore persists a user's saved places. The token identifies the
// user; a duplicate place yields 409, a missing id 404, an expired session 401.
type SavedPlacesStore interface {
	List(ctx context.Context, token string) ([]domain.SavedPlace, error)
	Create(ctx context.Context, token string, place domain.SavedPlace) (*domain.SavedPlace, error)
	Delete(ctx context.Context, token, id string) error
}

// Authenticator exchanges credentials for a user and token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error)
}
