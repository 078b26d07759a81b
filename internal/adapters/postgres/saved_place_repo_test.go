package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/domain"
)

type stubIdentity struct {
	id  string
	err error
}

func (s stubIdentity) Identity(string) (string, error) { return s.id, s.err }

// These cases are rejected before the pool is touched, so a nil DB is fine.
func TestSavedPlaceRepo_RejectsBeforeQuery(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		users  stubIdentity
		token  string
		call   func(r *SavedPlaceRepo, token string) error
		status int
		path   string
	}{
		{
			name:  "missing token",
			users: stubIdentity{id: "u1"},
			token: "",
			call: func(r *SavedPlaceRepo, tok string) error {
				_, err := r.List(context.Background(), tok)
				return err
			},
			status: 401,
			path:   "/api/saved-places",
		},
		{
			name:  "invalid token",
			users: stubIdentity{err: errors.New("bad signature")},
			token: "x.y.z",
			call: func(r *SavedPlaceRepo, tok string) error {
				_, err := r.Create(context.Background(), tok, domain.SavedPlace{PlaceID: "p"})
				return err
			},
			status: 401,
			path:   "/api/saved-places",
		},
		{
			name:  "malformed id",
			users: stubIdentity{id: "u1"},
			token: "tok",
			call: func(r *SavedPlaceRepo, tok string) error {
				return r.Delete(context.Background(), tok, "42")
			},
			status: 404,
			path:   "/api/saved-places/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewSavedPlaceRepo(nil, tt.users)
			repo.now = func() time.Time { return fixed }

			err := tt.call(repo, tt.token)

			var rej *apierror.ServerRejection
			if !errors.As(err, &rej) {
				t.Fatalf("expected ServerRejection, got %T (%v)", err, err)
			}
			if rej.Status != tt.status || rej.Path != tt.path {
				t.Errorf("got status %d path %q, want %d %q", rej.Status, rej.Path, tt.status, tt.path)
			}
			if rej.Timestamp != "2024-05-01T12:00:00Z" {
				t.Errorf("unexpected timestamp %q", rej.Timestamp)
			}
		})
	}
}
