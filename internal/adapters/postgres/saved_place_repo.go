package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/placemap/internal/core/apierror"
	"github.com/samirrijal/placemap/internal/core/domain"
)

// uniqueViolation is the postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// IdentityResolver turns a bearer token into a user id.
type IdentityResolver interface {
	Identity(token string) (string, error)
}

// SavedPlaceRepo implements ports.SavedPlacesStore on postgres. It fails
// the same way the remote API does, so callers cannot tell the two apart.
type SavedPlaceRepo struct {
	db    *DB
	users IdentityResolver
	now   func() time.Time
}

func NewSavedPlaceRepo(db *DB, users IdentityResolver) *SavedPlaceRepo {
	return &SavedPlaceRepo{db: db, users: users, now: time.Now}
}

func (r *SavedPlaceRepo) List(ctx context.Context, token string) ([]domain.SavedPlace, error) {
	userID, err := r.identity(token, "/api/saved-places")
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, place_id, custom_name, place_name, COALESCE(address, ''), latitude, longitude, created_at
		FROM saved_places WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, dbFailure("saved.list", err)
	}
	defer rows.Close()

	places := []domain.SavedPlace{}
	for rows.Next() {
		var p domain.SavedPlace
		if err := rows.Scan(&p.ID, &p.PlaceID, &p.CustomName, &p.PlaceName, &p.Address, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, dbFailure("saved.list", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbFailure("saved.list", err)
	}
	return places, nil
}

func (r *SavedPlaceRepo) Create(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
	const path = "/api/saved-places"
	userID, err := r.identity(token, path)
	if err != nil {
		return nil, err
	}

	p.ID = uuid.NewString()
	p.CreatedAt = r.now().UTC()

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO saved_places (id, user_id, place_id, custom_name, place_name, address, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	`, p.ID, userID, p.PlaceID, p.CustomName, p.PlaceName, p.Address, p.Latitude, p.Longitude, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, r.reject(409, "Place already saved", path)
		}
		return nil, dbFailure("saved.create", err)
	}
	return &p, nil
}

func (r *SavedPlaceRepo) Delete(ctx context.Context, token, id string) error {
	path := "/api/saved-places/" + id
	userID, err := r.identity(token, path)
	if err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return r.reject(404, "Saved place not found", path)
	}

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM saved_places WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return dbFailure("saved.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return r.reject(404, "Saved place not found", path)
	}
	return nil
}

func (r *SavedPlaceRepo) identity(token, path string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", r.reject(401, "Authentication required", path)
	}
	id, err := r.users.Identity(token)
	if err != nil {
		return "", r.reject(401, "Invalid or expired token", path)
	}
	return id, nil
}

func (r *SavedPlaceRepo) reject(status int, message, path string) *apierror.ServerRejection {
	return &apierror.ServerRejection{
		Status:    status,
		Message:   message,
		Timestamp: r.now().UTC().Format(time.RFC3339),
		Path:      path,
	}
}

// dbFailure reports a database error as a failed outbound call.
func dbFailure(op string, err error) error {
	return &apierror.ConnectivityFailure{Op: op, Err: fmt.Errorf("postgres: %w", err)}
}
