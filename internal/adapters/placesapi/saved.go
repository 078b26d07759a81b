package placesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// savedPlaceJSON tolerates numeric ids and zone-less timestamps.
type savedPlaceJSON struct {
	ID         json.RawMessage `json:"id"`
	PlaceID    string          `json:"placeId"`
	CustomName string          `json:"customName"`
	PlaceName  string          `json:"placeName"`
	Address    string          `json:"address"`
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	CreatedAt  string          `json:"createdAt"`
}

type createSavedPlaceRequest struct {
	PlaceID    string  `json:"placeId"`
	PlaceName  string  `json:"placeName"`
	CustomName string  `json:"customName,omitempty"`
	Address    string  `json:"address,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// rawID renders a string or numeric JSON id as text.
func rawID(raw json.RawMessage) string {
	id := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if id == "null" {
		return ""
	}
	return id
}

func (s savedPlaceJSON) toDomain() domain.SavedPlace {
	return domain.SavedPlace{
		ID:         rawID(s.ID),
		PlaceID:    s.PlaceID,
		CustomName: s.CustomName,
		PlaceName:  s.PlaceName,
		Address:    s.Address,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		CreatedAt:  parseTimestamp(s.CreatedAt),
	}
}

// List fetches GET /api/saved-places for the token's user.
func (c *Client) List(ctx context.Context, token string) ([]domain.SavedPlace, error) {
	var raw []savedPlaceJSON
	err := c.do(ctx, call{
		op:     "saved.list",
		method: http.MethodGet,
		path:   "/api/saved-places",
		token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SavedPlace, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Create posts to /api/saved-places.
func (c *Client) Create(ctx context.Context, token string, p domain.SavedPlace) (*domain.SavedPlace, error) {
	var raw savedPlaceJSON
	err := c.do(ctx, call{
		op:     "saved.create",
		method: http.MethodPost,
		path:   "/api/saved-places",
		token:  token,
		body: createSavedPlaceRequest{
			PlaceID:    p.PlaceID,
			PlaceName:  p.PlaceName,
			CustomName: p.CustomName,
			Address:    p.Address,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
		},
	}, &raw)
	if err != nil {
		return nil, err
	}

	saved := raw.toDomain()
	return &saved, nil
}

// Delete removes /api/saved-places/{id}.
func (c *Client) Delete(ctx context.Context, token, id string) error {
	return c.do(ctx, call{
		op:     "saved.delete",
		method: http.MethodDelete,
		path:   "/api/saved-places/" + url.PathEscape(id),
		token:  token,
	}, nil)
}
