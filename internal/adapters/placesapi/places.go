package placesapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samirrijal/placemap/internal/core/domain"
)

// googlePlace is the Places API result shape the backend passes through.
type googlePlace struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Vicinity         string   `json:"vicinity"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`
	Types            []string `json:"types"`
}

type nearbyResponse struct {
	Results []googlePlace `json:"results"`
}

func (g googlePlace) toDomain() domain.Place {
	p := domain.Place{
		PlaceID: g.PlaceID,
		Name:    g.Name,
		Location: domain.GeoPoint{
			Lat: g.Geometry.Location.Lat,
			Lng: g.Geometry.Location.Lng,
		},
		Address: g.Vicinity,
		Rating:  g.Rating,
		Types:   g.Types,
	}
	if p.Address == "" {
		p.Address = g.FormattedAddress
	}
	if len(g.Types) > 0 {
		p.Type = g.Types[0]
	}
	return p
}

// SearchNearby queries GET /api/places/nearby.
func (c *Client) SearchNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("longitude", strconv.FormatFloat(q.Center.Lng, 'f', -1, 64))
	params.Set("latitude", strconv.FormatFloat(q.Center.Lat, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(q.RadiusMeters, 'f', -1, 64))
	if q.Type != "" {
		params.Set("type", q.Type)
	}

	var resp nearbyResponse
	err := c.do(ctx, call{
		op:     "places.nearby",
		method: http.MethodGet,
		path:   "/api/places/nearby",
		query:  params,
	}, &resp)
	if err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, g := range resp.Results {
		places = append(places, g.toDomain())
	}
	return places, nil
}
