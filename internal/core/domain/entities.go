package domain

import (
	"fmt"
	"time"
)

// Place is a search result from the places lookup.
type Place struct {
	PlaceID        string   `json:"placeId,omitempty"`
	Name           string   `json:"name"`
	Location       GeoPoint `json:"location"`
	Address        string   `json:"address,omitempty"`
	Type           string   `json:"type,omitempty"`
	Types          []string `json:"types,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	DistanceMeters float64  `json:"distanceMeters,omitempty"`
}

// SavedPlace is a place persisted to a user's personal list.
type SavedPlace struct {
	ID         string    `json:"id"`
	PlaceID    string    `json:"placeId"`
	CustomName string    `json:"customName,omitempty"`
	PlaceName  string    `json:"placeName"`
	Address    string    `json:"address,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Location returns the saved coordinates as a GeoPoint.
func (s SavedPlace) Location() GeoPoint {
	return GeoPoint{Lat: s.Latitude, Lng: s.Longitude}
}

// MapsURL links the saved place to an external map search.
func (s SavedPlace) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", s.Latitude, s.Longitude)
}

// SavedPlaceIDSet holds the provider ids of places the user has saved.
type SavedPlaceIDSet map[string]struct{}

// NewSavedPlaceIDSet builds a set from provider ids.
func NewSavedPlaceIDSet(ids ...string) SavedPlaceIDSet {
	set := make(SavedPlaceIDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SavedIDs collects the provider ids of a saved list.
func SavedIDs(saved []SavedPlace) SavedPlaceIDSet {
	set := make(SavedPlaceIDSet, len(saved))
	for _, s := range saved {
		if s.PlaceID != "" {
			set[s.PlaceID] = struct{}{}
		}
	}
	return set
}

// Has reports membership. A nil set contains nothing.
func (s SavedPlaceIDSet) Has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// IDs returns the members in no particular order.
func (s SavedPlaceIDSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// User is the authenticated account.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AuthResult is what the authentication service returns on login or register.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Session is an AuthResult with the token expiry decoded.
type Session struct {
	User      User       `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session token is past its expiry at t.
func (s Session) Expired(t time.Time) bool {
	return s.ExpiresAt != nil && !t.Before(*s.ExpiresAt)
}

// NearbyQuery describes a places search around a point.
type NearbyQuery struct {
	Center       GeoPoint `json:"center"`
	RadiusMeters float64  `json:"radius"`
	Type         string   `json:"type,omitempty"`
}

// PlaceTypes is the category filter vocabulary accepted by the lookup.
var PlaceTypes = []string{
	"restaurant", "cafe", "bar", "store", "hospital", "pharmacy",
	"gas_station", "bank", "atm", "gym", "park", "museum",
	"movie_theater", "shopping_mall", "school", "library",
}

// ValidPlaceType reports whether t is empty or a known category.
func ValidPlaceType(t string) bool {
	if t == "" {
		return true
	}
	for _, pt := range PlaceTypes {
		if pt == t {
			return true
		}
	}
	return false
}
