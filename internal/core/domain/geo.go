package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal compares both fields exactly. Two points that differ only by
// floating-point noise are distinct.
func (p GeoPoint) Equal(o GeoPoint) bool {
	return p.Lat == o.Lat && p.Lng == o.Lng
}

// Valid reports whether the point lies within WGS 84 latitude/longitude ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Extend grows the box so that it contains p.
func (b Bounds) Extend(p GeoPoint) Bounds {
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
	if p.Lng < b.MinLng {
		b.MinLng = p.Lng
	}
	if p.Lng > b.MaxLng {
		b.MaxLng = p.Lng
	}
	return b
}

// DefaultCenter is where a new map view opens when no center is given.
var DefaultCenter = GeoPoint{Lat: 38.4237, Lng: 27.1428}

// DefaultRadius is the search radius in meters used when none is given.
const DefaultRadius = 1500.0
