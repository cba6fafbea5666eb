// Package recommend is the boundary to the venue recommendation service.
// Results are passed through to clients; a chosen place ends up as a venue
// whose metadata carries the fields below.
package recommend

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no recommendation service is set up
var ErrNotConfigured = errors.New("recommendation service is not configured")

// LatLng is a point on the map
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps a location the way place APIs report it
type Geometry struct {
	Location LatLng `json:"location"`
}

// Location is a geocoded search hit
type Location struct {
	PlaceID          string   `json:"place_id"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

// Photo references an image of a place
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

// Place is a recommended venue
type Place struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Vicinity   string   `json:"vicinity"`
	Rating     float64  `json:"rating"`
	PriceLevel *int     `json:"price_level,omitempty"`
	Types      []string `json:"types"`
	Geometry   Geometry `json:"geometry"`
	Photos     []Photo  `json:"photos,omitempty"`
	// Summary and Score are filled in when the service ranks places with AI
	Summary string   `json:"ai_summary,omitempty"`
	Score   *float64 `json:"ai_score,omitempty"`
}

// DefaultRadius is the search radius in meters when none is given
const DefaultRadius = 5000

// RecommendationRequest asks for places of Type around Location
type RecommendationRequest struct {
	Location LatLng `json:"location"`
	Type     string `json:"type"`
	Radius   int    `json:"radius"`
}

// Provider finds locations and recommends places near them
type Provider interface {
	SearchLocations(ctx context.Context, query string) ([]Location, error)
	GetRecommendations(ctx context.Context, req RecommendationRequest) ([]Place, error)
}

// Unconfigured is the Provider used when no service is set up
type Unconfigured struct{}

func (Unconfigured) SearchLocations(context.Context, string) ([]Location, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) GetRecommendations(context.Context, RecommendationRequest) ([]Place, error) {
	return nil, ErrNotConfigured
}
