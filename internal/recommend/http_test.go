package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/locations", r.URL.Path)
		assert.Equal(t, "soho london", r.URL.Query().Get("query"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"locations": []map[string]any{{
				"place_id":          "abc",
				"formatted_address": "Soho, London",
				"geometry":          map[string]any{"location": map[string]any{"lat": 51.5, "lng": -0.13}},
			}},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/", time.Second)
	locations, err := p.SearchLocations(context.Background(), "soho london")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "abc", locations[0].PlaceID)
	assert.Equal(t, 51.5, locations[0].Geometry.Location.Lat)
}

func TestGetRecommendationsDefaultsRadius(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommendations", r.URL.Path)

		var req RecommendationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultRadius, req.Radius)
		assert.Equal(t, "restaurant", req.Type)

		_, _ = w.Write([]byte(`{"recommendations":[{"place_id":"p1","name":"Luigi's","rating":4.5,"price_level":2,"types":["restaurant"]}]}`))
	}))
	defer srv.Close()

	places, err := NewHTTPProvider(srv.URL, time.Second).GetRecommendations(context.Background(), RecommendationRequest{
		Location: LatLng{Lat: 1, Lng: 2},
		Type:     "restaurant",
	})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Luigi's", places[0].Name)
	require.NotNil(t, places[0].PriceLevel)
	assert.Equal(t, 2, *places[0].PriceLevel)
}

func TestUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, time.Second).SearchLocations(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewWithoutURL(t *testing.T) {
	p := New("  ", time.Second)
	_, err := p.SearchLocations(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	_, err = p.GetRecommendations(context.Background(), RecommendationRequest{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
