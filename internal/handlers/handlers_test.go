package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/services"
)

type fakeProvider struct {
	locations []recommend.Location
	places    []recommend.Place
	err       error
	got       recommend.RecommendationRequest
}

func (f *fakeProvider) SearchLocations(context.Context, string) ([]recommend.Location, error) {
	return f.locations, f.err
}

func (f *fakeProvider) GetRecommendations(_ context.Context, r recommend.RecommendationRequest) ([]recommend.Place, error) {
	f.got = r
	return f.places, f.err
}

type fakeExporter struct {
	out *services.Export
	err error
}

func (f fakeExporter) Export(context.Context, string) (*services.Export, error) {
	return f.out, f.err
}

func serve(h gin.HandlerFunc, method, route, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, route, h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchLocations(t *testing.T) {
	provider := &fakeProvider{locations: []recommend.Location{{PlaceID: "p1", FormattedAddress: "Rome"}}}
	h := NewPlacesHandler(provider)

	rec := serve(h.SearchLocations, http.MethodGet, "/search", "/search?query=rome", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"place_id":"p1"`)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestSearchLocationsProviderFailure(t *testing.T) {
	h := NewPlacesHandler(&fakeProvider{err: errors.New("upstream timeout")})

	rec := serve(h.SearchLocations, http.MethodGet, "/search", "/search?query=rome", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to search locations"}`, rec.Body.String())
}

func TestGetRecommendations(t *testing.T) {
	score := 0.9
	provider := &fakeProvider{places: []recommend.Place{{PlaceID: "p2", Name: "Luigi's", Score: &score}}}
	h := NewPlacesHandler(provider)

	rec := serve(h.GetRecommendations, http.MethodPost, "/rec", "/rec",
		`{"location":{"lat":41.9,"lng":12.5},"type":"restaurant"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ai_score":0.9`)
	assert.Equal(t, "restaurant", provider.got.Type)
	assert.Equal(t, 41.9, provider.got.Location.Lat)
}

func TestGetRecommendationsValidation(t *testing.T) {
	h := NewPlacesHandler(&fakeProvider{})

	rec := serve(h.GetRecommendations, http.MethodPost, "/rec", "/rec", `{"type":"bar"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Location and type are required"}`, rec.Body.String())

	rec = serve(h.GetRecommendations, http.MethodPost, "/rec", "/rec", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlacesUnconfigured(t *testing.T) {
	h := NewPlacesHandler(nil)

	rec := serve(h.GetRecommendations, http.MethodPost, "/rec", "/rec",
		`{"location":{"lat":1,"lng":2},"type":"bar"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportEvent(t *testing.T) {
	expires := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	h := NewExportHandler(fakeExporter{out: &services.Export{
		Key:       "exports/e/20260501T120000Z.json",
		URL:       "https://files.test/x",
		ExpiresAt: expires,
	}})

	rec := serve(h.ExportEvent, http.MethodPost, "/events/:token/export", "/events/abc/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"url": "https://files.test/x",
		"key": "exports/e/20260501T120000Z.json",
		"expires_at": "2026-05-02T12:00:00Z"
	}`, rec.Body.String())
}

func TestExportEventErrors(t *testing.T) {
	rec := serve(NewExportHandler(nil).ExportEvent, http.MethodPost, "/x", "/x", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	notFound := NewExportHandler(fakeExporter{err: common.NotFound("export_event", "event not found")})
	rec = serve(notFound.ExportEvent, http.MethodPost, "/x", "/x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"event not found"}`, rec.Body.String())
}
