package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/server"
	"github.com/gravadigital/huddle-api/internal/services"
	"github.com/gravadigital/huddle-api/internal/session"
	"github.com/gravadigital/huddle-api/internal/storage/storagetest"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.Server.BaseURL = "https://huddle.test"
	cfg.CORS.AllowOrigins = "https://huddle.test"
	cfg.CORS.AllowMethods = "GET,POST,PATCH,OPTIONS"
	cfg.CORS.AllowHeaders = "Origin,Content-Type"

	store := storagetest.NewContainer(t)
	sessions, err := session.NewManager(session.Options{Secret: "server-test"})
	require.NoError(t, err)

	return server.New(cfg, server.Dependencies{
		Store:    store,
		Events:   services.NewEventService(store, cfg.ShareURL),
		Voting:   services.NewVotingService(store),
		Places:   recommend.Unconfigured{},
		Sessions: sessions,
	}).Router()
}

func do(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type createdEvent struct {
	Success  bool   `json:"success"`
	ShareURL string `json:"shareUrl"`
	Event    struct {
		ID         string `json:"id"`
		ShareToken string `json:"share_token"`
		TimeSlots  []struct {
			ID string `json:"id"`
		} `json:"time_slots"`
		Venues []struct {
			ID string `json:"id"`
		} `json:"venues"`
		Participants []json.RawMessage `json:"participants"`
	} `json:"event"`
}

func createEvent(t *testing.T, router *gin.Engine) createdEvent {
	t.Helper()

	body := `{
		"title": "Team dinner",
		"creator_name": "Ana",
		"time_slots": ["2026-05-01T19:00:00Z", "2026-05-02T19:00:00+02:00"],
		"venues": [{"name": "Luigi's", "metadata": {"rating": 4.5}}]
	}`
	rec := do(router, http.MethodPost, "/api/events", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out createdEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type votedParticipant struct {
	Participant struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Email *string `json:"email"`
	} `json:"participant"`
}

func TestPing(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestCreateEvent(t *testing.T) {
	router := newRouter(t)

	out := createEvent(t, router)

	assert.True(t, out.Success)
	assert.Len(t, out.Event.ShareToken, 16)
	assert.Equal(t, "https://huddle.test/event/"+out.Event.ShareToken, out.ShareURL)
	assert.Len(t, out.Event.TimeSlots, 2)
	assert.Len(t, out.Event.Venues, 1)
	assert.NotNil(t, out.Event.Participants)
	assert.Empty(t, out.Event.Participants)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"title":`, `{"success":false,"error":"Invalid request payload"}`},
		{"missing title", `{"title":"  "}`, `{"success":false,"error":"title is required"}`},
		{"bad timestamp", `{"title":"x","time_slots":["tomorrow"]}`, `{"success":false,"error":"time_slots[0] must be an RFC 3339 timestamp"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/api/events", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestGetEventUnknownToken(t *testing.T) {
	router := newRouter(t)

	rec := do(router, http.MethodGet, "/api/events/0123456789abcdef", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestVoteReconcilesBySessionCookie(t *testing.T) {
	router := newRouter(t)
	evt := createEvent(t, router)
	votePath := "/api/events/" + evt.Event.ShareToken + "/vote"

	first := do(router, http.MethodPost, votePath,
		`{"participant_name":"Bo","time_slot_ids":["`+evt.Event.TimeSlots[0].ID+`"]}`)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	var p1 votedParticipant
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &p1))
	assert.Equal(t, "Bo", p1.Participant.Name)
	assert.Nil(t, p1.Participant.Email)

	again := do(router, http.MethodPost, votePath,
		`{"participant_name":"Bo","time_slot_ids":["`+evt.Event.TimeSlots[1].ID+`"]}`, cookies...)
	require.Equal(t, http.StatusOK, again.Code, again.Body.String())

	var p2 votedParticipant
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &p2))
	assert.Equal(t, p1.Participant.ID, p2.Participant.ID)

	stranger := do(router, http.MethodPost, votePath,
		`{"participant_name":"Cy","venue_ids":["`+evt.Event.Venues[0].ID+`"]}`)
	require.Equal(t, http.StatusOK, stranger.Code, stranger.Body.String())

	rec := do(router, http.MethodGet, "/api/events/"+evt.Event.ShareToken+"/results", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results struct {
		ParticipantCount int `json:"participant_count"`
		TimeSlots        []struct {
			OptionID string `json:"option_id"`
			Count    int    `json:"count"`
		} `json:"time_slots"`
		Venues []struct {
			Count int `json:"count"`
		} `json:"venues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Equal(t, 2, results.ParticipantCount)
	require.Len(t, results.TimeSlots, 2)
	assert.Equal(t, evt.Event.TimeSlots[1].ID, results.TimeSlots[0].OptionID)
	assert.Equal(t, 1, results.TimeSlots[0].Count)
	assert.Equal(t, 0, results.TimeSlots[1].Count)
	require.Len(t, results.Venues, 1)
	assert.Equal(t, 1, results.Venues[0].Count)
}

func TestVoteRejectsOptionsOfAnotherEvent(t *testing.T) {
	router := newRouter(t)
	mine := createEvent(t, router)
	other := createEvent(t, router)

	rec := do(router, http.MethodPost, "/api/events/"+mine.Event.ShareToken+"/vote",
		`{"participant_name":"Bo","participant_email":"bo@example.com","time_slot_ids":["`+other.Event.TimeSlots[0].ID+`"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodGet, "/api/events/"+mine.Event.ShareToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"participants":[]`)
	assert.Contains(t, rec.Body.String(), `"metadata":{"rating":4.5}`)
}

func TestClosedEventRejectsVotes(t *testing.T) {
	router := newRouter(t)
	evt := createEvent(t, router)
	base := "/api/events/" + evt.Event.ShareToken

	rec := do(router, http.MethodPatch, base+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	rec = do(router, http.MethodPatch, base+"/status", `{"status":"active"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, base+"/vote", `{"participant_name":"Bo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer accepts votes")
}

func TestOptionalIntegrationsAreUnavailable(t *testing.T) {
	router := newRouter(t)
	evt := createEvent(t, router)

	rec := do(router, http.MethodPost, "/api/events/"+evt.Event.ShareToken+"/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(router, http.MethodGet, "/api/places/search-locations?query=rome", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(router, http.MethodGet, "/api/places/search-locations", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
