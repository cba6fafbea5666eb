//go:build integration
// +build integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/huddle-api/internal/config"
	"github.com/gravadigital/huddle-api/internal/recommend"
	"github.com/gravadigital/huddle-api/internal/server"
	"github.com/gravadigital/huddle-api/internal/services"
	"github.com/gravadigital/huddle-api/internal/session"
	"github.com/gravadigital/huddle-api/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration ./cmd/api

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	db, err := postgres.Connect(testConfig())
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.AutoMigrate(db), "Should be able to run migrations")
	assert.NoError(t, postgres.AutoMigrate(db), "Migrations should be idempotent")
}

func TestCreateAndVoteOverHTTP(t *testing.T) {
	cfg := testConfig()

	store, err := postgres.NewContainer(cfg)
	require.NoError(t, err)
	defer store.Close()

	sessions, err := session.NewManager(session.Options{Secret: "integration"})
	require.NoError(t, err)

	events := services.NewEventService(store, cfg.ShareURL)
	router := server.New(cfg, server.Dependencies{
		Store:    store,
		Events:   events,
		Voting:   services.NewVotingService(store),
		Places:   recommend.Unconfigured{},
		Sessions: sessions,
	}).Router()

	body := `{"title":"Integration dinner","time_slots":["2026-05-01T19:00:00Z"],"venues":[{"name":"Luigi's"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Event struct {
			ShareToken string `json:"share_token"`
			TimeSlots  []struct {
				ID string `json:"id"`
			} `json:"time_slots"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	token := created.Event.ShareToken
	require.Len(t, created.Event.TimeSlots, 1)

	ballot, _ := json.Marshal(map[string]any{
		"participant_name":  "Ana",
		"participant_email": "ana@example.com",
		"time_slot_ids":     []string{created.Event.TimeSlots[0].ID},
	})
	for i := 0; i < 2; i++ {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events/"+token+"/vote", bytes.NewReader(ballot)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/"+token+"/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var results struct {
		ParticipantCount int `json:"participant_count"`
		TimeSlots        []struct {
			Count int `json:"count"`
		} `json:"time_slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Equal(t, 1, results.ParticipantCount)
	require.Len(t, results.TimeSlots, 1)
	assert.Equal(t, 1, results.TimeSlots[0].Count)
}
