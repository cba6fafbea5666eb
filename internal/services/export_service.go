package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// ObjectStore is where exports are written
type ObjectStore interface {
	PutJSON(ctx context.Context, key string, v any) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ExportService snapshots an event and its tally into object storage
type ExportService struct {
	events *EventService
	store  ObjectStore
	ttl    time.Duration
	now    func() time.Time
	log    *log.Logger
}

// NewExportService creates a new export service; links expire after ttl
func NewExportService(events *EventService, store ObjectStore, ttl time.Duration) *ExportService {
	return &ExportService{
		events: events,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		log:    logger.Service("export"),
	}
}

// ExportDocument is the stored JSON
type ExportDocument struct {
	Event            *vote.Aggregate `json:"event"`
	ParticipantCount int             `json:"participant_count"`
	TimeSlots        []vote.Standing `json:"time_slots"`
	Venues           []vote.Standing `json:"venues"`
	ExportedAt       time.Time       `json:"exported_at"`
}

// Export is a finished upload
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// Export writes the current state of the event behind token and returns a
// download link
func (s *ExportService) Export(ctx context.Context, token string) (*Export, error) {
	const op = "export_event"

	results, err := s.events.Results(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("exports/%s/%s.json", results.Aggregate.ID, now.Format("20060102T150405Z"))

	doc := ExportDocument{
		Event:            results.Aggregate,
		ParticipantCount: results.ParticipantCount,
		TimeSlots:        results.TimeSlots,
		Venues:           results.Venues,
		ExportedAt:       now,
	}

	if err := s.store.PutJSON(ctx, key, doc); err != nil {
		s.log.Error("failed to upload export", "event_id", results.Aggregate.ID, "error", err)
		return nil, common.Store(op, err)
	}

	link, err := s.store.PresignedURL(ctx, key, s.ttl)
	if err != nil {
		s.log.Error("failed to presign export", "key", key, "error", err)
		return nil, common.Store(op, err)
	}

	s.log.Info("event exported", "event_id", results.Aggregate.ID, "key", key)
	return &Export{Key: key, URL: link, ExpiresAt: now.Add(s.ttl)}, nil
}
