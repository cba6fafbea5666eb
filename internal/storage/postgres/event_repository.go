package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(ctx context.Context, e *event.Event) (bool, error) {
	r.log.Debug("creating new event", "event_id", e.ID)

	if err := e.Validate(); err != nil {
		return false, common.Validation("create_event", err.Error())
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		r.log.Error("failed to create event", "error", res.Error, "event_id", e.ID)
		return false, classify("create_event", res.Error)
	}

	if res.RowsAffected == 0 {
		r.log.Warn("share token already taken", "event_id", e.ID)
		return false, nil
	}

	r.log.Info("event created successfully", "event_id", e.ID)
	return true, nil
}

func (r *PostgresEventRepository) CreateTimeSlots(ctx context.Context, slots []*event.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&slots).Error; err != nil {
		r.log.Error("failed to create time slots", "error", err, "count", len(slots))
		return classify("create_time_slots", err)
	}

	r.log.Debug("time slots created", "event_id", slots[0].EventID, "count", len(slots))
	return nil
}

func (r *PostgresEventRepository) CreateVenues(ctx context.Context, venues []*event.Venue) error {
	if len(venues) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&venues).Error; err != nil {
		r.log.Error("failed to create venues", "error", err, "count", len(venues))
		return classify("create_venues", err)
	}

	r.log.Debug("venues created", "event_id", venues[0].EventID, "count", len(venues))
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var e event.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("get_event", "event not found")
		}
		r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		return nil, classify("get_event", err)
	}
	return &e, nil
}

// GetByShareToken looks up the event a share link points to. Malformed
// tokens are reported exactly like unknown ones.
func (r *PostgresEventRepository) GetByShareToken(ctx context.Context, token string) (*event.Event, error) {
	if len(token) != event.ShareTokenLength {
		r.log.Debug("malformed share token", "length", len(token))
		return nil, common.NotFound("get_event_by_token", "event not found")
	}

	var e event.Event
	if err := r.db.WithContext(ctx).Where("share_token = ?", token).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("event not found by token")
			return nil, common.NotFound("get_event_by_token", "event not found")
		}
		r.log.Error("failed to retrieve event by token", "error", err)
		return nil, classify("get_event_by_token", err)
	}
	return &e, nil
}

func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status event.Status) error {
	res := r.db.WithContext(ctx).Model(&event.Event{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		r.log.Error("failed to update event status", "event_id", id, "error", res.Error)
		return classify("update_event_status", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NotFound("update_event_status", "event not found")
	}

	r.log.Info("event status updated", "event_id", id, "status", status)
	return nil
}

func (r *PostgresEventRepository) ListTimeSlots(ctx context.Context, eventID uuid.UUID) ([]event.TimeSlot, error) {
	var slots []event.TimeSlot
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("date_time ASC").Order("position ASC").
		Find(&slots).Error
	if err != nil {
		r.log.Error("failed to list time slots", "event_id", eventID, "error", err)
		return nil, classify("list_time_slots", err)
	}
	return slots, nil
}

func (r *PostgresEventRepository) ListVenues(ctx context.Context, eventID uuid.UUID) ([]event.Venue, error) {
	var venues []event.Venue
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").Order("position ASC").
		Find(&venues).Error
	if err != nil {
		r.log.Error("failed to list venues", "event_id", eventID, "error", err)
		return nil, classify("list_venues", err)
	}
	return venues, nil
}
