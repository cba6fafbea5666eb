package postgres

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM.
// The Replace methods are meant to run inside a transaction.
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// OwnedTimeSlotIDs returns the subset of ids that are time slots of eventID
func (r *PostgresVoteRepository) OwnedTimeSlotIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.owned(ctx, &event.TimeSlot{}, "owned_time_slots", eventID, ids)
}

// OwnedVenueIDs returns the subset of ids that are venues of eventID
func (r *PostgresVoteRepository) OwnedVenueIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.owned(ctx, &event.Venue{}, "owned_venues", eventID, ids)
}

func (r *PostgresVoteRepository) owned(ctx context.Context, model any, op string, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var owned []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(model).
		Where("event_id = ? AND id IN ?", eventID, ids).
		Pluck("id", &owned).Error
	if err != nil {
		r.log.Error("failed to check option ownership", "op", op, "event_id", eventID, "error", err)
		return nil, classify(op, err)
	}
	return owned, nil
}

func (r *PostgresVoteRepository) ReplaceTimeSlotVotes(ctx context.Context, participantID uuid.UUID, ids []uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("participant_id = ?", participantID).Delete(&vote.TimeSlotVote{}).Error; err != nil {
		r.log.Error("failed to clear time slot votes", "participant_id", participantID, "error", err)
		return classify("replace_time_slot_votes", err)
	}

	if len(ids) == 0 {
		return nil
	}

	rows := make([]vote.TimeSlotVote, len(ids))
	for i, id := range ids {
		rows[i] = vote.TimeSlotVote{ParticipantID: participantID, TimeSlotID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		r.log.Error("failed to insert time slot votes", "participant_id", participantID, "error", err)
		return classify("replace_time_slot_votes", err)
	}

	r.log.Debug("time slot votes replaced", "participant_id", participantID, "count", len(rows))
	return nil
}

func (r *PostgresVoteRepository) ReplaceVenueVotes(ctx context.Context, participantID uuid.UUID, ids []uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("participant_id = ?", participantID).Delete(&vote.VenueVote{}).Error; err != nil {
		r.log.Error("failed to clear venue votes", "participant_id", participantID, "error", err)
		return classify("replace_venue_votes", err)
	}

	if len(ids) == 0 {
		return nil
	}

	rows := make([]vote.VenueVote, len(ids))
	for i, id := range ids {
		rows[i] = vote.VenueVote{ParticipantID: participantID, VenueID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		r.log.Error("failed to insert venue votes", "participant_id", participantID, "error", err)
		return classify("replace_venue_votes", err)
	}

	r.log.Debug("venue votes replaced", "participant_id", participantID, "count", len(rows))
	return nil
}

// ListTimeSlotVotesByEvent returns the vote rows of every participant of eventID
func (r *PostgresVoteRepository) ListTimeSlotVotesByEvent(ctx context.Context, eventID uuid.UUID) ([]vote.TimeSlotVote, error) {
	var votes []vote.TimeSlotVote
	err := r.db.WithContext(ctx).
		Table("time_slot_votes AS v").
		Select("v.*").
		Joins("JOIN participants AS p ON p.id = v.participant_id").
		Where("p.event_id = ?", eventID).
		Order("v.created_at ASC").
		Find(&votes).Error
	if err != nil {
		r.log.Error("failed to list time slot votes", "event_id", eventID, "error", err)
		return nil, classify("list_time_slot_votes", err)
	}
	return votes, nil
}

// ListVenueVotesByEvent returns the vote rows of every participant of eventID
func (r *PostgresVoteRepository) ListVenueVotesByEvent(ctx context.Context, eventID uuid.UUID) ([]vote.VenueVote, error) {
	var votes []vote.VenueVote
	err := r.db.WithContext(ctx).
		Table("venue_votes AS v").
		Select("v.*").
		Joins("JOIN participants AS p ON p.id = v.participant_id").
		Where("p.event_id = ?", eventID).
		Order("v.created_at ASC").
		Find(&votes).Error
	if err != nil {
		r.log.Error("failed to list venue votes", "event_id", eventID, "error", err)
		return nil, classify("list_venue_votes", err)
	}
	return votes, nil
}
