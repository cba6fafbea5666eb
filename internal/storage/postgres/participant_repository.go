package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/domain/participant"
	"github.com/gravadigital/huddle-api/internal/logger"
)

// PostgresParticipantRepository implements ParticipantRepository using GORM
type PostgresParticipantRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) *PostgresParticipantRepository {
	return &PostgresParticipantRepository{
		db:  db,
		log: logger.Repository("participant"),
	}
}

// FindByIdentity matches emails and sessions against every participant of
// the event. A browser that voted under several emails shares its session
// id between rows; the most recent one wins.
func (r *PostgresParticipantRepository) FindByIdentity(ctx context.Context, eventID uuid.UUID, identity participant.Identity) (*participant.Participant, error) {
	query := r.db.WithContext(ctx).Where("event_id = ?", eventID)

	switch identity.Kind {
	case participant.ByEmail:
		query = query.Where("email = ?", identity.Key)
	case participant.BySession:
		query = query.Where("session_id = ?", identity.Key).Order("created_at DESC, id DESC")
	default:
		return nil, common.NotFound("find_participant", "anonymous identities never match")
	}

	var p participant.Participant
	if err := query.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("no participant for identity", "event_id", eventID, "kind", identity.Kind)
			return nil, common.NotFound("find_participant", "participant not found")
		}
		r.log.Error("failed to find participant", "event_id", eventID, "kind", identity.Kind, "error", err)
		return nil, classify("find_participant", err)
	}
	return &p, nil
}

// CreateIfAbsent relies on the partial unique indexes on (event_id, email)
// and (event_id, session_id): a concurrent insert of the same identity
// loses silently and reports false.
func (r *PostgresParticipantRepository) CreateIfAbsent(ctx context.Context, p *participant.Participant) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		r.log.Error("failed to create participant", "event_id", p.EventID, "error", res.Error)
		return false, classify("create_participant", res.Error)
	}

	if res.RowsAffected == 0 {
		r.log.Debug("participant already exists", "event_id", p.EventID)
		return false, nil
	}

	r.log.Info("participant created", "participant_id", p.ID, "event_id", p.EventID)
	return true, nil
}

// Lock issues SELECT ... FOR UPDATE. Dialects without row locks (SQLite)
// drop the clause and rely on their database-level write lock.
func (r *PostgresParticipantRepository) Lock(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	var p participant.Participant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("lock_participant", "participant not found")
		}
		r.log.Error("failed to lock participant", "participant_id", id, "error", err)
		return nil, classify("lock_participant", err)
	}
	return &p, nil
}

func (r *PostgresParticipantRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]participant.Participant, error) {
	var participants []participant.Participant
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		r.log.Error("failed to list participants", "event_id", eventID, "error", err)
		return nil, classify("list_participants", err)
	}
	return participants, nil
}
