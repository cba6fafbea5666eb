package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/participant"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
)

// EventRepository persists events and their candidate options
type EventRepository interface {
	// Create inserts e. It reports false, without error, when the share
	// token is already taken so the caller can draw a new one.
	Create(ctx context.Context, e *event.Event) (bool, error)
	CreateTimeSlots(ctx context.Context, slots []*event.TimeSlot) error
	CreateVenues(ctx context.Context, venues []*event.Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	GetByShareToken(ctx context.Context, token string) (*event.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status event.Status) error
	ListTimeSlots(ctx context.Context, eventID uuid.UUID) ([]event.TimeSlot, error)
	ListVenues(ctx context.Context, eventID uuid.UUID) ([]event.Venue, error)
}

// ParticipantRepository persists the voters of an event
type ParticipantRepository interface {
	// FindByIdentity looks up the participant matching a reconcilable
	// identity. It returns a NotFound error when there is none.
	FindByIdentity(ctx context.Context, eventID uuid.UUID, identity participant.Identity) (*participant.Participant, error)
	// CreateIfAbsent inserts p unless a participant with the same identity
	// exists. It reports whether the row was inserted.
	CreateIfAbsent(ctx context.Context, p *participant.Participant) (bool, error)
	// Lock takes a row lock on the participant for the rest of the transaction
	Lock(ctx context.Context, id uuid.UUID) (*participant.Participant, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]participant.Participant, error)
}

// VoteRepository persists the current selections of each participant
type VoteRepository interface {
	OwnedTimeSlotIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	OwnedVenueIDs(ctx context.Context, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	ReplaceTimeSlotVotes(ctx context.Context, participantID uuid.UUID, ids []uuid.UUID) error
	ReplaceVenueVotes(ctx context.Context, participantID uuid.UUID, ids []uuid.UUID) error
	ListTimeSlotVotesByEvent(ctx context.Context, eventID uuid.UUID) ([]vote.TimeSlotVote, error)
	ListVenueVotesByEvent(ctx context.Context, eventID uuid.UUID) ([]vote.VenueVote, error)
}

// Repositories groups the repositories sharing one connection or transaction
type Repositories interface {
	Events() EventRepository
	Participants() ParticipantRepository
	Votes() VoteRepository
}

// RepositoryContainer owns the database handle and hands out repositories
type RepositoryContainer interface {
	Repositories
	// WithinTransaction runs fn against repositories bound to a single
	// transaction. The transaction commits when fn returns nil and rolls
	// back otherwise, including on context cancellation.
	WithinTransaction(ctx context.Context, fn func(Repositories) error) error
	Health(ctx context.Context) error
	Close() error
}
