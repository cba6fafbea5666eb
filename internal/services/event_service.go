package services

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/storage/postgres"
	"github.com/gravadigital/huddle-api/internal/validation"
)

// maxTokenAttempts bounds how many share tokens are drawn before giving up
const maxTokenAttempts = 3

// ShareURLFunc builds the public link of a share token
type ShareURLFunc func(token string) string

// EventService creates events and assembles their read model
type EventService struct {
	store     postgres.RepositoryContainer
	shareURL  ShareURLFunc
	validator validation.EventValidation
	log       *log.Logger
}

// NewEventService creates a new event service
func NewEventService(store postgres.RepositoryContainer, shareURL ShareURLFunc) *EventService {
	return &EventService{
		store:     store,
		shareURL:  shareURL,
		validator: validation.EventValidation{},
		log:       logger.Service("event"),
	}
}

// VenueInput describes one candidate venue of a new event. Metadata is
// stored as given.
type VenueInput struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// CreateEventRequest is the payload of a new event. TimeSlots are RFC 3339
// instants.
type CreateEventRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	CreatorName  string       `json:"creator_name"`
	CreatorEmail string       `json:"creator_email"`
	TimeSlots    []string     `json:"time_slots"`
	Venues       []VenueInput `json:"venues"`
}

// CreatedEvent is what the creator gets back
type CreatedEvent struct {
	Event     *event.Event
	TimeSlots []event.TimeSlot
	Venues    []event.Venue
	ShareURL  string
}

// CreateEvent validates req and stores the event with its options in one
// transaction. Slots and venues may be empty.
func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*CreatedEvent, error) {
	const op = "create_event"

	if err := s.validate(req); err != nil {
		return nil, common.Validation(op, err.Error())
	}

	e, err := event.NewEvent(req.Title, req.Description, req.CreatorName, req.CreatorEmail)
	if err != nil {
		return nil, common.Store(op, err)
	}

	slots := make([]*event.TimeSlot, len(req.TimeSlots))
	for i, raw := range req.TimeSlots {
		at, err := validation.ParseInstant(raw, "time_slots["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, common.Validation(op, err.Error())
		}
		slots[i] = event.NewTimeSlot(e.ID, at, i)
	}

	venues := make([]*event.Venue, len(req.Venues))
	for i, v := range req.Venues {
		venues[i] = event.NewVenue(e.ID, v.Name, v.Address, v.Description, v.Metadata, i)
	}

	err = s.store.WithinTransaction(ctx, func(repos postgres.Repositories) error {
		if err := s.insertWithFreshToken(ctx, repos.Events(), e); err != nil {
			return err
		}
		if err := repos.Events().CreateTimeSlots(ctx, slots); err != nil {
			return err
		}
		return repos.Events().CreateVenues(ctx, venues)
	})
	if err != nil {
		s.log.Error("failed to create event", "error", err)
		return nil, asStoreError(op, err)
	}

	s.log.Info("event created", "event_id", e.ID, "time_slots", len(slots), "venues", len(venues))

	return &CreatedEvent{
		Event:     e,
		TimeSlots: deref(slots),
		Venues:    deref(venues),
		ShareURL:  s.shareURL(e.ShareToken),
	}, nil
}

// insertWithFreshToken inserts e, drawing a new share token whenever the
// current one is already taken.
func (s *EventService) insertWithFreshToken(ctx context.Context, events postgres.EventRepository, e *event.Event) error {
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		created, err := events.Create(ctx, e)
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		s.log.Warn("share token collision, drawing a new one", "attempt", attempt)
		if err := e.Reissue(); err != nil {
			return common.Store("create_event", err)
		}
	}
	return common.Conflict("create_event", "could not allocate a unique share token", nil)
}

func (s *EventService) validate(req CreateEventRequest) error {
	if err := s.validator.ValidateTitle(req.Title); err != nil {
		return err
	}
	if err := s.validator.ValidateDescription(req.Description); err != nil {
		return err
	}
	if err := validation.ValidateMaxLength(req.CreatorName, validation.MaxNameLength, "creator_name"); err != nil {
		return err
	}
	if err := validation.ValidateEmail(req.CreatorEmail, "creator_email"); err != nil {
		return err
	}
	if err := s.validator.ValidateOptionCounts(len(req.TimeSlots), len(req.Venues)); err != nil {
		return err
	}
	for i, v := range req.Venues {
		if err := s.validator.ValidateVenueName(v.Name, i); err != nil {
			return err
		}
		if err := validation.ValidateMaxLength(v.Address, validation.MaxAddressLength, "venues["+strconv.Itoa(i)+"].address"); err != nil {
			return err
		}
	}
	return nil
}

// LoadEventByToken assembles the event, its options and every
// participant's current votes. The reads are not one snapshot.
func (s *EventService) LoadEventByToken(ctx context.Context, token string) (*vote.Aggregate, error) {
	const op = "load_event"

	e, err := s.store.Events().GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.Events().ListTimeSlots(ctx, e.ID)
	if err != nil {
		return nil, asStoreError(op, err)
	}
	venues, err := s.store.Events().ListVenues(ctx, e.ID)
	if err != nil {
		return nil, asStoreError(op, err)
	}
	participants, err := s.store.Participants().ListByEvent(ctx, e.ID)
	if err != nil {
		return nil, asStoreError(op, err)
	}
	slotVotes, err := s.store.Votes().ListTimeSlotVotesByEvent(ctx, e.ID)
	if err != nil {
		return nil, asStoreError(op, err)
	}
	venueVotes, err := s.store.Votes().ListVenueVotesByEvent(ctx, e.ID)
	if err != nil {
		return nil, asStoreError(op, err)
	}

	s.log.Debug("event loaded", "event_id", e.ID, "participants", len(participants))
	return vote.NewAggregate(*e, slots, venues, participants, slotVotes, venueVotes), nil
}

// Results is the tally of an event
type Results struct {
	Aggregate        *vote.Aggregate
	ParticipantCount int
	TimeSlots        []vote.Standing
	Venues           []vote.Standing
}

// Results loads the event and ranks both categories
func (s *EventService) Results(ctx context.Context, token string) (*Results, error) {
	agg, err := s.LoadEventByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Results{
		Aggregate:        agg,
		ParticipantCount: len(agg.Participants),
		TimeSlots:        vote.Rank(agg, vote.CategoryTimeSlot),
		Venues:           vote.Rank(agg, vote.CategoryVenue),
	}, nil
}

// UpdateStatus moves the event to status when the lifecycle allows it.
// Completed and cancelled events no longer accept votes.
func (s *EventService) UpdateStatus(ctx context.Context, token, status string) (*event.Event, error) {
	const op = "update_event_status"

	next, ok := event.StatusFromString(status)
	if !ok {
		return nil, common.Validationf(op, "invalid status: %s", status)
	}

	e, err := s.store.Events().GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if !e.Status.CanTransitionTo(next) {
		return nil, common.Validationf(op, "cannot change status from %s to %s", e.Status, next)
	}

	if err := s.store.Events().UpdateStatus(ctx, e.ID, next); err != nil {
		return nil, asStoreError(op, err)
	}

	s.log.Info("event status changed", "event_id", e.ID, "from", e.Status, "to", next)
	e.Status = next
	return e, nil
}
