package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/huddle-api/internal/domain/common"
	"github.com/gravadigital/huddle-api/internal/domain/participant"
	"github.com/gravadigital/huddle-api/internal/domain/vote"
	"github.com/gravadigital/huddle-api/internal/logger"
	"github.com/gravadigital/huddle-api/internal/storage/postgres"
	"github.com/gravadigital/huddle-api/internal/validation"
)

// VotingService reconciles participants and replaces their votes
type VotingService struct {
	store     postgres.RepositoryContainer
	validator validation.ParticipantValidation
	log       *log.Logger
}

// NewVotingService creates a new voting service
func NewVotingService(store postgres.RepositoryContainer) *VotingService {
	return &VotingService{
		store:     store,
		validator: validation.ParticipantValidation{},
		log:       logger.Service("voting"),
	}
}

// SubmitVoteRequest is one complete ballot. The ids replace whatever the
// participant voted before; empty lists clear a category.
type SubmitVoteRequest struct {
	ParticipantName  string   `json:"participant_name"`
	ParticipantEmail string   `json:"participant_email"`
	TimeSlotIDs      []string `json:"time_slot_ids"`
	VenueIDs         []string `json:"venue_ids"`
}

// SubmitVote records a ballot for the event behind token. sessionID is the
// caller's browser session and may be empty.
//
// The participant is matched by email, else by session among participants
// without email, else created. Resolution and replacement share one
// transaction, so a rejected ballot leaves no trace.
func (s *VotingService) SubmitVote(ctx context.Context, token, sessionID string, req SubmitVoteRequest) (*participant.Participant, error) {
	const op = "submit_vote"

	if err := s.validator.ValidateName(req.ParticipantName); err != nil {
		return nil, common.Validation(op, err.Error())
	}
	if err := s.validator.ValidateEmail(req.ParticipantEmail); err != nil {
		return nil, common.Validation(op, err.Error())
	}

	selection, err := vote.ParseSelection(req.TimeSlotIDs, req.VenueIDs)
	if err != nil {
		return nil, err
	}

	e, err := s.store.Events().GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsVotes() {
		return nil, common.Validationf(op, "event is %s and no longer accepts votes", e.Status)
	}

	identity := participant.IdentityFor(req.ParticipantEmail, sessionID)

	var voter *participant.Participant
	err = s.store.WithinTransaction(ctx, func(repos postgres.Repositories) error {
		if err := checkOwnership(ctx, repos, e.ID, selection); err != nil {
			return err
		}

		p, err := s.resolve(ctx, repos, e.ID, req.ParticipantName, identity, sessionID)
		if err != nil {
			return err
		}

		if _, err := repos.Participants().Lock(ctx, p.ID); err != nil {
			return err
		}
		if err := replace(ctx, repos, p.ID, selection); err != nil {
			return err
		}

		voter = p
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrValidation) {
			s.log.Error("failed to submit vote", "event_id", e.ID, "identity", identity.Kind, "error", err)
		}
		return nil, asStoreError(op, err)
	}

	s.log.Info("vote recorded",
		"event_id", e.ID,
		"participant_id", voter.ID,
		"identity", identity.Kind,
		"time_slots", len(selection.TimeSlotIDs),
		"venues", len(selection.VenueIDs))
	return voter, nil
}

// ResolveParticipant finds the participant of eventID matching identity or
// creates one named name. An existing participant is returned unchanged.
func (s *VotingService) ResolveParticipant(ctx context.Context, eventID uuid.UUID, name string, identity participant.Identity, sessionID string) (*participant.Participant, error) {
	if err := s.validator.ValidateName(name); err != nil {
		return nil, common.Validation("resolve_participant", err.Error())
	}

	var p *participant.Participant
	err := s.store.WithinTransaction(ctx, func(repos postgres.Repositories) error {
		var err error
		p, err = s.resolve(ctx, repos, eventID, name, identity, sessionID)
		return err
	})
	if err != nil {
		return nil, asStoreError("resolve_participant", err)
	}
	return p, nil
}

// ReplaceVotes sets the participant's votes to exactly selection. Option
// ids must belong to the participant's event; otherwise nothing is written.
func (s *VotingService) ReplaceVotes(ctx context.Context, participantID uuid.UUID, selection vote.Selection) error {
	selection = vote.NewSelection(selection.TimeSlotIDs, selection.VenueIDs)

	err := s.store.WithinTransaction(ctx, func(repos postgres.Repositories) error {
		p, err := repos.Participants().Lock(ctx, participantID)
		if err != nil {
			return err
		}
		if err := checkOwnership(ctx, repos, p.EventID, selection); err != nil {
			return err
		}
		return replace(ctx, repos, p.ID, selection)
	})
	if err != nil {
		return asStoreError("replace_votes", err)
	}

	s.log.Debug("votes replaced", "participant_id", participantID)
	return nil
}

// resolve is the lookup-or-create step. A lost insert race is resolved by
// reading the winner's row.
func (s *VotingService) resolve(ctx context.Context, repos postgres.Repositories, eventID uuid.UUID, name string, identity participant.Identity, sessionID string) (*participant.Participant, error) {
	const op = "resolve_participant"

	if identity.Reconcilable() {
		existing, err := repos.Participants().FindByIdentity(ctx, eventID, identity)
		if err == nil {
			s.log.Debug("participant reconciled", "participant_id", existing.ID, "identity", identity.Kind)
			return existing, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	p := participant.New(eventID, name, identity, sessionID)
	created, err := repos.Participants().CreateIfAbsent(ctx, p)
	if err != nil {
		return nil, err
	}
	if created {
		return p, nil
	}

	if !identity.Reconcilable() {
		return nil, common.Conflict(op, "participant id already in use", nil)
	}

	s.log.Debug("lost participant insert race, reading winner", "event_id", eventID, "identity", identity.Kind)
	existing, err := repos.Participants().FindByIdentity(ctx, eventID, identity)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Conflict(op, "participant identity changed concurrently", err)
		}
		return nil, err
	}
	return existing, nil
}

// checkOwnership rejects option ids that are unknown or belong to another event
func checkOwnership(ctx context.Context, repos postgres.Repositories, eventID uuid.UUID, selection vote.Selection) error {
	owned, err := repos.Votes().OwnedTimeSlotIDs(ctx, eventID, selection.TimeSlotIDs)
	if err != nil {
		return err
	}
	if missing := vote.MissingIDs(selection.TimeSlotIDs, owned); len(missing) > 0 {
		return vote.ForeignOptionError(vote.CategoryTimeSlot, missing)
	}

	owned, err = repos.Votes().OwnedVenueIDs(ctx, eventID, selection.VenueIDs)
	if err != nil {
		return err
	}
	if missing := vote.MissingIDs(selection.VenueIDs, owned); len(missing) > 0 {
		return vote.ForeignOptionError(vote.CategoryVenue, missing)
	}
	return nil
}

func replace(ctx context.Context, repos postgres.Repositories, participantID uuid.UUID, selection vote.Selection) error {
	if err := repos.Votes().ReplaceTimeSlotVotes(ctx, participantID, selection.TimeSlotIDs); err != nil {
		return err
	}
	return repos.Votes().ReplaceVenueVotes(ctx, participantID, selection.VenueIDs)
}
