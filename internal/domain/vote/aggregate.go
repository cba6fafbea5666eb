package vote

import (
	"github.com/google/uuid"

	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/participant"
)

// Ballot is a participant together with their current votes
type Ballot struct {
	participant.Participant
	TimeSlotVotes []TimeSlotVote `json:"time_slot_votes"`
	VenueVotes    []VenueVote    `json:"venue_votes"`
}

// Votes reports whether the ballot contains optionID in category
func (b Ballot) Votes(category Category, optionID uuid.UUID) bool {
	switch category {
	case CategoryTimeSlot:
		for _, v := range b.TimeSlotVotes {
			if v.TimeSlotID == optionID {
				return true
			}
		}
	case CategoryVenue:
		for _, v := range b.VenueVotes {
			if v.VenueID == optionID {
				return true
			}
		}
	}
	return false
}

// Aggregate is the read model of an event: its options and every
// participant's current ballot. Slots are ordered by date, venues by
// creation.
type Aggregate struct {
	event.Event
	TimeSlots    []event.TimeSlot `json:"time_slots"`
	Venues       []event.Venue    `json:"venues"`
	Participants []Ballot         `json:"participants"`
}

// NewAggregate groups vote rows under their participants. Votes whose
// participant is not listed are dropped.
func NewAggregate(
	evt event.Event,
	slots []event.TimeSlot,
	venues []event.Venue,
	participants []participant.Participant,
	slotVotes []TimeSlotVote,
	venueVotes []VenueVote,
) *Aggregate {
	agg := &Aggregate{
		Event:        evt,
		TimeSlots:    nonNil(slots),
		Venues:       nonNil(venues),
		Participants: make([]Ballot, len(participants)),
	}

	index := make(map[uuid.UUID]int, len(participants))
	for i, p := range participants {
		agg.Participants[i] = Ballot{
			Participant:   p,
			TimeSlotVotes: []TimeSlotVote{},
			VenueVotes:    []VenueVote{},
		}
		index[p.ID] = i
	}

	for _, v := range slotVotes {
		if i, ok := index[v.ParticipantID]; ok {
			agg.Participants[i].TimeSlotVotes = append(agg.Participants[i].TimeSlotVotes, v)
		}
	}
	for _, v := range venueVotes {
		if i, ok := index[v.ParticipantID]; ok {
			agg.Participants[i].VenueVotes = append(agg.Participants[i].VenueVotes, v)
		}
	}

	return agg
}

// Ballot returns the ballot of participantID
func (a *Aggregate) Ballot(participantID uuid.UUID) (Ballot, bool) {
	for _, b := range a.Participants {
		if b.ID == participantID {
			return b, true
		}
	}
	return Ballot{}, false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
