package vote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/huddle-api/internal/domain/event"
	"github.com/gravadigital/huddle-api/internal/domain/participant"
)

type fixture struct {
	agg            *Aggregate
	slotA, slotB   event.TimeSlot
	venueX, venueY event.Venue
}

// Three participants: P1 votes A, P2 votes A and B, P3 votes nothing.
func newFixture(t *testing.T) fixture {
	t.Helper()

	evt, err := event.NewEvent("Dinner", "", "", "")
	require.NoError(t, err)

	base := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	slotA := *event.NewTimeSlot(evt.ID, base, 0)
	slotB := *event.NewTimeSlot(evt.ID, base.Add(24*time.Hour), 1)
	venueX := *event.NewVenue(evt.ID, "Luigi's", "", "", nil, 0)
	venueY := *event.NewVenue(evt.ID, "Sushi Go", "", "", nil, 1)

	p1 := *participant.New(evt.ID, "P1", participant.IdentityFor("", ""), "")
	p2 := *participant.New(evt.ID, "P2", participant.IdentityFor("", ""), "")
	p3 := *participant.New(evt.ID, "P3", participant.IdentityFor("", ""), "")

	agg := NewAggregate(*evt,
		[]event.TimeSlot{slotA, slotB},
		[]event.Venue{venueX, venueY},
		[]participant.Participant{p1, p2, p3},
		[]TimeSlotVote{
			{ParticipantID: p1.ID, TimeSlotID: slotA.ID},
			{ParticipantID: p2.ID, TimeSlotID: slotA.ID},
			{ParticipantID: p2.ID, TimeSlotID: slotB.ID},
			{ParticipantID: uuid.New(), TimeSlotID: slotB.ID},
		},
		[]VenueVote{
			{ParticipantID: p2.ID, VenueID: venueY.ID},
		},
	)

	return fixture{agg: agg, slotA: slotA, slotB: slotB, venueX: venueX, venueY: venueY}
}

func TestCount(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 2, Count(f.agg, f.slotA.ID, CategoryTimeSlot))
	assert.Equal(t, 1, Count(f.agg, f.slotB.ID, CategoryTimeSlot))
	assert.Equal(t, 0, Count(f.agg, f.venueX.ID, CategoryVenue))
	assert.Equal(t, 1, Count(f.agg, f.venueY.ID, CategoryVenue))

	// categories are independent
	assert.Equal(t, 0, Count(f.agg, f.slotA.ID, CategoryVenue))
	assert.Equal(t, 0, Count(f.agg, uuid.New(), CategoryTimeSlot))
	assert.Equal(t, 0, Count(nil, f.slotA.ID, CategoryTimeSlot))
}

func TestRank(t *testing.T) {
	f := newFixture(t)

	slots := Rank(f.agg, CategoryTimeSlot)
	require.Len(t, slots, 2)
	assert.Equal(t, f.slotA.ID, slots[0].OptionID)
	assert.Equal(t, 2, slots[0].Count)
	assert.Equal(t, 1, slots[0].Rank)
	assert.Equal(t, "2026-06-01T19:00:00Z", slots[0].Label)
	assert.Equal(t, 2, slots[1].Rank)

	venues := Rank(f.agg, CategoryVenue)
	require.Len(t, venues, 2)
	assert.Equal(t, "Sushi Go", venues[0].Label)
	assert.Equal(t, "Luigi's", venues[1].Label)
	assert.Equal(t, 0, venues[1].Count)
}

func TestRankTiesKeepAggregateOrder(t *testing.T) {
	evt, err := event.NewEvent("Tie", "", "", "")
	require.NoError(t, err)
	first := *event.NewVenue(evt.ID, "First", "", "", nil, 0)
	second := *event.NewVenue(evt.ID, "Second", "", "", nil, 1)

	agg := NewAggregate(*evt, nil, []event.Venue{first, second}, nil, nil, nil)

	standings := Rank(agg, CategoryVenue)
	require.Len(t, standings, 2)
	assert.Equal(t, "First", standings[0].Label)
	assert.Equal(t, "Second", standings[1].Label)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 1, standings[1].Rank)

	assert.Empty(t, Rank(agg, CategoryTimeSlot))
	assert.Empty(t, Rank(agg, Category("colour")))
}

func TestNewAggregateGroupsBallots(t *testing.T) {
	f := newFixture(t)
	require.Len(t, f.agg.Participants, 3)

	p3 := f.agg.Participants[2]
	assert.NotNil(t, p3.TimeSlotVotes)
	assert.Empty(t, p3.TimeSlotVotes)
	assert.Empty(t, p3.VenueVotes)

	ballot, ok := f.agg.Ballot(f.agg.Participants[1].ID)
	require.True(t, ok)
	assert.True(t, ballot.Votes(CategoryTimeSlot, f.slotB.ID))
	assert.True(t, ballot.Votes(CategoryVenue, f.venueY.ID))

	_, ok = f.agg.Ballot(uuid.New())
	assert.False(t, ok)
}

func TestAggregateJSONShape(t *testing.T) {
	f := newFixture(t)

	raw, err := json.Marshal(f.agg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "Dinner", doc["title"])
	assert.Contains(t, doc, "share_token")
	assert.Len(t, doc["time_slots"], 2)
	assert.Len(t, doc["venues"], 2)

	participants := doc["participants"].([]any)
	require.Len(t, participants, 3)
	p2 := participants[1].(map[string]any)
	assert.Equal(t, "P2", p2["name"])
	assert.Len(t, p2["time_slot_votes"], 2)
	assert.NotContains(t, p2, "session_id")
	vote := p2["venue_votes"].([]any)[0].(map[string]any)
	assert.Equal(t, f.venueY.ID.String(), vote["venue_id"])
}
