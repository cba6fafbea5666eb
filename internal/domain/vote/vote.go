package vote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/huddle-api/internal/domain/common"
)

// TimeSlotVote links a participant to a time slot they can attend
type TimeSlotVote struct {
	ParticipantID uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	TimeSlotID    uuid.UUID `json:"time_slot_id" gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time `json:"-" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (TimeSlotVote) TableName() string {
	return "time_slot_votes"
}

// VenueVote links a participant to a venue they like
type VenueVote struct {
	ParticipantID uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	VenueID       uuid.UUID `json:"venue_id" gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time `json:"-" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (VenueVote) TableName() string {
	return "venue_votes"
}

// Category separates the two independent ballots of an event
type Category string

const (
	CategoryTimeSlot Category = "time_slot"
	CategoryVenue    Category = "venue"
)

// Selection is the complete set of options one submission votes for.
// It replaces whatever the participant voted before.
type Selection struct {
	TimeSlotIDs []uuid.UUID
	VenueIDs    []uuid.UUID
}

// ParseSelection parses and deduplicates submitted option ids, keeping the
// first occurrence of each.
func ParseSelection(timeSlotIDs, venueIDs []string) (Selection, error) {
	slots, err := parseIDs(timeSlotIDs, "time_slot_ids")
	if err != nil {
		return Selection{}, err
	}
	venues, err := parseIDs(venueIDs, "venue_ids")
	if err != nil {
		return Selection{}, err
	}
	return Selection{TimeSlotIDs: slots, VenueIDs: venues}, nil
}

// NewSelection deduplicates already parsed ids
func NewSelection(timeSlotIDs, venueIDs []uuid.UUID) Selection {
	return Selection{TimeSlotIDs: dedupe(timeSlotIDs), VenueIDs: dedupe(venueIDs)}
}

// IsEmpty reports whether the submission votes for nothing at all
func (s Selection) IsEmpty() bool {
	return len(s.TimeSlotIDs) == 0 && len(s.VenueIDs) == 0
}

func parseIDs(raw []string, field string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, common.Validationf("parse_selection", "%s contains an invalid id: %q", field, r)
		}
		ids = append(ids, id)
	}
	return dedupe(ids), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// MissingIDs returns the ids of want that are not in owned, in order
func MissingIDs(want, owned []uuid.UUID) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		have[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// ForeignOptionError builds the validation error for option ids that do not
// belong to the event being voted on
func ForeignOptionError(category Category, missing []uuid.UUID) error {
	ids := make([]string, len(missing))
	for i, id := range missing {
		ids[i] = id.String()
	}
	return common.Validation("replace_votes",
		fmt.Sprintf("%s ids do not belong to this event: %s", category, strings.Join(ids, ", ")))
}
