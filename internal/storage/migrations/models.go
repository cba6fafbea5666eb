package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Schema models. These mirror the domain types but carry the relations
// GORM needs to emit foreign keys; the application never queries them.

// Event is a meetup whose time and place are put to a vote
type Event struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:200;not null"`
	Description  *string   `gorm:"type:text"`
	CreatorName  *string   `gorm:"size:100"`
	CreatorEmail *string   `gorm:"size:320"`
	ShareToken   string    `gorm:"size:32;not null;uniqueIndex:idx_events_share_token"`
	Status       string    `gorm:"size:16;not null;default:'active';check:chk_events_status,status IN ('active','completed','cancelled')"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Relations
	TimeSlots    []TimeSlot    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Venues       []Venue       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Participants []Participant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "events"
}

// TimeSlot is a candidate date and time
type TimeSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"type:uuid;not null"`
	DateTime  time.Time `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relations
	Votes []TimeSlotVote `gorm:"foreignKey:TimeSlotID;constraint:OnDelete:CASCADE"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// Venue is a candidate place; Metadata is an opaque JSON document
type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID     uuid.UUID `gorm:"type:uuid;not null"`
	Name        string    `gorm:"size:200;not null"`
	Address     *string   `gorm:"size:500"`
	Description *string   `gorm:"type:text"`
	Metadata    datatypes.JSONMap
	Position    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	// Relations
	Votes []VenueVote `gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE"`
}

func (Venue) TableName() string {
	return "venues"
}

// Participant is a voter scoped to one event
type Participant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"size:100;not null"`
	Email     *string   `gorm:"size:320"`
	SessionID *string   `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relations
	TimeSlotVotes []TimeSlotVote `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
	VenueVotes    []VenueVote    `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`
}

func (Participant) TableName() string {
	return "participants"
}

// TimeSlotVote is the (participant, slot) availability relation
type TimeSlotVote struct {
	ParticipantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TimeSlotID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (TimeSlotVote) TableName() string {
	return "time_slot_votes"
}

// VenueVote is the (participant, venue) preference relation
type VenueVote struct {
	ParticipantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VenueID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (VenueVote) TableName() string {
	return "venue_votes"
}

// AllModels returns a slice of all models for migration, parents first
func AllModels() []any {
	return []any{
		&Event{},
		&TimeSlot{},
		&Venue{},
		&Participant{},
		&TimeSlotVote{},
		&VenueVote{},
	}
}

// Tables lists the table names in drop order, children first
func Tables() []string {
	return []string{
		"venue_votes",
		"time_slot_votes",
		"participants",
		"venues",
		"time_slots",
		"events",
	}
}
