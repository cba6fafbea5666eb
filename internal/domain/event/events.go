package event

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShareTokenBytes is the amount of randomness behind a share token.
// Tokens are hex encoded, so they are twice as long.
const ShareTokenBytes = 8

// ShareTokenLength is the length of an encoded share token
const ShareTokenLength = ShareTokenBytes * 2

// Event is a meetup whose time and place are decided by vote
type Event struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  *string   `json:"description,omitempty"`
	CreatorName  *string   `json:"creator_name,omitempty"`
	CreatorEmail *string   `json:"creator_email,omitempty"`
	ShareToken   string    `json:"share_token" gorm:"size:32;not null"`
	Status       Status    `json:"status" gorm:"size:16;not null;default:'active'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates an active event with a fresh share token.
// Empty optional fields are stored as NULL.
func NewEvent(title, description, creatorName, creatorEmail string) (*Event, error) {
	token, err := NewShareToken()
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		Description:  optional(description),
		CreatorName:  optional(creatorName),
		CreatorEmail: optional(creatorEmail),
		ShareToken:   token,
		Status:       StatusActive,
	}, nil
}

// Reissue draws a new share token, used when the previous one collided
func (e *Event) Reissue() error {
	token, err := NewShareToken()
	if err != nil {
		return err
	}
	e.ShareToken = token
	return nil
}

// AcceptsVotes reports whether participants may still vote
func (e *Event) AcceptsVotes() bool {
	return e.Status == StatusActive
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(e.ShareToken) != ShareTokenLength {
		return fmt.Errorf("share_token must be %d characters", ShareTokenLength)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	return nil
}

// NewShareToken returns an unguessable, URL-safe token of ShareTokenLength
// lowercase hex characters.
func NewShareToken() (string, error) {
	b := make([]byte, ShareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TimeSlot is a candidate date and time for an event
type TimeSlot struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null"`
	DateTime  time.Time `json:"date_time" gorm:"not null"`
	Position  int       `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (TimeSlot) TableName() string {
	return "time_slots"
}

// BeforeCreate sets a UUID before creating the record
func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewTimeSlot creates a slot; the instant is stored in UTC
func NewTimeSlot(eventID uuid.UUID, at time.Time, position int) *TimeSlot {
	return &TimeSlot{
		ID:       uuid.New(),
		EventID:  eventID,
		DateTime: at.UTC(),
		Position: position,
	}
}

// Venue is a candidate place for an event. Metadata holds whatever the
// recommendation provider returned for it (rating, price level, summary...)
// and is never interpreted here.
type Venue struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	EventID     uuid.UUID         `json:"event_id" gorm:"type:uuid;not null"`
	Name        string            `json:"name" gorm:"not null"`
	Address     *string           `json:"address,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	Position    int               `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Venue) TableName() string {
	return "venues"
}

// BeforeCreate sets a UUID before creating the record
func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewVenue creates a venue owned by eventID
func NewVenue(eventID uuid.UUID, name, address, description string, metadata map[string]any, position int) *Venue {
	var bag datatypes.JSONMap
	if len(metadata) > 0 {
		bag = datatypes.JSONMap(metadata)
	}
	return &Venue{
		ID:          uuid.New(),
		EventID:     eventID,
		Name:        strings.TrimSpace(name),
		Address:     optional(address),
		Description: optional(description),
		Metadata:    bag,
		Position:    position,
	}
}

// Status represents the lifecycle state of an event
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the event can move to a new status
func (s Status) CanTransitionTo(next Status) bool {
	transitions := map[Status][]Status{
		StatusActive:    {StatusCompleted, StatusCancelled},
		StatusCompleted: {}, // NOTE: terminal
		StatusCancelled: {}, // NOTE: terminal
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}
	return slices.Contains(allowed, next)
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusActive
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
