package participant

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is someone who voted in one event. Participants are scoped to
// their event: the same email in two events is two participants.
type Participant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Email     *string   `json:"email,omitempty"`
	SessionID *string   `json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Participant) TableName() string {
	return "participants"
}

// BeforeCreate sets a UUID before creating the record
func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// New builds a participant for identity. sessionID is recorded even for
// email identities so the submitting browser is known.
func New(eventID uuid.UUID, name string, identity Identity, sessionID string) *Participant {
	p := &Participant{
		ID:      uuid.New(),
		EventID: eventID,
		Name:    strings.TrimSpace(name),
	}

	switch identity.Kind {
	case ByEmail:
		email := identity.Key
		p.Email = &email
	case BySession:
		session := identity.Key
		p.SessionID = &session
		return p
	}

	if s := strings.TrimSpace(sessionID); s != "" {
		p.SessionID = &s
	}
	return p
}

// Kind tells how a vote submission is matched to an existing participant
type Kind int

const (
	// Anonymous submissions cannot be reconciled and always create a participant
	Anonymous Kind = iota
	ByEmail
	BySession
)

func (k Kind) String() string {
	switch k {
	case ByEmail:
		return "email"
	case BySession:
		return "session"
	default:
		return "anonymous"
	}
}

// Identity is the reconciliation key of a submission
type Identity struct {
	Kind Kind
	Key  string
}

// IdentityFor picks the reconciliation key: a non-empty email wins, then
// the session id, otherwise the submission is anonymous. Emails are
// compared case-insensitively.
func IdentityFor(email, sessionID string) Identity {
	if e := NormalizeEmail(email); e != "" {
		return Identity{Kind: ByEmail, Key: e}
	}
	if s := strings.TrimSpace(sessionID); s != "" {
		return Identity{Kind: BySession, Key: s}
	}
	return Identity{Kind: Anonymous}
}

// Reconcilable reports whether the identity can match an existing participant
func (i Identity) Reconcilable() bool {
	return i.Kind != Anonymous
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
