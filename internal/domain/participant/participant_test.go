package participant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFor(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		session string
		want    Identity
	}{
		{"email wins over session", " Ana@Example.com ", "sess-1", Identity{Kind: ByEmail, Key: "ana@example.com"}},
		{"session when email blank", "   ", "sess-1", Identity{Kind: BySession, Key: "sess-1"}},
		{"anonymous without keys", "", "", Identity{Kind: Anonymous}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentityFor(tt.email, tt.session)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind != Anonymous, got.Reconcilable())
		})
	}
}

func TestNewByEmailKeepsSession(t *testing.T) {
	eventID := uuid.New()
	p := New(eventID, " Ana ", IdentityFor("ana@example.com", ""), "sess-9")

	assert.Equal(t, eventID, p.EventID)
	assert.Equal(t, "Ana", p.Name)
	require.NotNil(t, p.Email)
	assert.Equal(t, "ana@example.com", *p.Email)
	require.NotNil(t, p.SessionID)
	assert.Equal(t, "sess-9", *p.SessionID)
}

func TestNewBySession(t *testing.T) {
	p := New(uuid.New(), "Bo", IdentityFor("", "sess-2"), "sess-2")

	assert.Nil(t, p.Email)
	require.NotNil(t, p.SessionID)
	assert.Equal(t, "sess-2", *p.SessionID)
}

func TestNewAnonymous(t *testing.T) {
	p := New(uuid.New(), "Cy", IdentityFor("", ""), "")

	assert.Nil(t, p.Email)
	assert.Nil(t, p.SessionID)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "email", ByEmail.String())
	assert.Equal(t, "session", BySession.String())
	assert.Equal(t, "anonymous", Anonymous.String())
}
