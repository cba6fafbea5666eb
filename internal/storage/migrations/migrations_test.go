package migrations_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/huddle-api/internal/storage/migrations"
	"github.com/gravadigital/huddle-api/internal/storage/storagetest"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db := storagetest.OpenDB(t)

	require.NoError(t, migrations.RunMigrations(db))

	applied, err := migrations.Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002", "003"}, applied)

	for _, table := range []string{"events", "time_slots", "venues", "participants", "time_slot_votes", "venue_votes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestIdentityIndexes(t *testing.T) {
	db := storagetest.OpenDB(t)
	eventID := uuid.NewString()

	require.NoError(t, db.Exec(
		"INSERT INTO events (id, title, share_token, status) VALUES (?, ?, ?, ?)",
		eventID, "Dinner", "0123456789abcdef", "active").Error)

	insert := func(email, session any) error {
		return db.Exec(
			"INSERT INTO participants (id, event_id, name, email, session_id) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), eventID, "x", email, session).Error
	}

	require.NoError(t, insert("ana@example.com", "s1"))
	assert.Error(t, insert("ana@example.com", "s2"), "email is unique per event")

	require.NoError(t, insert(nil, "s1"), "sessions of email participants do not count")
	assert.Error(t, insert(nil, "s1"), "session is unique among email-less participants")

	require.NoError(t, insert(nil, nil))
	require.NoError(t, insert(nil, nil), "anonymous rows never collide")
}

func TestStatusCheckConstraint(t *testing.T) {
	db := storagetest.OpenDB(t)

	err := db.Exec(
		"INSERT INTO events (id, title, share_token, status) VALUES (?, ?, ?, ?)",
		uuid.NewString(), "Dinner", "0123456789abcdef", "archived").Error
	assert.Error(t, err)
}

func TestRollbackMigration(t *testing.T) {
	db := storagetest.OpenDB(t)

	require.NoError(t, migrations.RollbackMigration(db))
	applied, err := migrations.Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, applied)

	require.NoError(t, migrations.RollbackMigration(db))
	assert.False(t, db.Migrator().HasTable("participants"))

	require.NoError(t, migrations.RollbackMigration(db))
	assert.Error(t, migrations.RollbackMigration(db))

	require.NoError(t, migrations.RunMigrations(db))
	assert.True(t, db.Migrator().HasTable("venue_votes"))
}
