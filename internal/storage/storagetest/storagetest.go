// Package storagetest opens a migrated SQLite database for package tests.
package storagetest

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gravadigital/huddle-api/internal/storage/migrations"
	"github.com/gravadigital/huddle-api/internal/storage/postgres"
)

// OpenDB returns a migrated database file inside t.TempDir. Foreign keys
// are enforced and the pool is capped at one connection so transactions
// serialise the way row locks do on PostgreSQL.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), postgres.GormConfig(false))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

// NewContainer returns a repository container over a fresh database
func NewContainer(t *testing.T) *postgres.Container {
	t.Helper()
	return postgres.NewContainerWithDB(OpenDB(t))
}
