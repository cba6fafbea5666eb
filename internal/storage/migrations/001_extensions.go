package migrations

import "gorm.io/gorm"

// migration001Up enables the PostgreSQL extensions the schema relies on.
// Other dialects have nothing to install.
func migration001Up(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// migration001Down is a no-op
func migration001Down(db *gorm.DB) error {
	// NOTE: We don't drop the UUID extension as it might be used by other applications
	return nil
}
