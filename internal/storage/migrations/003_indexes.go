package migrations

import "gorm.io/gorm"

// migration003Up creates the identity and lookup indexes.
//
// A participant is unique per event by email when one was given, otherwise
// by browser session. Rows with neither are anonymous and never collide.
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_event_email
            ON participants(event_id, email)
            WHERE email IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_event_session
            ON participants(event_id, session_id)
            WHERE email IS NULL AND session_id IS NOT NULL`,

		"CREATE INDEX IF NOT EXISTS idx_participants_event_created ON participants(event_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_time_slots_event_date ON time_slots(event_id, date_time)",
		"CREATE INDEX IF NOT EXISTS idx_venues_event_created ON venues(event_id, created_at)",

		"CREATE INDEX IF NOT EXISTS idx_time_slot_votes_slot ON time_slot_votes(time_slot_id)",
		"CREATE INDEX IF NOT EXISTS idx_venue_votes_venue ON venue_votes(venue_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes created by migration003Up
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_participants_event_email",
		"idx_participants_event_session",
		"idx_participants_event_created",
		"idx_time_slots_event_date",
		"idx_venues_event_created",
		"idx_time_slot_votes_slot",
		"idx_venue_votes_venue",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
