package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS preferences (
			id         INTEGER PRIMARY KEY CHECK(id = 1),
			template   TEXT NOT NULL,
			start_hour INTEGER NOT NULL CHECK(start_hour BETWEEN 0 AND 23),
			end_hour   INTEGER NOT NULL CHECK(end_hour BETWEEN 1 AND 24),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS slots (
			date TEXT NOT NULL,
			hour INTEGER NOT NULL CHECK(hour BETWEEN 0 AND 23),
			PRIMARY KEY (date, hour)
		);

		CREATE INDEX IF NOT EXISTS idx_slots_date ON slots(date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
