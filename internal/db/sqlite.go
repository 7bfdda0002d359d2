// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/slot"
)

// SQLite implements slot.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// LoadPreferences returns the saved preferences, or nil if none were saved.
func (s *SQLite) LoadPreferences(ctx context.Context) (*slot.Preferences, error) {
	query := `SELECT template, start_hour, end_hour FROM preferences WHERE id = 1`

	var p slot.Preferences
	err := s.db.QueryRowContext(ctx, query).Scan(&p.Template, &p.StartHour, &p.EndHour)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	return &p, nil
}

// SavePreferences stores the preferences, replacing any previous value.
func (s *SQLite) SavePreferences(ctx context.Context, prefs slot.Preferences) error {
	query := `
		INSERT INTO preferences (id, template, start_hour, end_hour, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template = excluded.template,
			start_hour = excluded.start_hour,
			end_hour = excluded.end_hour,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		prefs.Template,
		prefs.StartHour,
		prefs.EndHour,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// ListSlots returns the selections between from and to (inclusive).
func (s *SQLite) ListSlots(ctx context.Context, from, to dateutil.Date) (slot.SlotSet, error) {
	query := `
		SELECT date, hour
		FROM slots
		WHERE date >= ? AND date <= ?
		ORDER BY date, hour
	`

	rows, err := s.db.QueryContext(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	set := make(slot.SlotSet)
	for rows.Next() {
		var (
			raw  string
			hour int
		)
		if err := rows.Scan(&raw, &hour); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		date, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing slot date: %w", err)
		}
		set[date] = append(set[date], hour)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return set, nil
}

// ReplaceSlots atomically replaces the selections between from and to (inclusive) with set.
func (s *SQLite) ReplaceSlots(ctx context.Context, from, to dateutil.Date, set slot.SlotSet) error {
	if to.Before(from) {
		return fmt.Errorf("replacing slots: range %s..%s is inverted", from, to)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE date >= ? AND date <= ?`, string(from), string(to)); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO slots (date, hour) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, date := range set.Dates() {
		if date.Before(from) || to.Before(date) {
			continue
		}
		for _, hour := range set[date] {
			if _, err := stmt.ExecContext(ctx, string(date), hour); err != nil {
				return fmt.Errorf("inserting slot %s %d: %w", date, hour, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteSlotsBefore removes selections dated before date.
func (s *SQLite) DeleteSlotsBefore(ctx context.Context, date dateutil.Date) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE date < ?`, string(date))
	if err != nil {
		return 0, fmt.Errorf("deleting old slots: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ClearSlots removes every saved selection.
func (s *SQLite) ClearSlots(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM slots`)
	if err != nil {
		return 0, fmt.Errorf("clearing slots: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDate accepts the forms SQLite might hand back for a stored date.
func parseDate(s string) (dateutil.Date, error) {
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	return dateutil.ParseDate(s)
}
