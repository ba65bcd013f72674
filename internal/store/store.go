// Package store persists the logged-in identity and a local cache of saved
// session summaries across client runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ritankar/legalaid/internal/model/user"
)

// ErrNoProfile is returned when no account is logged in.
var ErrNoProfile = errors.New("no stored profile")

// OpenSQLite opens (or creates) the client database at the given path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store provides data access to the local SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		email      TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_summaries (
		session_id TEXT PRIMARY KEY,
		user_email TEXT NOT NULL,
		timestamp  TEXT,
		preview    TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_summaries_user ON session_summaries(user_email, timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveProfile records the logged-in account. At most one profile is kept.
func (s *Store) SaveProfile(ctx context.Context, p user.Profile) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profile`); err != nil {
		return fmt.Errorf("clear prior profile: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (email, first_name, last_name, saved_at) VALUES (?, ?, ?, ?)`,
		p.Email, p.FirstName, p.LastName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadProfile returns the stored account, or ErrNoProfile.
func (s *Store) LoadProfile(ctx context.Context) (user.Profile, error) {
	var p user.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT email, first_name, last_name FROM profile LIMIT 1`).
		Scan(&p.Email, &p.FirstName, &p.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return user.Profile{}, ErrNoProfile
	}
	if err != nil {
		return user.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// ClearProfile signs the account out locally.
func (s *Store) ClearProfile(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profile`); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

// SessionSummary mirrors one dashboard entry.
type SessionSummary struct {
	ID        string
	Timestamp string
	Preview   string
}

// ReplaceSummaries swaps the cached dashboard entries for an account.
func (s *Store) ReplaceSummaries(ctx context.Context, userEmail string, summaries []SessionSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_summaries WHERE user_email = ?`, userEmail); err != nil {
		return fmt.Errorf("clear summaries: %w", err)
	}
	for _, sum := range summaries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_summaries (session_id, user_email, timestamp, preview) VALUES (?, ?, ?, ?)`,
			sum.ID, userEmail, sum.Timestamp, sum.Preview); err != nil {
			return fmt.Errorf("insert summary %s: %w", sum.ID, err)
		}
	}
	return tx.Commit()
}

// Summaries returns cached dashboard entries, newest first. Used when the
// backend is unreachable so the dashboard still shows something.
func (s *Store) Summaries(ctx context.Context, userEmail string) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, timestamp, preview FROM session_summaries
		 WHERE user_email = ? ORDER BY timestamp DESC`, userEmail)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Timestamp, &sum.Preview); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
