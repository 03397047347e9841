package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
)

// Store is the SQLite-backed persistence layer. All access goes through
// plain SQL; there is no ORM.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		education TEXT DEFAULT '',
		skills TEXT DEFAULT '',
		location TEXT DEFAULT '',
		experience_years INTEGER DEFAULT 0,
		phone TEXT DEFAULT '',
		linkedin TEXT DEFAULT '',
		github TEXT DEFAULT '',
		data_consent INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS internships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		company TEXT NOT NULL,
		location TEXT DEFAULT '',
		description TEXT DEFAULT '',
		required_skills TEXT DEFAULT '',
		preferred_skills TEXT DEFAULT '',
		duration TEXT DEFAULT '',
		stipend TEXT DEFAULT '',
		min_education TEXT DEFAULT '',
		experience_required INTEGER DEFAULT 0,
		application_deadline TEXT DEFAULT '',
		posted_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		is_active INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER NOT NULL REFERENCES users(id),
		internship_id INTEGER NOT NULL REFERENCES internships(id),
		status TEXT DEFAULT 'pending',
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(candidate_id, internship_id)
	)`,
	`CREATE TABLE IF NOT EXISTS saved_internships (
		candidate_id INTEGER NOT NULL REFERENCES users(id),
		internship_id INTEGER NOT NULL REFERENCES internships(id),
		saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (candidate_id, internship_id)
	)`,
	`CREATE TABLE IF NOT EXISTS password_resets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		otp TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		used INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_behavior (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER NOT NULL REFERENCES users(id),
		action TEXT NOT NULL,
		internship_id INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS chat_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		response TEXT NOT NULL,
		intent TEXT NOT NULL,
		helpful INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_candidate ON applications(candidate_id)`,
	`CREATE INDEX IF NOT EXISTS idx_behavior_candidate ON user_behavior(candidate_id)`,
	`CREATE INDEX IF NOT EXISTS idx_behavior_created ON user_behavior(created_at)`,
}

// Open opens the SQLite database, creating the file and schema if needed
func Open(cfg *config.Config) (*Store, error) {
	path := cfg.Database.Path
	if env := os.Getenv("DATABASE_PATH"); env != "" {
		path = env
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// _time_format=sqlite keeps bound time.Time values comparable with
	// CURRENT_TIMESTAMP defaults.
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_time_format=sqlite",
		path, cfg.Database.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, logger: logging.GetGlobalLogger()}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens a throwaway in-memory store, used by tests
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	s := &Store{db: db, logger: logging.GetGlobalLogger()}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
