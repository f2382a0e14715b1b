package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (sessions + events)
const currentSchemaVersion = 1

// Store provides durable storage for recorded input traces.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path
// (":memory:" for throwaway stores).
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	// to avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version > currentSchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	return nil
}

// SessionInfo describes one recorded session.
type SessionInfo struct {
	Token      string `json:"token"`
	Scenario   string `json:"scenario,omitempty"`
	CreatedAt  string `json:"created_at"`
	EventCount int    `json:"event_count"`
}

// WriteSession registers a session. Writing an existing token is an
// error: sessions are immutable once recorded.
func (s *Store) WriteSession(ctx context.Context, token, scenario string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (token, scenario) VALUES (?, ?)", token, scenario)
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", token, err)
	}
	return nil
}

// AppendEvent persists one trace event under the session token.
func (s *Store) AppendEvent(ctx context.Context, token string, e Event) error {
	payload, err := e.MarshalPayload()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO events (session_token, seq, kind, payload) VALUES (?, ?, ?, ?)",
		token, e.Seq, e.Kind, string(payload))
	if err != nil {
		return fmt.Errorf("failed to append event seq %d: %w", e.Seq, err)
	}
	return nil
}

// WriteTrace persists a whole recorded trace in one transaction.
func (s *Store) WriteTrace(ctx context.Context, token, scenario string, events []Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (token, scenario) VALUES (?, ?)", token, scenario); err != nil {
		return fmt.Errorf("failed to write session %s: %w", token, err)
	}
	for _, e := range events {
		payload, err := e.MarshalPayload()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO events (session_token, seq, kind, payload) VALUES (?, ?, ?, ?)",
			token, e.Seq, e.Kind, string(payload)); err != nil {
			return fmt.Errorf("failed to append event seq %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

// ReadEvents returns a session's events in seq order.
func (s *Store) ReadEvents(ctx context.Context, token string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM events WHERE session_token = ? ORDER BY seq", token)
	if err != nil {
		return nil, fmt.Errorf("failed to read events for %s: %w", token, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		var e Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("failed to decode event payload: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListSessions returns all sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.token, s.scenario, s.created_at, COUNT(e.seq)
		FROM sessions s
		LEFT JOIN events e ON e.session_token = s.token
		GROUP BY s.token
		ORDER BY s.created_at, s.token`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.Token, &info.Scenario, &info.CreatedAt, &info.EventCount); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}
