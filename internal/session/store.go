// Package session records session start/end and agent-call events for
// one project.
//
// The ledger is a small per-project SQLite database inside the
// project's storage folder. SQLite's busy timeout covers the
// cross-process hook concurrency here; events are append-only rows,
// never updated except for marking a session ended.
package session

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// DBFile is the session ledger filename inside a project's storage folder.
const DBFile = "sessions.db"

// Session is one host session against a project.
type Session struct {
	ID        string  `json:"id"`
	Project   string  `json:"project"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Summary   *string `json:"summary,omitempty"`
}

// AgentEvent is one recorded agent call within a session.
type AgentEvent struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Agent     string `json:"agent"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Store is the session ledger for one project.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session ledger in the given
// project storage folder and runs the idempotent migrations.
func Open(storagePath string) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Join(storagePath, DBFile))
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("session: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			project    TEXT NOT NULL,
			started_at TEXT NOT NULL DEFAULT (datetime('now')),
			ended_at   TEXT,
			summary    TEXT
		);

		CREATE TABLE IF NOT EXISTS agent_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			agent      TEXT NOT NULL,
			event      TEXT NOT NULL,
			detail     TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_events_session   ON agent_events(session_id);
		CREATE INDEX IF NOT EXISTS idx_events_created   ON agent_events(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Start opens a new session for the project and returns it with a
// fresh ID.
func (s *Store) Start(project string) (Session, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, project) VALUES (?, ?)`, id, project,
	); err != nil {
		return Session{}, fmt.Errorf("session: start: %w", err)
	}

	sess, err := s.Get(id)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// End marks a session ended with an optional summary. Ending an
// already-ended or unknown session is a harmless no-op.
func (s *Store) End(id, summary string) error {
	var sum any
	if summary != "" {
		sum = summary
	}
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = datetime('now'), summary = COALESCE(?, summary)
		 WHERE id = ? AND ended_at IS NULL`, sum, id,
	)
	if err != nil {
		return fmt.Errorf("session: end: %w", err)
	}
	return nil
}

// Get returns one session by ID.
func (s *Store) Get(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, project, started_at, ended_at, summary FROM sessions WHERE id = ?`, id,
	)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.Project, &sess.StartedAt, &sess.EndedAt, &sess.Summary); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %q not found", id)
		}
		return nil, fmt.Errorf("session: get: %w", err)
	}
	return &sess, nil
}

// RecordAgentEvent appends one agent-call event to a session.
func (s *Store) RecordAgentEvent(sessionID, agent, event, detail string) error {
	if _, err := s.db.Exec(
		`INSERT INTO agent_events (session_id, agent, event, detail) VALUES (?, ?, ?, ?)`,
		sessionID, agent, event, detail,
	); err != nil {
		return fmt.Errorf("session: record event: %w", err)
	}
	return nil
}

// Recent returns the newest limit sessions, newest first.
func (s *Store) Recent(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, project, started_at, ended_at, summary
		 FROM sessions ORDER BY started_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session: recent: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Project, &sess.StartedAt, &sess.EndedAt, &sess.Summary); err != nil {
			return nil, fmt.Errorf("session: scan: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Events returns all agent events of one session in recorded order.
func (s *Store) Events(sessionID string) ([]AgentEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, agent, event, COALESCE(detail, ''), created_at
		 FROM agent_events WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("session: events: %w", err)
	}
	defer rows.Close()

	var out []AgentEvent
	for rows.Next() {
		var ev AgentEvent
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Agent, &ev.Event, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("session: scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
