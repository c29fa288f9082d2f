// Package store owns the persisted conversation state: user profiles,
// per-user preferences and the rolling turn history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Role tags one side of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const defaultContextLength = 20

// ErrProfileNotFound is returned by Stats for users who never interacted.
var ErrProfileNotFound = errors.New("store: profile not found")

type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

type Turn struct {
	Role    Role
	Content string
}

type Stats struct {
	MessageCount      int
	MemberSince       time.Time
	PreferredLanguage string
}

type Preferences struct {
	ContextLength int
	ResponseStyle string
	Timezone      string
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path, ensuring
// that the parent directory exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// InitSchema creates all tables: user_profiles, user_preferences, chat_context.
func (s *Store) InitSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			preferred_language TEXT NOT NULL DEFAULT 'mixed',
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			last_active INTEGER NOT NULL DEFAULT (unixepoch()),
			message_count INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_user_last_active ON user_profiles(last_active);

		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id INTEGER PRIMARY KEY REFERENCES user_profiles(user_id),
			context_length INTEGER NOT NULL DEFAULT 20,
			response_style TEXT NOT NULL DEFAULT 'balanced',
			timezone TEXT NOT NULL DEFAULT 'UTC'
		);

		CREATE TABLE IF NOT EXISTS chat_context (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp INTEGER NOT NULL DEFAULT (unixepoch())
		);
		CREATE INDEX IF NOT EXISTS idx_user_id_timestamp ON chat_context(user_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// EnsureProfile upserts the profile row, incrementing the message counter
// exactly once per call, and creates a default preferences row on first
// contact. created_at and preferred_language survive subsequent upserts.
func (s *Store) EnsureProfile(ctx context.Context, p Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin profile tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, username, first_name, last_name, message_count)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			last_active = unixepoch(),
			message_count = user_profiles.message_count + 1
	`, p.UserID, p.Username, p.FirstName, p.LastName)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %d: %w", p.UserID, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO user_preferences (user_id) VALUES (?)`, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to ensure preferences %d: %w", p.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile tx: %w", err)
	}
	return nil
}

// AppendTurn inserts a turn and prunes the user's history down to their
// configured context length, most recent first. Insert and prune run in one
// transaction so readers never observe more than a transient overshoot.
func (s *Store) AppendTurn(ctx context.Context, userID int64, role Role, content string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin turn tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_context (user_id, role, content) VALUES (?, ?, ?)`,
		userID, string(role), content)
	if err != nil {
		return fmt.Errorf("failed to insert turn for %d: %w", userID, err)
	}

	contextLength := defaultContextLength
	err = tx.QueryRowContext(ctx,
		`SELECT context_length FROM user_preferences WHERE user_id = ?`, userID).Scan(&contextLength)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read context length for %d: %w", userID, err)
	}

	// Retention is by recency irrespective of role; id breaks timestamp ties.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM chat_context
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM chat_context
			WHERE user_id = ?
			ORDER BY timestamp DESC, id DESC
			LIMIT ?
		)
	`, userID, userID, contextLength)
	if err != nil {
		return fmt.Errorf("failed to prune turns for %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn tx: %w", err)
	}
	return nil
}

// Context returns the retained turns for a user, oldest first. Completion
// APIs interpret message order as conversation order.
func (s *Store) Context(ctx context.Context, userID int64) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM chat_context WHERE user_id = ? ORDER BY timestamp ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read context for %d: %w", userID, err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan turn for %d: %w", userID, err)
		}
		turns = append(turns, Turn{Role: Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate context for %d: %w", userID, err)
	}
	return turns, nil
}

// ClearContext deletes all turns for a user. No-op if none exist.
func (s *Store) ClearContext(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_context WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear context for %d: %w", userID, err)
	}
	return nil
}

// Stats returns profile statistics, or ErrProfileNotFound for unknown users.
func (s *Store) Stats(ctx context.Context, userID int64) (Stats, error) {
	var (
		count     int
		createdAt int64
		lang      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT message_count, created_at, preferred_language FROM user_profiles WHERE user_id = ?`, userID).
		Scan(&count, &createdAt, &lang)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, ErrProfileNotFound
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read stats for %d: %w", userID, err)
	}
	return Stats{
		MessageCount:      count,
		MemberSince:       time.Unix(createdAt, 0).UTC(),
		PreferredLanguage: lang,
	}, nil
}

// Preferences returns the user's preferences row, or defaults if absent.
func (s *Store) Preferences(ctx context.Context, userID int64) (Preferences, error) {
	p := Preferences{ContextLength: defaultContextLength, ResponseStyle: "balanced", Timezone: "UTC"}
	err := s.db.QueryRowContext(ctx,
		`SELECT context_length, response_style, timezone FROM user_preferences WHERE user_id = ?`, userID).
		Scan(&p.ContextLength, &p.ResponseStyle, &p.Timezone)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, fmt.Errorf("failed to read preferences for %d: %w", userID, err)
	}
	return p, nil
}

// SetContextLength updates a user's retention bound. Existing turns beyond
// the new bound are pruned on the next append.
func (s *Store) SetContextLength(ctx context.Context, userID int64, n int) error {
	if n <= 0 {
		return fmt.Errorf("context length must be positive, got %d", n)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE user_preferences SET context_length = ? WHERE user_id = ?`, n, userID); err != nil {
		return fmt.Errorf("failed to set context length for %d: %w", userID, err)
	}
	return nil
}

// CountActiveSince reports how many users were active at or after t.
func (s *Store) CountActiveSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_profiles WHERE last_active >= ?`, t.Unix()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}

// Checkpoint truncates the WAL; run from housekeeping, not the message path.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("failed to checkpoint wal: %w", err)
	}
	return nil
}
