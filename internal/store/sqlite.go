// ABOUTME: SQLite implementation of the ConversationStore interface using modernc.org/sqlite
// ABOUTME: Provides conversation reference persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the ConversationStore interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversation_refs (
			conversation_id   TEXT PRIMARY KEY,
			channel_id        TEXT NOT NULL,
			service_url       TEXT NOT NULL,
			conversation_type TEXT NOT NULL,
			user_id           TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_conversation_refs_user
			ON conversation_refs(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get retrieves a conversation reference by its conversation ID.
func (s *SQLiteStore) Get(ctx context.Context, conversationID string) (*ConversationReference, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT conversation_id, channel_id, service_url, conversation_type, user_id, created_at, updated_at
		FROM conversation_refs
		WHERE conversation_id = ?`,
		conversationID,
	)
	return scanReference(row)
}

// FindByUserID retrieves the personal conversation reference for a user.
// When duplicates exist, the most recently updated record wins.
func (s *SQLiteStore) FindByUserID(ctx context.Context, userID string) (*ConversationReference, error) {
	if userID == "" {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT conversation_id, channel_id, service_url, conversation_type, user_id, created_at, updated_at
		FROM conversation_refs
		WHERE user_id = ? AND conversation_type = ?
		ORDER BY updated_at DESC, conversation_id
		LIMIT 1`,
		userID, ConversationTypePersonal,
	)
	return scanReference(row)
}

// List enumerates all stored references, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]*ConversationReference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, channel_id, service_url, conversation_type, user_id, created_at, updated_at
		FROM conversation_refs
		ORDER BY updated_at DESC, conversation_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversation references: %w", err)
	}
	defer rows.Close()

	var refs []*ConversationReference
	for rows.Next() {
		var ref ConversationReference
		if err := rows.Scan(
			&ref.ConversationID, &ref.ChannelID, &ref.ServiceURL,
			&ref.ConversationType, &ref.UserID, &ref.CreatedAt, &ref.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning conversation reference: %w", err)
		}
		refs = append(refs, &ref)
	}

	return refs, rows.Err()
}

// Upsert inserts or replaces the record keyed by ref.ConversationID.
// Re-persisting an existing reference updates it in place; the conflict
// target on the primary key guarantees a single live record per ID.
func (s *SQLiteStore) Upsert(ctx context.Context, ref *ConversationReference) error {
	if ref.ConversationID == "" {
		return fmt.Errorf("conversation reference missing conversation ID")
	}

	now := time.Now().UTC()
	createdAt := ref.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := ref.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_refs (conversation_id, channel_id, service_url, conversation_type, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			channel_id        = excluded.channel_id,
			service_url       = excluded.service_url,
			conversation_type = excluded.conversation_type,
			user_id           = excluded.user_id,
			updated_at        = excluded.updated_at`,
		ref.ConversationID, ref.ChannelID, ref.ServiceURL,
		ref.ConversationType, ref.UserID, createdAt, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting conversation reference: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanReference scans a single row into a ConversationReference,
// mapping sql.ErrNoRows to ErrNotFound.
func scanReference(row *sql.Row) (*ConversationReference, error) {
	var ref ConversationReference
	err := row.Scan(
		&ref.ConversationID, &ref.ChannelID, &ref.ServiceURL,
		&ref.ConversationType, &ref.UserID, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversation reference: %w", err)
	}
	return &ref, nil
}
