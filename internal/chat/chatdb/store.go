// Package chatdb persists normalized chat messages in SQLite.
//
// The store holds a single chat_messages table keyed by message id. Inserts
// use INSERT OR IGNORE so reprocessing the same dump is idempotent: duplicate
// ids are silently skipped, never overwritten.
package chatdb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"vodarc/internal/chat"
)

//go:embed schema.sql
var schemaSQL string

// Store manages chat message persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the chat database, creating the schema
// when absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InsertMessages writes messages in one transaction with insert-or-ignore
// semantics and returns the number of rows actually inserted.
func (s *Store) InsertMessages(ctx context.Context, messages []chat.Message) (int64, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO chat_messages (
        message_id, message_sent_absolute, message_sent_offset,
        user_name, user_id, user_logo, message_body, donation, color,
        message_type, is_pinned, author_badges
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, msg := range messages {
		res, err := stmt.ExecContext(
			ctx,
			msg.ID,
			nullableString(msg.SentAbsolute),
			msg.SentOffset,
			nullableString(msg.UserName),
			nullableString(msg.UserID),
			nullableString(msg.UserLogo),
			nullableText(msg.Body),
			nullableString(msg.Donation),
			nullableString(msg.Color),
			string(msg.Type),
			boolToInt(msg.Pinned),
			msg.Badges,
		)
		if err != nil {
			return 0, fmt.Errorf("insert message %q: %w", msg.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}

// Count returns the total number of stored messages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM chat_messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// CountByType returns message counts grouped by message_type.
func (s *Store) CountByType(ctx context.Context) (map[chat.MessageType]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT message_type, COUNT(1) FROM chat_messages GROUP BY message_type`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[chat.MessageType]int64)
	for rows.Next() {
		var messageType string
		var count int64
		if err := rows.Scan(&messageType, &count); err != nil {
			return nil, err
		}
		counts[chat.MessageType(messageType)] = count
	}
	return counts, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// nullableText keeps the absent/empty distinction: a nil body is NULL, an
// empty body is stored as the empty string.
func nullableText(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
