package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"railhook/internal/webhook"
	txcontext "railhook/pkg/platform/tx"
)

// PostgresStore persists entries in the webhook_event_log table (see
// migrations/001_webhook_event_log.sql).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed event log store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer lets a caller that opened a transaction (via pkg/platform/tx) have
// the append ride along with its own writes.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO webhook_event_log (
			authentication_code, entity_type, entity_id, event_name,
			was_processed, skip_reason, payload, provider_timestamp,
			client_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.AuthenticationCode,
		entry.EntityType,
		entry.EntityID,
		string(entry.EventName),
		entry.WasProcessed,
		entry.SkipReason,
		entry.Payload,
		entry.ProviderTimestamp,
		entry.ClientID,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert event log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) LastProcessedEvent(ctx context.Context, authenticationCode string) (webhook.EventName, error) {
	query := `
		SELECT event_name
		FROM webhook_event_log
		WHERE authentication_code = $1 AND was_processed = true
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var eventName string
	err := s.db.QueryRowContext(ctx, query, authenticationCode).Scan(&eventName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last processed event: %w", err)
	}
	return webhook.EventName(eventName), nil
}

func (s *PostgresStore) WasEventProcessed(ctx context.Context, authenticationCode string, event webhook.EventName) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM webhook_event_log
			WHERE authentication_code = $1 AND event_name = $2 AND was_processed = true
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, authenticationCode, string(event)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query event processed: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByClient(ctx context.Context, clientID, authenticationCode string) ([]Entry, error) {
	query := `
		SELECT id, authentication_code, entity_type, entity_id, event_name,
		       was_processed, skip_reason, payload, provider_timestamp,
		       client_id, created_at
		FROM webhook_event_log
		WHERE client_id = $1
		  AND ($2 = '' OR authentication_code = $2)
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, clientID, authenticationCode)
	if err != nil {
		return nil, fmt.Errorf("query event log entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM webhook_event_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge event log: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge event log rows affected: %w", err)
	}
	return deleted, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			eventName string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.AuthenticationCode,
			&entry.EntityType,
			&entry.EntityID,
			&eventName,
			&entry.WasProcessed,
			&entry.SkipReason,
			&entry.Payload,
			&entry.ProviderTimestamp,
			&entry.ClientID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event log entry: %w", err)
		}
		entry.EventName = webhook.EventName(eventName)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event log entries: %w", err)
	}
	return entries, nil
}
