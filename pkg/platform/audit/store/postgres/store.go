package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "domainpanel/pkg/platform/audit"
	txcontext "domainpanel/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id          UUID PRIMARY KEY,
	category    TEXT NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL,
	action      TEXT NOT NULL,
	user_id     TEXT NOT NULL DEFAULT '',
	subject     TEXT NOT NULL DEFAULT '',
	domain_id   TEXT NOT NULL DEFAULT '',
	scenario    TEXT NOT NULL DEFAULT '',
	decision    TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT '',
	client_ip   TEXT NOT NULL DEFAULT '',
	browser     TEXT NOT NULL DEFAULT '',
	os          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject, timestamp DESC);
`

// Store implements audit.Store and audit.Reader on the audit_events table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts the event, assigning an id when it has none. Inserts are
// idempotent on id so a replayed Kafka message is written once.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("parse audit event id: %w", err)
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, action, user_id, subject, domain_id,
			scenario, decision, reason, request_id, client_ip, browser, os
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		eventID,
		string(event.Category),
		event.Timestamp,
		string(event.Action),
		event.UserID,
		event.Subject,
		event.DomainID,
		event.Scenario,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.Browser,
		event.OS,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, category, timestamp, action, user_id, subject, domain_id,
		   scenario, decision, reason, request_id, client_ip, browser, os
	FROM audit_events
`

// ListBySubject returns the events of one domain, newest first.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE subject = $1 ORDER BY timestamp DESC`, subject)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			event    audit.Event
			category string
			action   string
		)
		err := rows.Scan(
			&event.ID,
			&category,
			&event.Timestamp,
			&action,
			&event.UserID,
			&event.Subject,
			&event.DomainID,
			&event.Scenario,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.Browser,
			&event.OS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Action = audit.Action(action)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
