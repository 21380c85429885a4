// Package consumer turns audit records read from Kafka back into events and
// writes them to a durable store.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"domainpanel/internal/platform/kafka"
	audit "domainpanel/pkg/platform/audit"
)

// Materializer appends every decoded event to a store. Malformed records are
// logged and skipped so they cannot block the partition.
type Materializer struct {
	store  audit.Store
	logger *slog.Logger
}

// NewMaterializer creates a handler writing into store.
func NewMaterializer(store audit.Store, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{store: store, logger: logger}
}

// Handle decodes msg and appends it. Store errors are returned so the fetch
// is retried.
func (m *Materializer) Handle(ctx context.Context, msg *kafka.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		m.logger.ErrorContext(ctx, "malformed audit record",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if event.ID == "" {
		event.ID = string(msg.Key)
	}
	if event.Action == "" || event.Subject == "" {
		m.logger.ErrorContext(ctx, "audit record missing action or subject",
			"event_id", event.ID,
			"offset", msg.Offset,
		)
		return nil
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	if err := m.store.Append(ctx, event); err != nil {
		return fmt.Errorf("materialize audit event %s: %w", event.ID, err)
	}
	return nil
}
