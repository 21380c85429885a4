// Package kafka publishes audit events to a Kafka topic. The consumer side
// lives in the audit consumer package.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	audit "domainpanel/pkg/platform/audit"
)

// Producer writes one keyed record.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// Sink is an audit.Store that serializes events onto the stream. The event
// ID is the record key; one is generated when missing.
type Sink struct {
	producer Producer
}

// NewSink wraps producer.
func NewSink(producer Producer) *Sink {
	return &Sink{producer: producer}
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.producer.Produce(ctx, []byte(event.ID), value); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
