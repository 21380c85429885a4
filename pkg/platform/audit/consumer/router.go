package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"domainpanel/internal/platform/kafka"
)

// Handler processes one audit record.
type Handler interface {
	Handle(ctx context.Context, msg *kafka.Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *kafka.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *kafka.Message) error {
	return f(ctx, msg)
}

// Router picks the handler of a record's topic. Records of unknown topics go
// to the fallback, or are skipped when there is none. Tombstones are always
// skipped.
type Router struct {
	byTopic  map[string]Handler
	fallback Handler
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger, fallback Handler) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{byTopic: map[string]Handler{}, fallback: fallback, logger: logger}
}

// Register routes topic to h, replacing any earlier handler.
func (r *Router) Register(topic string, h Handler) {
	r.byTopic[topic] = h
}

func (r *Router) Handle(ctx context.Context, msg *kafka.Message) error {
	if msg.Value == nil {
		return nil
	}
	h := r.byTopic[msg.Topic]
	if h == nil {
		h = r.fallback
	}
	if h == nil {
		r.logger.WarnContext(ctx, "audit record on unrouted topic skipped",
			"topic", msg.Topic,
			"offset", msg.Offset,
		)
		return nil
	}
	if err := h.Handle(ctx, msg); err != nil {
		return fmt.Errorf("%s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	return nil
}
