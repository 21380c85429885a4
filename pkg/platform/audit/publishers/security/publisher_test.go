package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/audit/store/memory"
)

func TestRingBufferDropsOldest(t *testing.T) {
	b := NewRingBuffer(2)

	assert.False(t, b.Enqueue(audit.Event{Subject: "a.com"}))
	assert.False(t, b.Enqueue(audit.Event{Subject: "b.com"}))
	assert.True(t, b.Enqueue(audit.Event{Subject: "c.com"}))

	batch := b.DequeueBatch(10)
	require.Len(t, batch, 2)
	assert.Equal(t, "b.com", batch[0].Subject)
	assert.Equal(t, "c.com", batch[1].Subject)
	assert.Equal(t, int64(1), b.Dropped())
	assert.Zero(t, b.Len())
	assert.Nil(t, b.DequeueBatch(1))
}

func TestFlushWritesQueuedEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := New(store, WithBatchSize(1))

	p.Emit(context.Background(), audit.Event{Action: audit.ActionDomainLockChanged, Subject: "example.com"})
	p.Emit(context.Background(), audit.Event{Action: audit.ActionPincodeRejected, Subject: "example.com"})
	p.Flush(context.Background())

	events, err := store.ListBySubject(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, audit.CategorySecurity, e.Category)
	}
}

type failingStore struct{ calls int }

func (s *failingStore) Append(context.Context, audit.Event) error {
	s.calls++
	return errors.New("unavailable")
}

func TestFlushContinuesPastFailures(t *testing.T) {
	store := &failingStore{}
	p := New(store)

	p.Emit(context.Background(), audit.Event{Action: audit.ActionDomainLockChanged, Subject: "a.com"})
	p.Emit(context.Background(), audit.Event{Action: audit.ActionDomainLockChanged, Subject: "b.com"})
	p.Flush(context.Background())

	assert.Equal(t, 2, store.calls)
	assert.Zero(t, p.buffer.Len())
}

func TestRunDrainsOnShutdown(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := New(store, WithFlushInterval(time.Hour))
	p.Emit(context.Background(), audit.Event{Action: audit.ActionDomainFreezeEnabled, Subject: "example.com"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
