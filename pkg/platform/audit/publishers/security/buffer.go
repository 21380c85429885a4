package security

import (
	"sync"

	audit "domainpanel/pkg/platform/audit"
)

// RingBuffer is a bounded, thread-safe queue of security events. When full
// the oldest event is dropped.
type RingBuffer struct {
	mu     sync.Mutex
	events []audit.Event
	head   int
	tail   int
	count  int

	dropped int64
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &RingBuffer{events: make([]audit.Event, capacity)}
}

// Enqueue adds an event, dropping the oldest if the buffer is full. It
// reports whether a drop happened.
func (b *RingBuffer) Enqueue(event audit.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := false
	if b.count == len(b.events) {
		b.tail = (b.tail + 1) % len(b.events)
		b.count--
		b.dropped++
		dropped = true
	}

	b.events[b.head] = event
	b.head = (b.head + 1) % len(b.events)
	b.count++
	return dropped
}

// DequeueBatch removes up to n events in FIFO order.
func (b *RingBuffer) DequeueBatch(n int) []audit.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 || n <= 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	out := make([]audit.Event, n)
	for i := range n {
		out[i] = b.events[b.tail]
		b.events[b.tail] = audit.Event{}
		b.tail = (b.tail + 1) % len(b.events)
	}
	b.count -= n
	return out
}

// Len returns the number of queued events.
func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns the total number of events dropped on overflow.
func (b *RingBuffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
