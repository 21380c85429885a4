package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainpanel/pkg/requestcontext"
)

func TestInMemoryStoreSlidingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		now = now.Add(10 * time.Second)
	}

	res, err := store.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter)

	now = now.Add(31 * time.Second)
	res, err = store.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "the oldest request left the window")

	res, err = store.Allow(ctx, "other", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining, "keys are independent")
}

func TestInMemoryStoreEvictsIdleKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"user:1", "user:2", "ip:10.0.0.1"} {
		_, err := store.Allow(ctx, key, 5, time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(2 * time.Minute)
	_, err := store.Allow(ctx, "user:3", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "only the fresh key is kept")

	now = now.Add(10 * time.Second)
	_, err = store.Allow(ctx, "user:4", 5, time.Hour)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = store.Allow(ctx, "user:5", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "a longer window outlives the sweep")
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		method, path string
		want         EndpointClass
	}{
		{http.MethodPost, "/domains/check", ClassCheck},
		{http.MethodPost, "/domains/transfer/", ClassTransfer},
		{http.MethodGet, "/domains", ClassRead},
		{http.MethodPost, "/domains/7/note", ClassWrite},
		{http.MethodDelete, "/domains/7/freeze", ClassWrite},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassOf(httptest.NewRequest(tt.method, tt.path, nil)))
		})
	}
}

func TestLimiterDisabledClass(t *testing.T) {
	limiter := NewLimiter(NewInMemoryStore(), map[EndpointClass]Limit{ClassRead: {}})

	for range 500 {
		res, err := limiter.Check(context.Background(), "ip:1.2.3.4", ClassRead)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, errors.New("redis down")
}

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("refuses over the limit per user", func(t *testing.T) {
		limiter := NewLimiter(NewInMemoryStore(), map[EndpointClass]Limit{
			ClassTransfer: {Requests: 1, Window: time.Minute},
		})
		h := Middleware(limiter, nil, logger)(ok)
		send := func(userID string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/domains/transfer", nil)
			req = req.WithContext(requestcontext.WithIdentity(req.Context(), requestcontext.User{ID: userID}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			return rr
		}

		first := send("42")
		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		second := send("42")
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "rate_limit_exceeded")

		assert.Equal(t, http.StatusNoContent, send("43").Code)
	})

	t.Run("lets requests through when the store fails", func(t *testing.T) {
		h := Middleware(NewLimiter(failingStore{}, nil), nil, logger)(ok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/domains", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
