package hiapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainpanel/internal/domain/provisioning"
	"domainpanel/pkg/platform/sentinel"
	"domainpanel/pkg/requestcontext"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", "secret-token", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestPerformSendsCommand(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":"17","domain":"example.com"}`))
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	res, err := c.Perform(ctx, provisioning.Call{
		Entity:    "domain",
		Operation: "SetNote",
		Payload:   map[string]any{"id": 17, "note": "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/domainSetNote", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, map[string]any{"id": float64(17), "note": "hello"}, gotBody)
	assert.Equal(t, "example.com", res["domain"])
}

func TestPerformBatchCommand(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Perform(context.Background(), provisioning.Call{Entity: "domain", Operation: "Transfer", Batch: true})

	require.NoError(t, err)
	assert.Equal(t, "/domainsTransfer", gotPath)
}

func TestPerformRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"_error":"wrong authorization code"}`))
	})

	_, err := c.Perform(context.Background(), provisioning.Call{Entity: "domain", Operation: "CheckTransfer"})

	var re *provisioning.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "domainCheckTransfer", re.Command)
	assert.Equal(t, "wrong authorization code", re.RemoteMessage())
}

func TestPerformClientErrorWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Perform(context.Background(), provisioning.Call{Entity: "domain", Operation: "Sync"})

	require.True(t, provisioning.IsRemote(err))
	assert.Contains(t, err.Error(), "Forbidden")
}

func TestPerformServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Perform(context.Background(), provisioning.Call{Entity: "domain", Operation: "Sync"})

	require.Error(t, err)
	assert.False(t, provisioning.IsRemote(err))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestPerformInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Perform(context.Background(), provisioning.Call{Entity: "domain", Operation: "Sync"})

	assert.ErrorContains(t, err, "decoding domainSync reply")
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("", "", slog.Default())
	assert.Error(t, err)
}

func TestRegisteredBuilder(t *testing.T) {
	p, err := provisioning.Build(Name, provisioning.Options{BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, p)
}
