package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"domainpanel/internal/auth"
	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/domain/provisioning/mocks"
	"domainpanel/internal/domain/service"
	"domainpanel/internal/domain/store"
	"domainpanel/internal/domain/view"
)

func runCmd(t *testing.T, performer provisioning.Performer, stdin string, args ...string) (string, error) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root := newRootCmdWith(&app{
		logger: logger,
		newService: func(*app) (*service.Service, error) {
			return service.New(performer, store.NewInMemoryStore(), service.WithLogger(logger)), nil
		},
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestZonesCmd(t *testing.T) {
	performer := mocks.NewMockPerformer(gomock.NewController(t))
	performer.EXPECT().Perform(gomock.Any(), gomock.Any()).
		Return(provisioning.Result{"net": 1, "com": 1}, nil)

	out, err := runCmd(t, performer, "", "zones")

	require.NoError(t, err)
	assert.Equal(t, "com\nnet\n", out)
}

func TestCheckCmd(t *testing.T) {
	performer := mocks.NewMockPerformer(gomock.NewController(t))
	performer.EXPECT().Perform(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
			fqdn := call.Payload["domains"].([]string)[0]
			return provisioning.Result{fqdn: fqdn == "example.net"}, nil
		}).Times(2)

	out, err := runCmd(t, performer, "", "check", "example.com", "--zones", "com,net")

	require.NoError(t, err)
	var lines []view.CheckLine
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 2)
	assert.Equal(t, view.CheckUnavailable, lines[0].State)
	assert.Contains(t, lines[0].Classes, "popular")
	assert.Equal(t, view.CheckAvailable, lines[1].State)
}

func TestTransferCmd(t *testing.T) {
	t.Run("requires a source", func(t *testing.T) {
		_, err := runCmd(t, nil, "", "transfer")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--domain or --file")
	})

	t.Run("reads the batch from stdin", func(t *testing.T) {
		performer := mocks.NewMockPerformer(gomock.NewController(t))

		out, err := runCmd(t, performer, "%%%\n", "transfer", "--file", "-")

		require.NoError(t, err)
		assert.Contains(t, out, `"%%%": "empty code"`)
	})
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "cli-test-key")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")

	out, err := runCmd(t, nil, "", "token", "--user", "42", "--login", "client42", "--perm", "support")
	require.NoError(t, err)

	user, err := auth.NewTokenService("cli-test-key", "domainpanel", "domainpanel-api").
		ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, []string{"support"}, user.Permissions)

	_, err = runCmd(t, nil, "", "token")
	assert.Error(t, err)
}
