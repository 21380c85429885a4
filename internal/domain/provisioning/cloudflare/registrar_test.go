package cloudflare

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainpanel/internal/domain/provisioning"
	"domainpanel/pkg/platform/sentinel"
)

type fakeAPI struct {
	domains map[string]cloudflare.RegistrarDomain
	updates []cloudflare.RegistrarDomainConfiguration
	err     error
}

func (f *fakeAPI) RegistrarDomain(_ context.Context, _, name string) (cloudflare.RegistrarDomain, error) {
	if f.err != nil {
		return cloudflare.RegistrarDomain{}, f.err
	}
	d, ok := f.domains[name]
	if !ok {
		return cloudflare.RegistrarDomain{}, errors.New("domain not found in account")
	}
	return d, nil
}

func (f *fakeAPI) UpdateRegistrarDomain(_ context.Context, _, name string, cfg cloudflare.RegistrarDomainConfiguration) (cloudflare.RegistrarDomain, error) {
	f.updates = append(f.updates, cfg)
	d := f.domains[name]
	d.Locked = cfg.Locked
	return d, nil
}

func newRegistrar(api *fakeAPI) *Registrar {
	return New(api, "acct", slog.Default())
}

func TestGetInfo(t *testing.T) {
	expires := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{domains: map[string]cloudflare.RegistrarDomain{
		"example.com": {ID: "cf-1", Locked: true, ExpiresAt: expires, RegistryStatuses: "clientTransferProhibited,ok"},
	}}

	res, err := newRegistrar(api).Perform(context.Background(), provisioning.Call{
		Entity: "domain", Operation: "GetInfo", Payload: map[string]any{"domain": "Example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, "example.com", res["domain"])
	assert.Equal(t, true, res["is_secured"])
	assert.Equal(t, "2027-03-01T00:00:00Z", res["expires"])
	assert.Equal(t, []string{"clientTransferProhibited", "ok"}, res["statuses"])
}

func TestSetLock(t *testing.T) {
	api := &fakeAPI{domains: map[string]cloudflare.RegistrarDomain{"example.com": {}}}

	res, err := newRegistrar(api).Perform(context.Background(), provisioning.Call{
		Entity: "domain", Operation: "SetLock", Payload: map[string]any{"domain": "example.com", "enable": true},
	})

	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	assert.True(t, api.updates[0].Locked)
	assert.Equal(t, true, res["is_secured"])
}

func TestSetNSs(t *testing.T) {
	api := &fakeAPI{domains: map[string]cloudflare.RegistrarDomain{"example.com": {Locked: true}}}

	_, err := newRegistrar(api).Perform(context.Background(), provisioning.Call{
		Entity: "domain", Operation: "SetNSs",
		Payload: map[string]any{"domain": "example.com", "nameservers": []any{"ns1.example.net", "ns2.example.net"}},
	})

	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	assert.Equal(t, []string{"ns1.example.net", "ns2.example.net"}, api.updates[0].NameServers)
	assert.True(t, api.updates[0].Locked, "lock state is carried over")
}

func TestUnsupportedOperations(t *testing.T) {
	api := &fakeAPI{domains: map[string]cloudflare.RegistrarDomain{"example.com": {}}}
	r := newRegistrar(api)

	for _, call := range []provisioning.Call{
		{Entity: "domain", Operation: "SetNote", Payload: map[string]any{"domain": "example.com"}},
		{Entity: "domain", Operation: "Transfer", Batch: true},
		{Entity: "domain", Operation: "Transfer", Payload: map[string]any{"domain": "example.com", "password": "secret"}},
		{Entity: "domain", Operation: "CheckTransfer", Payload: map[string]any{"domain": "example.com", "password": "secret"}},
		{Entity: "client", Operation: "CheckPincode"},
	} {
		_, err := r.Perform(context.Background(), call)
		var re *provisioning.RemoteError
		require.True(t, errors.As(err, &re), call.Command())
		assert.Equal(t, provisioning.MessageUnsupported, re.Message)
	}
	assert.Empty(t, api.updates)
}

func TestAPIRefusalIsRemote(t *testing.T) {
	r := newRegistrar(&fakeAPI{domains: map[string]cloudflare.RegistrarDomain{}})

	_, err := r.Perform(context.Background(), provisioning.Call{
		Entity: "domain", Operation: "GetInfo", Payload: map[string]any{"domain": "example.com"},
	})

	require.True(t, provisioning.IsRemote(err))
	assert.Contains(t, err.Error(), "domain not found in account")
}

func TestTimeoutIsUnavailable(t *testing.T) {
	r := newRegistrar(&fakeAPI{err: context.DeadlineExceeded})

	_, err := r.Perform(context.Background(), provisioning.Call{
		Entity: "domain", Operation: "SetLock", Payload: map[string]any{"domain": "example.com", "enable": true},
	})

	assert.False(t, provisioning.IsRemote(err))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestBuildRequiresCredentials(t *testing.T) {
	_, err := provisioning.Build(Name, provisioning.Options{})
	assert.Error(t, err)
}
