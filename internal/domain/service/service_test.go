package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/domain/provisioning/mocks"
	"domainpanel/internal/domain/store"
	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/sentinel"
	"domainpanel/pkg/platform/validation"
	"domainpanel/pkg/requestcontext"
)

// command matches a provisioning call by its rendered command name.
type command string

func (c command) Matches(x any) bool {
	call, ok := x.(provisioning.Call)
	return ok && call.Command() == string(c)
}

func (c command) String() string { return "call " + string(c) }

type recordingAuditor struct {
	events []audit.Event
	err    error
}

func (a *recordingAuditor) Record(_ context.Context, e audit.Event) error {
	a.events = append(a.events, e)
	return a.err
}

func (a *recordingAuditor) actions() []audit.Action {
	out := make([]audit.Action, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type mapCache struct {
	checks      map[string]*models.CheckResult
	zones       []string
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{checks: map[string]*models.CheckResult{}}
}

func (c *mapCache) GetCheck(_ context.Context, fqdn string) (*models.CheckResult, error) {
	if r, ok := c.checks[fqdn]; ok {
		return r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (c *mapCache) SetCheck(_ context.Context, res *models.CheckResult) error {
	c.checks[res.FQDN] = res
	return nil
}

func (c *mapCache) GetZones(context.Context) ([]string, error) {
	if c.zones == nil {
		return nil, sentinel.ErrNotFound
	}
	return c.zones, nil
}

func (c *mapCache) SetZones(_ context.Context, zones []string) error {
	c.zones = zones
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, fqdn string) error {
	c.invalidated = append(c.invalidated, fqdn)
	delete(c.checks, fqdn)
	return nil
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	performer *mocks.MockPerformer
	store     *store.InMemoryStore
	cache     *mapCache
	auditor   *recordingAuditor
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithIdentity(context.Background(), requestcontext.User{ID: "42"})
	s.ctrl = gomock.NewController(s.T())
	s.performer = mocks.NewMockPerformer(s.ctrl)
	s.store = store.NewInMemoryStore()
	s.cache = newMapCache()
	s.auditor = &recordingAuditor{}
	s.service = New(s.performer, s.store, WithCache(s.cache), WithAuditor(s.auditor))

	s.Require().NoError(s.store.Upsert(context.Background(), &models.Domain{
		ID:       7,
		Domain:   "example.com",
		Zone:     "com",
		ClientID: 42,
		State:    models.StateOK,
	}))
}

func (s *ServiceSuite) stored(id int64) *models.Domain {
	d, err := s.store.FindByID(context.Background(), id)
	s.Require().NoError(err)
	return d
}

func (s *ServiceSuite) TestSetNote() {
	s.Run("forwards the form and mirrors the note", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainSetNote")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.Equal(int64(7), call.Payload["id"])
				s.Equal("renew in march", call.Payload["note"])
				s.NotContains(call.Payload, "client_secret")
				return provisioning.Result{"id": 7}, nil
			})

		d, err := s.service.SetNote(s.ctx, map[string]any{
			"id":            "7",
			"note":          "renew in march",
			"client_secret": "x",
		})

		s.Require().NoError(err)
		s.Equal("renew in march", d.Note)
		s.Equal("renew in march", s.stored(7).Note)
		s.Equal([]audit.Action{audit.ActionDomainNoteChanged}, s.auditor.actions())
		s.Equal("example.com", s.auditor.events[0].Subject)
	})
}

func (s *ServiceSuite) TestValidationFailureSkipsRemoteCall() {
	_, err := s.service.SetNote(s.ctx, map[string]any{"note": "no id"})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	fields, ok := validation.Fields(err)
	s.Require().True(ok)
	s.True(fields.Has("id"))
	s.Empty(s.auditor.events)
}

func (s *ServiceSuite) TestRemoteFailures() {
	s.Run("refusal carries the remote message", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainSetLock")).
			Return(nil, &provisioning.RemoteError{Command: "domainSetLock", Message: "object is frozen"})

		_, err := s.service.SetLock(s.ctx, map[string]any{"id": 7, "enable": true})

		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Equal("object is frozen", de.Message)
		s.False(s.stored(7).IsSecured)
	})

	s.Run("unreachable API is unavailable", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainSync")).
			Return(nil, fmt.Errorf("hiapi: %w", sentinel.ErrUnavailable))

		_, err := s.service.Sync(s.ctx, map[string]any{"id": 7})

		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestSetNSs() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainSetNSs")).
		DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
			s.Equal([]string{"ns1.example.net", "ns2.example.net"}, call.Payload["nameservers"])
			return nil, nil
		})

	d, err := s.service.SetNSs(s.ctx, map[string]any{
		"id":          7,
		"nameservers": "NS1.example.net, ns2.example.net;ns1.example.net",
	})

	s.Require().NoError(err)
	s.Equal([]string{"ns1.example.net", "ns2.example.net"}, d.Nameservers)
}

func (s *ServiceSuite) TestGetRefreshesProjection() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainGetInfo")).
		Return(provisioning.Result{"id": 7, "domain": "example.com", "state": "expired", "note": "from api"}, nil)

	d, err := s.service.Get(s.ctx, map[string]any{"id": 7})

	s.Require().NoError(err)
	s.Equal(models.StateExpired, d.State)
	s.Equal("from api", s.stored(7).Note)
	s.Equal(int64(42), s.stored(7).ClientID)
}

func (s *ServiceSuite) TestPush() {
	s.Run("owner pushes", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainPush")).Return(nil, nil)

		_, err := s.service.Push(s.ctx, map[string]any{"id": 7, "receiver": "other"})

		s.Require().NoError(err)
		s.Contains(s.auditor.actions(), audit.ActionDomainPushed)
	})

	s.Run("pincode is verified for the acting user", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("clientCheckPincode")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.Equal("42", call.Payload["id"])
				return nil, &provisioning.RemoteError{Command: "clientCheckPincode", Message: "wrong"}
			})

		_, err := s.service.Push(s.ctx, map[string]any{"id": 7, "receiver": "other", "pincode": "0000"})

		fields, ok := validation.Fields(err)
		s.Require().True(ok)
		s.Equal("Wrong pincode", fields.First("pincode"))
		s.Contains(s.auditor.actions(), audit.ActionPincodeRejected)
	})

	s.Run("someone else's domain is refused", func() {
		s.Require().NoError(s.store.Upsert(context.Background(), &models.Domain{ID: 8, Domain: "other.org", ClientID: 99}))

		_, err := s.service.Push(s.ctx, map[string]any{"id": 8, "receiver": "me"})

		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Contains(s.auditor.actions(), audit.ActionOwnershipDenied)
	})

	s.Run("unknown domain", func() {
		_, err := s.service.Push(s.ctx, map[string]any{"id": 404, "receiver": "me"})

		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestRenew() {
	s.Run("renewable state", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainRenew")).Return(nil, nil)

		_, err := s.service.Renew(s.ctx, map[string]any{"id": 7})

		s.Require().NoError(err)
	})

	s.Run("incoming transfer cannot be renewed", func() {
		s.Require().NoError(s.store.Upsert(context.Background(), &models.Domain{
			ID: 9, Domain: "moving.com", ClientID: 42, State: models.StateIncoming,
		}))

		_, err := s.service.Renew(s.ctx, map[string]any{"id": 9})

		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("id or domain is required", func() {
		_, err := s.service.Renew(s.ctx, map[string]any{})

		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestTransfer() {
	s.Run("single domain checks the code first", func() {
		gomock.InOrder(
			s.performer.EXPECT().Perform(gomock.Any(), command("domainCheckTransfer")).Return(nil, nil),
			s.performer.EXPECT().Perform(gomock.Any(), command("domainTransfer")).Return(provisioning.Result{}, nil),
		)

		res, err := s.service.Transfer(s.ctx, map[string]any{"domain": " new.com ", "password": "secret"})

		s.Require().NoError(err)
		s.Equal([]string{"new.com"}, res.Domains)
		s.Contains(s.cache.invalidated, "new.com")
		s.Contains(s.auditor.actions(), audit.ActionDomainTransferRequested)
	})

	s.Run("wrong code is a field error", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainCheckTransfer")).
			Return(nil, &provisioning.RemoteError{Command: "domainCheckTransfer", Message: "bad password"})

		_, err := s.service.Transfer(s.ctx, map[string]any{"domain": "new.com", "password": "nope"})

		fields, ok := validation.Fields(err)
		s.Require().True(ok)
		s.Equal("Wrong code: bad password", fields.First("password"))
		s.Contains(s.auditor.actions(), audit.ActionTransferCodeRejected)
	})

	s.Run("batch reports per domain", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainsTransfer")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.Len(call.Payload, 2)
				return provisioning.Result{
					"a.com": map[string]any{"id": 1},
					"b.com": map[string]any{"_error": "object is locked"},
				}, nil
			})

		res, err := s.service.Transfer(s.ctx, map[string]any{
			"domains": "a.com secret1\nb.com;secret2\n%%%",
		})

		s.Require().NoError(err)
		s.Equal([]string{"a.com"}, res.Domains)
		s.Equal("Wrong code: object is locked", res.Errors["b.com"])
		s.Equal("empty code", res.Errors["%%%"])
	})

	s.Run("batch without pairs makes no call", func() {
		res, err := s.service.Transfer(s.ctx, map[string]any{"domains": "garbage"})

		s.Require().NoError(err)
		s.Empty(res.Domains)
		s.Len(res.Errors, 1)
	})

	s.Run("blank batch is required", func() {
		_, err := s.service.Transfer(s.ctx, map[string]any{"domains": "  \n ", "domain": " ", "password": " "})

		fields, ok := validation.Fields(err)
		s.Require().True(ok)
		s.True(fields.Has("domains"))
		s.True(fields.Has("domain"))
		s.True(fields.Has("password"))
	})
}

func (s *ServiceSuite) TestTransferCheckUnreachable() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainCheckTransfer")).
		Return(nil, fmt.Errorf("hiapi: %w", sentinel.ErrUnavailable))

	_, err := s.service.Transfer(s.ctx, map[string]any{"domain": "new.com", "password": "secret"})

	fields, ok := validation.Fields(err)
	s.Require().True(ok)
	s.Equal("The check could not be completed, try again later", fields.First("password"))
	s.NotContains(s.auditor.actions(), audit.ActionTransferCodeRejected)
}

func (s *ServiceSuite) TestPushBlankReceiver() {
	_, err := s.service.Push(s.ctx, map[string]any{"id": 7, "receiver": "   "})

	fields, ok := validation.Fields(err)
	s.Require().True(ok)
	s.True(fields.Has("receiver"))
}

func (s *ServiceSuite) TestCheckDomain() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainsCheck")).
		DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
			s.Equal([]string{"example.net"}, call.Payload["domains"])
			return provisioning.Result{
				"example.net": map[string]any{"avail": 1, "price": 12.5, "currency": "usd"},
			}, nil
		}).Times(1)

	first, err := s.service.CheckDomain(s.ctx, map[string]any{"domain": "Example.com", "zone": " net "})
	s.Require().NoError(err)
	s.True(first.Available)
	s.Equal("example.net", first.FQDN)
	s.Require().NotNil(first.Resource)
	s.Equal(12.5, first.Resource.Price)

	second, err := s.service.CheckDomain(s.ctx, map[string]any{"domain": "example", "zone": "net"})
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *ServiceSuite) TestCheckDomainDefaultsZone() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainsCheck")).
		Return(provisioning.Result{"example.com": false}, nil)

	res, err := s.service.CheckDomain(s.ctx, map[string]any{"domain": "example"})

	s.Require().NoError(err)
	s.Equal("com", res.Zone)
	s.False(res.Available)
}

func (s *ServiceSuite) TestGetZonesIsCached() {
	s.performer.EXPECT().Perform(gomock.Any(), command("auxGetZones")).
		Return(provisioning.Result{"org": 2, "COM": 1}, nil).Times(1)

	zones, err := s.service.GetZones(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"com", "org"}, zones)

	zones, err = s.service.GetZones(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"com", "org"}, zones)
}

func (s *ServiceSuite) TestList() {
	s.Run("searches and sorts", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainsSearch")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.Equal(int64(42), call.Payload["client_id"])
				return provisioning.Result{
					"2": map[string]any{"id": 2, "domain": "b.com", "client_id": 42},
					"1": map[string]any{"id": 1, "domain": "a.com", "client_id": 42},
				}, nil
			})

		res, err := s.service.List(s.ctx, ListQuery{})

		s.Require().NoError(err)
		s.Require().Len(res.Domains, 2)
		s.Equal("a.com", res.Domains[0].Domain)
		s.False(res.Stale)
		s.Equal("b.com", s.stored(2).Domain)
	})

	s.Run("reads panel date formats", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainsSearch")).
			Return(provisioning.Result{
				"1": map[string]any{"id": 1, "domain": "a.com", "expires": "2025-03-01 00:00:00", "note": "kept"},
				"2": map[string]any{"id": 2, "domain": "b.com", "expires": "2025-03-01T00:00:00Z"},
			}, nil)

		res, err := s.service.List(s.ctx, ListQuery{})

		s.Require().NoError(err)
		s.Require().Len(res.Domains, 2)
		want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		for _, d := range res.Domains {
			s.Require().NotNil(d.Expires, d.Domain)
			s.True(want.Equal(*d.Expires), d.Domain)
		}
		s.Equal("kept", s.stored(1).Note)
	})

	s.Run("falls back to the projection", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainsSearch")).
			Return(nil, sentinel.ErrUnavailable)

		res, err := s.service.List(s.ctx, ListQuery{Sort: "id", Desc: true})

		s.Require().NoError(err)
		s.True(res.Stale)
		s.Require().NotEmpty(res.Domains)
		s.Equal(int64(7), res.Domains[0].ID)
	})

	s.Run("rejects unknown sort and state", func() {
		_, err := s.service.List(s.ctx, ListQuery{Sort: "password", Filter: map[string]any{"state": "gone"}})

		fields, ok := validation.Fields(err)
		s.Require().True(ok)
		s.True(fields.Has("sort"))
		s.True(fields.Has("state"))
	})
}

func (s *ServiceSuite) TestBulkSetContacts() {
	s.performer.EXPECT().Perform(gomock.Any(), command("domainsSetContacts")).
		DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
			s.Len(call.Payload, 2)
			return provisioning.Result{"8": map[string]any{"_error": "object is frozen"}}, nil
		})

	updated, err := s.service.BulkSetContacts(s.ctx, []int64{7, 8}, map[string]any{
		"registrant": 1, "admin": 2, "tech": 3, "billing": 4,
	})

	s.Require().NoError(err)
	s.Require().Len(updated, 1)
	s.Equal(int64(4), s.stored(7).Billing)
	s.Equal([]audit.Action{audit.ActionDomainContactsChanged}, s.auditor.actions())
}

func (s *ServiceSuite) TestAuditFailureDoesNotUndoOperation() {
	s.auditor.err = fmt.Errorf("compliance store down")
	s.performer.EXPECT().Perform(gomock.Any(), command("domainEnableFreeze")).Return(nil, nil)

	d, err := s.service.EnableFreeze(s.ctx, map[string]any{"id": 7})

	s.Require().NoError(err)
	s.True(d.IsFreezed())
}

func (s *ServiceSuite) TestSingleDomainOperations() {
	tests := []struct {
		name    string
		run     func(ctx context.Context, data map[string]any) (*models.Domain, error)
		command string
		data    map[string]any
		action  audit.Action
		check   func(d *models.Domain)
	}{
		{
			name: "contacts", run: s.service.SetContacts, command: "domainSetContacts",
			data:   map[string]any{"id": 7, "registrant": 11, "admin": 12, "tech": "13", "billing": 14.0},
			action: audit.ActionDomainContactsChanged,
			check: func(d *models.Domain) {
				s.Equal(models.Contacts{Registrant: 11, Admin: 12, Tech: 13, Billing: 14}, d.Contacts)
			},
		},
		{
			name: "lock", run: s.service.SetLock, command: "domainSetLock",
			data: map[string]any{"id": 7, "enable": true}, action: audit.ActionDomainLockChanged,
			check: func(d *models.Domain) { s.True(d.IsSecured) },
		},
		{
			name: "whois protection", run: s.service.SetWhoisProtect, command: "domainSetWhoisProtect",
			data: map[string]any{"id": 7, "enable": "1"}, action: audit.ActionDomainWhoisProtectChange,
			check: func(d *models.Domain) { s.True(d.WhoisProtected) },
		},
		{
			name: "autorenewal", run: s.service.SetAutorenewal, command: "domainSetAutorenewal",
			data: map[string]any{"id": 7, "autorenewal": 1.0}, action: audit.ActionDomainAutorenewalChanged,
			check: func(d *models.Domain) { s.True(d.Autorenewal) },
		},
		{
			name: "sync", run: s.service.Sync, command: "domainSync",
			data: map[string]any{"id": 7}, action: audit.ActionDomainSynced,
		},
		{
			name: "password", run: s.service.RegenPassword, command: "domainRegenPassword",
			data: map[string]any{"id": 7}, action: audit.ActionDomainPasswordRegenerate,
		},
		{
			name: "freeze", run: s.service.EnableFreeze, command: "domainEnableFreeze",
			data: map[string]any{"id": 7}, action: audit.ActionDomainFreezeEnabled,
			check: func(d *models.Domain) { s.True(d.Freezed) },
		},
		{
			name: "unfreeze", run: s.service.DisableFreeze, command: "domainDisableFreeze",
			data: map[string]any{"id": 7}, action: audit.ActionDomainFreezeDisabled,
			check: func(d *models.Domain) { s.False(d.Freezed) },
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.auditor.events = nil
			s.performer.EXPECT().Perform(gomock.Any(), command(tt.command)).
				Return(provisioning.Result{"id": 7}, nil)

			d, err := tt.run(s.ctx, tt.data)

			s.Require().NoError(err)
			s.Require().NotNil(d)
			s.Equal("example.com", d.Domain)
			if tt.check != nil {
				tt.check(d)
				tt.check(s.stored(7))
			}
			s.Equal([]audit.Action{tt.action}, s.auditor.actions())
		})
	}
}

func (s *ServiceSuite) TestSingleDomainOperationsRequireID() {
	_, err := s.service.Sync(s.ctx, map[string]any{})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCallsCarryStoredName() {
	s.Run("mutation by id", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainSetLock")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.Equal("example.com", call.Payload["domain"])
				return nil, nil
			})

		_, err := s.service.SetLock(s.ctx, map[string]any{"id": 7, "enable": true})

		s.Require().NoError(err)
	})

	s.Run("read of an unknown id", func() {
		s.performer.EXPECT().Perform(gomock.Any(), command("domainGetInfo")).
			DoAndReturn(func(_ context.Context, call provisioning.Call) (provisioning.Result, error) {
				s.NotContains(call.Payload, "domain")
				return provisioning.Result{"id": 12, "domain": "fresh.com"}, nil
			})

		d, err := s.service.Get(s.ctx, map[string]any{"id": 12})

		s.Require().NoError(err)
		s.Equal("fresh.com", d.Domain)
	})
}

func (s *ServiceSuite) TestMutationsRequireManager() {
	s.Require().NoError(s.store.Upsert(context.Background(), &models.Domain{
		ID: 8, Domain: "other.org", ClientID: 99, State: models.StateOK,
	}))

	s.Run("another client is refused", func() {
		for _, run := range []func(context.Context, map[string]any) (*models.Domain, error){
			s.service.SetNote, s.service.SetLock, s.service.RegenPassword,
			s.service.EnableFreeze, s.service.Sync, s.service.Renew,
		} {
			s.auditor.events = nil

			_, err := run(s.ctx, map[string]any{"id": 8, "note": "x", "enable": true})

			s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
			s.Equal([]audit.Action{audit.ActionOwnershipDenied}, s.auditor.actions())
		}
	})

	s.Run("reseller manages its clients", func() {
		reseller := requestcontext.WithIdentity(context.Background(), requestcontext.User{
			ID: "5", Permissions: []string{requestcontext.PermissionResell},
		})
		s.performer.EXPECT().Perform(gomock.Any(), command("domainEnableFreeze")).Return(nil, nil)

		d, err := s.service.EnableFreeze(reseller, map[string]any{"id": 8})

		s.Require().NoError(err)
		s.True(d.Freezed)
	})

	s.Run("push stays with the owner", func() {
		reseller := requestcontext.WithIdentity(context.Background(), requestcontext.User{
			ID: "5", Permissions: []string{requestcontext.PermissionResell},
		})

		_, err := s.service.Push(reseller, map[string]any{"id": 8, "receiver": "me"})

		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
