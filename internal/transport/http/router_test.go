package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	auditapi "domainpanel/internal/audit"
	"domainpanel/internal/auth"
	"domainpanel/internal/domain/catalog"
	domainapi "domainpanel/internal/domain/handler"
	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/domain/provisioning/mocks"
	"domainpanel/internal/domain/service"
	"domainpanel/internal/domain/store"
	"domainpanel/internal/ratelimit"
	"domainpanel/pkg/platform/audit/store/memory"
	"domainpanel/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	performer *mocks.MockPerformer
	tokens    *auth.TokenService
	probeErr  error
	router    http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.performer = mocks.NewMockPerformer(gomock.NewController(s.T()))
	s.tokens = auth.NewTokenService("test-key", "domainpanel", "panel")
	s.probeErr = nil

	svc := service.New(s.performer, store.NewInMemoryStore(), service.WithLogger(logger))
	limiter := ratelimit.NewLimiter(ratelimit.NewInMemoryStore(), map[ratelimit.EndpointClass]ratelimit.Limit{
		ratelimit.ClassRead: {Requests: 1, Window: time.Minute},
	})
	s.router = NewRouter(Deps{
		Domains:    domainapi.New(svc, catalog.Default(), logger),
		Audit:      auditapi.NewHandler(memory.NewInMemoryStore(), logger),
		RateLimit:  ratelimit.Middleware(limiter, nil, logger),
		Tokens:     s.tokens,
		AdminToken: "admin-secret",
		Probes: map[string]Probe{
			"postgres": func(context.Context) error { return s.probeErr },
		},
		Logger: logger,
	})
}

func (s *RouterSuite) TestHealthz() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"status":"ok","checks":{"postgres":"ok"}}`, rr.Body.String())

	s.probeErr = errors.New("connection refused")
	rr = testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	s.NotContains(rr.Body.String(), "connection refused")
}

func (s *RouterSuite) TestDomainsRequireToken() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/zones", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestDomainsWithToken() {
	s.performer.EXPECT().Perform(gomock.Any(), gomock.Any()).
		Return(provisioning.Result{"com": 1}, nil)
	token, err := s.tokens.GenerateAccessToken(testutil.Client("42"), time.Hour)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/zones", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"zones":["com"]`)
}

func (s *RouterSuite) TestAdminRequiresToken() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/admin/audit", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	req.Header.Set("X-Admin-Token", "admin-secret")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestMetrics() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestDomainsRateLimited() {
	s.performer.EXPECT().Perform(gomock.Any(), gomock.Any()).
		Return(provisioning.Result{"com": 1}, nil).Times(1)
	token, err := s.tokens.GenerateAccessToken(testutil.Client("42"), time.Hour)
	s.Require().NoError(err)

	zones := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/zones", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return testutil.DoRequest(s.router, req)
	}

	testutil.AssertStatus(s.T(), zones(), http.StatusOK)
	rr := zones()
	testutil.AssertStatusAndError(s.T(), rr, http.StatusTooManyRequests, "rate_limit_exceeded")
	s.NotEmpty(rr.Header().Get("Retry-After"))
}
