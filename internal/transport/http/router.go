// Package httptransport assembles the HTTP surface: the shared middleware
// chain, health and metrics endpoints, and the authenticated feature routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	auditapi "domainpanel/internal/audit"
	domainapi "domainpanel/internal/domain/handler"
	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/platform/metrics"
	"domainpanel/internal/platform/middleware"
	"domainpanel/pkg/platform/httputil"
	"domainpanel/pkg/platform/middleware/admin"
	"domainpanel/pkg/platform/middleware/auth"
	"domainpanel/pkg/platform/middleware/metadata"
	"domainpanel/pkg/platform/middleware/requesttime"
	"domainpanel/pkg/requestcontext"
)

// requestTimeout leaves room for validation plus one provisioning call.
const requestTimeout = 40 * time.Second

// Probe reports the health of one dependency.
type Probe func(ctx context.Context) error

// Deps are the pieces the router mounts. Audit, RateLimit and Probes are
// optional.
type Deps struct {
	Domains    *domainapi.Handler
	Audit      *auditapi.Handler
	RateLimit  func(http.Handler) http.Handler
	Tokens     auth.TokenValidator
	AdminToken string
	Probes     map[string]Probe
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// NewRouter wires every public endpoint.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(d.Logger, d.Metrics))
	r.Use(middleware.Language(i18n.Supported))

	r.Get("/healthz", healthz(d.Probes, d.Logger))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(auth.RequireAuth(d.Tokens, d.Logger))
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		d.Domains.Register(r)
	})

	if d.Audit != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
			d.Audit.Register(r)
		})
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthz runs every probe. Any failure turns the answer into a 503.
func healthz(probes map[string]Probe, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, probe := range probes {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(probes))
			}
			if err := probe(ctx); err != nil {
				logger.WarnContext(ctx, "health probe failed",
					"probe", name,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				resp.Checks[name] = "failing"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
