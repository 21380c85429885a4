package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"domainpanel/pkg/platform/httputil"
	"domainpanel/pkg/requestcontext"
)

// Metrics counts refused requests. A nil *Metrics records nothing.
type Metrics struct {
	Rejected *prometheus.CounterVec
	Errors   prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainpanel_ratelimit_rejected_total",
			Help: "Requests refused by the rate limiter by endpoint class",
		}, []string{"class"}),
		Errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed and let the request through",
		}),
	}
}

func (m *Metrics) incRejected(class EndpointClass) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(string(class)).Inc()
}

func (m *Metrics) incErrors() {
	if m == nil {
		return
	}
	m.Errors.Inc()
}

type exceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}

// Middleware limits each caller per endpoint class. Authenticated callers
// are keyed by user id, guests by client IP. A failing store lets the
// request through.
func Middleware(limiter *Limiter, m *Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			class := ClassOf(r)
			caller := "ip:" + requestcontext.ClientIP(ctx)
			if user := requestcontext.Identity(ctx); !user.IsGuest() {
				caller = "user:" + user.ID
			}

			res, err := limiter.Check(ctx, caller, class)
			if err != nil {
				m.incErrors()
				logger.ErrorContext(ctx, "rate limit check failed",
					"class", class,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if res.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}
			if !res.Allowed {
				m.incRejected(class)
				retry := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
					Error:            "rate_limit_exceeded",
					ErrorDescription: "Too many requests. Please try again later.",
					RetryAfter:       retry,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
