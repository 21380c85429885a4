package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/httputil"
	"domainpanel/pkg/requestcontext"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Handler serves the operator view of the audit trail.
type Handler struct {
	reader audit.Reader
	logger *slog.Logger
}

func NewHandler(reader audit.Reader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

// Register mounts GET /audit on r. The caller guards it.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit", h.handleList)
}

type listResponse struct {
	Events []audit.Event `json:"events"`
}

// handleList returns the events of ?subject= or, without one, the most
// recent events up to ?limit=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		events []audit.Event
		err    error
	)
	if subject := strings.TrimSpace(query.Get("subject")); subject != "" {
		events, err = h.reader.ListBySubject(ctx, strings.ToLower(subject))
	} else {
		limit := defaultListLimit
		if raw := query.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
				return
			}
		}
		events, err = h.reader.ListRecent(ctx, min(limit, maxListLimit))
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read audit events",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Events: events})
}
