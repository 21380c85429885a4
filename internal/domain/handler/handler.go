// Package handler exposes the domain operations as a JSON API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"domainpanel/internal/domain/catalog"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/service"
	"domainpanel/internal/domain/view"
	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/httputil"
	"domainpanel/pkg/requestcontext"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// Service is the set of domain operations served over HTTP.
type Service interface {
	List(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	Get(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetNote(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetContacts(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetLock(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetWhoisProtect(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetAutorenewal(ctx context.Context, data map[string]any) (*models.Domain, error)
	SetNSs(ctx context.Context, data map[string]any) (*models.Domain, error)
	Sync(ctx context.Context, data map[string]any) (*models.Domain, error)
	RegenPassword(ctx context.Context, data map[string]any) (*models.Domain, error)
	EnableFreeze(ctx context.Context, data map[string]any) (*models.Domain, error)
	DisableFreeze(ctx context.Context, data map[string]any) (*models.Domain, error)
	Push(ctx context.Context, data map[string]any) (*models.Domain, error)
	Renew(ctx context.Context, data map[string]any) (*models.Domain, error)
	Transfer(ctx context.Context, data map[string]any) (*service.TransferResult, error)
	BulkSetContacts(ctx context.Context, ids []int64, data map[string]any) ([]*models.Domain, error)
	CheckDomain(ctx context.Context, data map[string]any) (*models.CheckResult, error)
	GetZones(ctx context.Context) ([]string, error)
}

// Handler serves the /domains and /zones endpoints.
type Handler struct {
	svc     Service
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func New(svc Service, cat *catalog.Catalog, logger *slog.Logger) *Handler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Handler{svc: svc, catalog: cat, logger: logger}
}

// Register mounts the routes on r. Authentication is applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/domains", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/transfer", h.handleTransfer)
		r.Post("/check", h.handleCheck)
		r.Post("/contacts", h.handleBulkSetContacts)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/note", h.submit(h.svc.SetNote))
			r.Post("/contacts", h.submit(h.svc.SetContacts))
			r.Post("/lock", h.submit(h.svc.SetLock))
			r.Post("/whois-protect", h.submit(h.svc.SetWhoisProtect))
			r.Post("/autorenewal", h.submit(h.svc.SetAutorenewal))
			r.Post("/nameservers", h.submit(h.svc.SetNSs))
			r.Post("/sync", h.submit(h.svc.Sync))
			r.Post("/password", h.submit(h.svc.RegenPassword))
			r.Post("/freeze", h.submit(h.svc.EnableFreeze))
			r.Delete("/freeze", h.submit(h.svc.DisableFreeze))
			r.Post("/push", h.submit(h.svc.Push))
			r.Post("/renew", h.submit(h.svc.Renew))
		})
	})
	r.Get("/zones", h.handleZones)
}

type operation func(ctx context.Context, data map[string]any) (*models.Domain, error)

// submit serves a single-domain operation. The {id} path segment overrides
// any id in the body.
func (h *Handler) submit(op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data, ok := h.decode(w, r)
		if !ok {
			return
		}
		data["id"] = chi.URLParam(r, "id")

		d, err := op(ctx, data)
		if err != nil {
			h.fail(ctx, w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, d)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.svc.Get(ctx, map[string]any{"id": chi.URLParam(r, "id")})
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

var filterParams = []string{"domain", "state", "client_id", "seller_id"}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	q := service.ListQuery{Filter: map[string]any{}, Sort: query.Get("sort")}
	filtered := false
	for _, name := range filterParams {
		if v := strings.TrimSpace(query.Get(name)); v != "" {
			q.Filter[name] = v
			filtered = true
		}
	}
	if strings.HasPrefix(q.Sort, "-") {
		q.Sort, q.Desc = q.Sort[1:], true
	}
	q.Desc = q.Desc || query.Get("desc") == "1" || query.Get("desc") == "true"
	q.Limit, _ = strconv.Atoi(query.Get("limit"))
	q.Offset, _ = strconv.Atoi(query.Get("offset"))

	res, err := h.svc.List(ctx, q)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view.NewIndex(ctx, view.IndexInput{
		Domains:        res.Domains,
		Filter:         res.Filter,
		Filtered:       filtered,
		Stale:          res.Stale,
		Representation: query.Get("representation"),
	}))
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Transfer(ctx, data)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// handleCheck checks one name in one zone and answers with the rendered
// line. "requested" is the name the user searched for.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, ok := h.decode(w, r)
	if !ok {
		return
	}
	requested, _ := data["requested"].(string)
	delete(data, "requested")

	res, err := h.svc.CheckDomain(ctx, data)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view.NewCheckLine(ctx, h.catalog, res.FQDN, res, requested))
}

type bulkContactsRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) handleBulkSetContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, ok := h.decode(w, r)
	if !ok {
		return
	}
	var req bulkContactsRequest
	if raw, err := json.Marshal(data); err == nil {
		if err := json.Unmarshal(raw, &req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "ids must be a list of domain ids"))
			return
		}
	}
	delete(data, "ids")

	updated, err := h.svc.BulkSetContacts(ctx, req.IDs, data)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"domains": updated})
}

type zoneCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type zonesResponse struct {
	Zones      []string       `json:"zones"`
	Categories []zoneCategory `json:"categories"`
}

func (h *Handler) handleZones(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	zones, err := h.svc.GetZones(ctx)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	resp := zonesResponse{Zones: zones, Categories: make([]zoneCategory, 0, len(h.catalog.Categories))}
	for _, g := range h.catalog.Categories {
		resp.Categories = append(resp.Categories, zoneCategory{Name: g.Name, Count: h.catalog.CategoryCount(g.Name, zones)})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// decode reads a JSON object body. An empty body is an empty object.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	data := map[string]any{}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&data)
	if err != nil && !errors.Is(err, io.EOF) {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "failed to decode request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, true
}

// fail logs err at a level matching its code and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"route", r.URL.Path,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, "domain request rejected", append(attrs, "code", de.Code)...)
	} else {
		h.logger.ErrorContext(ctx, "domain request failed", attrs...)
	}
	httputil.WriteError(w, err)
}
