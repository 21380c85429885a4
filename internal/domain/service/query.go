package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/metrics"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/domain/rules"
	"domainpanel/internal/domain/store"
	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/sentinel"
	"domainpanel/pkg/requestcontext"
)

// ListQuery is a search submission: filter attributes plus paging.
type ListQuery struct {
	Filter map[string]any
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// ListResult is one page of domains.
type ListResult struct {
	Domains []*models.Domain `json:"domains"`
	Filter  store.ListFilter `json:"-"`
	// Stale is set when the API was unreachable and the page was served
	// from the local projection.
	Stale bool `json:"stale,omitempty"`
}

// List searches domains through the API and refreshes their projections.
// Accounts without support or reseller rights only see their own domains.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	start := time.Now()
	const name = "list"

	f, err := s.load(ctx, rules.ScenarioDefault, q.Filter)
	if err == nil {
		err = s.checkListQuery(ctx, f, q)
	}
	if err != nil {
		s.metrics.ObserveOperation(name, metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}

	filter := store.ListFilter{
		DomainLike: strings.TrimSpace(f.String("domain")),
		State:      models.State(f.String("state")),
		ClientID:   f.Int("client_id"),
		SellerID:   f.Int("seller_id"),
		Sort:       q.Sort,
		Desc:       q.Desc,
		Limit:      q.Limit,
		Offset:     max(q.Offset, 0),
	}
	if filter.Limit <= 0 {
		filter.Limit = store.DefaultLimit
	}
	if filter.Sort == "" {
		filter.Sort = "domain"
	}
	scopeToOwner(requestcontext.Identity(ctx), &filter)

	res, err := s.performer.Perform(ctx, call(rules.ScenarioDefault, "Search", true, searchPayload(filter)))
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) && !provisioning.IsRemote(err) {
			return s.listStale(ctx, filter, err, start)
		}
		outcome, coded := translate(err)
		s.metrics.ObserveOperation(name, outcome, time.Since(start))
		return nil, coded
	}

	domains := make([]*models.Domain, 0, len(res))
	for key, raw := range res {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d := &models.Domain{}
		if err := provisioning.Result(entry).Decode(d); err != nil || d.ID == 0 {
			s.logger.WarnContext(ctx, "skipping unreadable search entry", "key", key, "error", err)
			continue
		}
		if d.Zone == "" {
			d.Zone = d.ZoneOf()
		}
		s.save(ctx, d)
		domains = append(domains, d)
	}
	store.Sort(domains, filter.Sort, filter.Desc)

	s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
	return &ListResult{Domains: domains, Filter: filter}, nil
}

func (s *Service) listStale(ctx context.Context, filter store.ListFilter, cause error, start time.Time) (*ListResult, error) {
	s.logger.WarnContext(ctx, "provisioning unavailable, listing from projection",
		"request_id", requestcontext.RequestID(ctx),
		"error", cause,
	)
	domains, err := s.store.List(ctx, filter)
	if err != nil {
		s.metrics.ObserveOperation("list", metrics.OutcomeUnavailable, time.Since(start))
		return nil, dErrors.Wrap(errors.Join(cause, err), dErrors.CodeUnavailable, "provisioning service unavailable")
	}
	s.metrics.ObserveOperation("list", metrics.OutcomeSucceeded, time.Since(start))
	return &ListResult{Domains: domains, Filter: filter, Stale: true}, nil
}

func (s *Service) checkListQuery(ctx context.Context, f *rules.Form, q ListQuery) error {
	if !f.IsEmpty("state") {
		if _, err := models.ParseState(f.String("state")); err != nil {
			f.AddError("state", i18n.T(ctx, i18n.MsgInvalid, i18n.TLabel(ctx, "state")))
		}
	}
	if !store.ValidSort(q.Sort) {
		f.AddError("sort", i18n.T(ctx, i18n.MsgInvalid, i18n.TLabel(ctx, "sort")))
	}
	return f.Err()
}

// scopeToOwner limits plain client accounts to their own domains.
func scopeToOwner(user requestcontext.User, filter *store.ListFilter) {
	if user.IsGuest() ||
		user.Can(requestcontext.PermissionSupport) ||
		user.Can(requestcontext.PermissionResell) ||
		user.Can(requestcontext.PermissionManage) {
		return
	}
	if id, err := strconv.ParseInt(user.ID, 10, 64); err == nil {
		filter.ClientID = id
	}
}

func searchPayload(f store.ListFilter) map[string]any {
	payload := map[string]any{
		"orderby": f.Sort,
		"limit":   f.Limit,
		"offset":  f.Offset,
	}
	if f.Desc {
		payload["desc"] = true
	}
	if f.DomainLike != "" {
		payload["domain_like"] = f.DomainLike
	}
	if f.State != "" {
		payload["state"] = string(f.State)
	}
	if f.ClientID != 0 {
		payload["client_id"] = f.ClientID
	}
	if f.SellerID != 0 {
		payload["seller_id"] = f.SellerID
	}
	return payload
}

// CheckDomain reports whether a name is available in a zone. "example.com"
// in zone "net" checks example.net; the zone defaults to com.
func (s *Service) CheckDomain(ctx context.Context, data map[string]any) (*models.CheckResult, error) {
	start := time.Now()
	const name = "check_domain"

	f, err := s.load(ctx, rules.ScenarioCheckDomain, data)
	if err != nil {
		s.metrics.ObserveOperation(name, metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}
	label := strings.ToLower(f.String("domain"))
	zone := strings.ToLower(strings.TrimPrefix(f.String("zone"), "."))
	fqdn := label + "." + zone

	if cached := s.cachedCheck(ctx, fqdn); cached != nil {
		s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
		return cached, nil
	}

	res, err := s.perform(ctx, name, call(rules.ScenarioCheckDomain, "Check", true, map[string]any{
		"domains": []string{fqdn},
	}), start)
	if err != nil {
		return nil, err
	}

	result := models.NewCheckResult(label, zone, available(res[fqdn]))
	result.Resource = resourceOf(res[fqdn])
	if result.Resource == nil {
		result.Resource = resourceOf(f.Get("resource"))
	}

	if s.cache != nil {
		if err := s.cache.SetCheck(ctx, &result); err != nil {
			s.logger.WarnContext(ctx, "caching check result failed", "domain", fqdn, "error", err)
		}
	}
	s.record(ctx, audit.Event{
		Action:   audit.ActionDomainChecked,
		Subject:  fqdn,
		Scenario: rules.ScenarioCheckDomain.String(),
		Decision: audit.DecisionSucceeded,
	})
	s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
	return &result, nil
}

func (s *Service) cachedCheck(ctx context.Context, fqdn string) *models.CheckResult {
	if s.cache == nil {
		return nil
	}
	res, err := s.cache.GetCheck(ctx, fqdn)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "check cache lookup failed", "domain", fqdn, "error", err)
		}
		s.metrics.ObserveCache("check", false)
		return nil
	}
	s.metrics.ObserveCache("check", true)
	return res
}

// available reads one availability entry of a check reply. The API answers
// either a bare flag or an object with an "avail" flag.
func available(v any) bool {
	switch a := v.(type) {
	case bool:
		return a
	case float64:
		return a != 0
	case int:
		return a != 0
	case int64:
		return a != 0
	case string:
		switch strings.ToLower(a) {
		case "1", "true", "available":
			return true
		}
	case map[string]any:
		if flag, ok := a["avail"]; ok {
			return available(flag)
		}
		return available(a["is_available"])
	}
	return false
}

func resourceOf(v any) *models.Resource {
	entry, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if nested, ok := entry["resource"].(map[string]any); ok {
		entry = nested
	}
	if _, ok := entry["price"]; !ok {
		return nil
	}
	r := &models.Resource{}
	if err := provisioning.Result(entry).Decode(r); err != nil {
		return nil
	}
	return r
}

// GetZones returns the zones open for registration, sorted.
func (s *Service) GetZones(ctx context.Context) ([]string, error) {
	start := time.Now()
	const name = "get_zones"

	f, err := s.load(ctx, rules.ScenarioGetZones, nil)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		zones, err := s.cache.GetZones(ctx)
		switch {
		case err == nil:
			s.metrics.ObserveCache("zones", true)
			s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
			return zones, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "zones cache lookup failed", "error", err)
		}
		s.metrics.ObserveCache("zones", false)
	}

	res, err := s.perform(ctx, name, call(rules.ScenarioGetZones, "", false, f.Values()), start)
	if err != nil {
		return nil, err
	}
	zones := make([]string, 0, len(res))
	for zone := range res {
		zones = append(zones, strings.ToLower(zone))
	}
	slices.Sort(zones)

	if s.cache != nil {
		if err := s.cache.SetZones(ctx, zones); err != nil {
			s.logger.WarnContext(ctx, "caching zones failed", "error", err)
		}
	}
	s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
	return zones, nil
}
