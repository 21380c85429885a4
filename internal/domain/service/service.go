// Package service runs domain form submissions. Every submission is loaded
// into a form under its scenario and validated, then forwarded as one remote
// call. The local projection is refreshed from the reply and the outcome is
// audited.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
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

// Cache holds remote answers that are expensive to ask for.
type Cache interface {
	GetCheck(ctx context.Context, fqdn string) (*models.CheckResult, error)
	SetCheck(ctx context.Context, res *models.CheckResult) error
	GetZones(ctx context.Context) ([]string, error)
	SetZones(ctx context.Context, zones []string) error
	Invalidate(ctx context.Context, fqdn string) error
}

// Auditor records the outcome of a submission.
type Auditor interface {
	Record(ctx context.Context, event audit.Event) error
}

// Service implements the domain operations.
type Service struct {
	performer provisioning.Performer
	store     store.Store
	table     []rules.Rule
	cache     Cache
	auditor   Auditor
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of availability checks and the zone list.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service. The performer also serves the remote checks made
// during validation.
func New(performer provisioning.Performer, st store.Store, opts ...Option) *Service {
	s := &Service{
		performer: performer,
		store:     st,
		table:     rules.Table(provisioning.NewChecker(performer)),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// op describes a single-domain submission.
type op struct {
	name     string
	scenario rules.Scenario
	// operation overrides the remote operation derived from the scenario.
	operation string
	action    audit.Action
	// guard runs against the stored domain before the remote call.
	guard func(s *Service, ctx context.Context, d *models.Domain) error
	// apply mirrors the change on the projection. Fields present in the
	// reply win.
	apply func(d *models.Domain, f *rules.Form)
}

// submit runs one single-domain submission end to end.
func (s *Service) submit(ctx context.Context, o op, data map[string]any) (*models.Domain, error) {
	start := time.Now()

	f, err := s.load(ctx, o.scenario, data)
	if err != nil {
		s.rejected(ctx, f)
		s.metrics.ObserveOperation(o.name, metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}

	var known *models.Domain
	if o.guard != nil {
		known, err = s.lookup(ctx, f)
		if err == nil {
			err = o.guard(s, ctx, known)
		}
		if err != nil {
			s.metrics.ObserveOperation(o.name, metrics.OutcomeRejected, time.Since(start))
			return nil, err
		}
	} else if id := f.Int("id"); id != 0 && f.IsEmpty("domain") {
		known, _ = s.store.FindByID(ctx, id)
	}

	// Registrars addressed by name need the domain even when the caller
	// only gave its id.
	payload := f.Values()
	name := f.String("domain")
	if name == "" && known != nil && known.Domain != "" {
		name = known.Domain
		payload["domain"] = name
	}

	res, err := s.perform(ctx, o.name, call(o.scenario, o.operation, false, payload), start)
	if err != nil {
		return nil, err
	}

	d := s.refresh(ctx, f.Int("id"), name, res, func(d *models.Domain) {
		if o.apply != nil {
			o.apply(d, f)
		}
	})
	if o.action != "" {
		s.record(ctx, audit.Event{
			Action:   o.action,
			Subject:  subject(f, d),
			DomainID: domainID(f, d),
			Scenario: o.scenario.String(),
			Decision: audit.DecisionSucceeded,
		})
	}
	s.metrics.ObserveOperation(o.name, metrics.OutcomeSucceeded, time.Since(start))
	return d, nil
}

// load builds and validates the form of a scenario. The form is returned
// even when invalid so callers can inspect its errors.
func (s *Service) load(ctx context.Context, scenario rules.Scenario, data map[string]any) (*rules.Form, error) {
	f := rules.NewForm(scenario, s.table)
	if dropped := f.Load(data); len(dropped) > 0 {
		s.logger.DebugContext(ctx, "unsafe attributes dropped",
			"scenario", scenario,
			"attributes", dropped,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if !f.Validate(ctx) {
		return f, f.Err()
	}
	return f, nil
}

// rejections names the attributes whose errors come from a remote check.
var rejections = map[rules.Scenario]struct {
	attr   string
	action audit.Action
}{
	rules.ScenarioTransfer:        {"password", audit.ActionTransferCodeRejected},
	rules.ScenarioPushWithPincode: {"pincode", audit.ActionPincodeRejected},
}

// rejected records a security event when a submitted credential was refused.
// A check that could not reach the registry refused nothing.
func (s *Service) rejected(ctx context.Context, f *rules.Form) {
	r, ok := rejections[f.Scenario()]
	if !ok || f.IsEmpty(r.attr) || !f.Errors().Has(r.attr) || f.Unverified(r.attr) {
		return
	}
	s.record(ctx, audit.Event{
		Action:   r.action,
		Subject:  subject(f, nil),
		DomainID: domainID(f, nil),
		Scenario: f.Scenario().String(),
		Decision: audit.DecisionRejected,
		Reason:   f.Errors().First(r.attr),
	})
}

func call(scenario rules.Scenario, operation string, batch bool, payload map[string]any) provisioning.Call {
	entity, derived := scenario.Command()
	if operation == "" {
		operation = derived
	}
	return provisioning.Call{Entity: entity, Operation: operation, Payload: payload, Batch: batch}
}

// perform makes the remote call and translates its failure. A failure is
// counted against name.
func (s *Service) perform(ctx context.Context, name string, c provisioning.Call, start time.Time) (provisioning.Result, error) {
	res, err := s.performer.Perform(ctx, c)
	if err == nil {
		return res, nil
	}
	outcome, coded := translate(err)
	s.metrics.ObserveOperation(name, outcome, time.Since(start))
	s.logger.WarnContext(ctx, "remote operation failed",
		"command", c.Command(),
		"outcome", outcome,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return nil, coded
}

func translate(err error) (string, error) {
	switch {
	case provisioning.IsRemote(err):
		return metrics.OutcomeRejected, dErrors.Wrap(err, dErrors.CodeUpstream, rules.RemoteMessage(err))
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeUnavailable, dErrors.Wrap(err, dErrors.CodeTimeout, "provisioning call timed out")
	case errors.Is(err, sentinel.ErrUnavailable):
		return metrics.OutcomeUnavailable, dErrors.Wrap(err, dErrors.CodeUnavailable, "provisioning service unavailable")
	default:
		return metrics.OutcomeFailed, dErrors.Wrap(err, dErrors.CodeInternal, "provisioning call failed")
	}
}

// refresh merges the change into the stored projection of the domain and
// saves it. It returns nil when the domain cannot be identified.
func (s *Service) refresh(ctx context.Context, id int64, name string, res provisioning.Result, apply func(*models.Domain)) *models.Domain {
	d := &models.Domain{ID: id, Domain: name}
	if id != 0 {
		current, err := s.store.FindByID(ctx, id)
		switch {
		case err == nil:
			d = current
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "projection lookup failed", "domain_id", id, "error", err)
		}
	}
	if apply != nil {
		apply(d)
	}
	if len(res) > 0 {
		if err := res.Decode(d); err != nil {
			s.logger.WarnContext(ctx, "unexpected reply shape", "domain_id", id, "error", err)
		}
	}
	if d.ID == 0 || d.Domain == "" {
		return nil
	}
	if d.Zone == "" {
		d.Zone = d.ZoneOf()
	}
	s.save(ctx, d)
	return d
}

func (s *Service) save(ctx context.Context, d *models.Domain) {
	if err := s.store.Upsert(ctx, d); err != nil {
		s.metrics.IncProjectionFailures()
		s.logger.WarnContext(ctx, "projection update failed",
			"domain", d.Domain,
			"domain_id", d.ID,
			"error", err,
		)
	}
}

// lookup finds the stored domain a form addresses, by id or by name.
func (s *Service) lookup(ctx context.Context, f *rules.Form) (*models.Domain, error) {
	var (
		d   *models.Domain
		err error
	)
	switch {
	case f.Int("id") != 0:
		d, err = s.store.FindByID(ctx, f.Int("id"))
	case !f.IsEmpty("domain"):
		d, err = s.store.FindByName(ctx, f.String("domain"))
	default:
		f.AddError("id", i18n.T(ctx, i18n.MsgRequired, i18n.TLabel(ctx, "id")))
		return nil, f.Err()
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, i18n.Translate(ctx, i18n.MsgNotFound))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain")
	}
	return d, nil
}

// record audits an event. A failed compliance write after a successful
// remote call is logged; the remote change stands.
func (s *Service) record(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit record failed",
			"action", event.Action,
			"subject", event.Subject,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func subject(f *rules.Form, d *models.Domain) string {
	if d != nil && d.Domain != "" {
		return d.Domain
	}
	if name := f.String("domain"); name != "" {
		return name
	}
	if id := f.Int("id"); id != 0 {
		return "#" + strconv.FormatInt(id, 10)
	}
	return f.Scenario().String()
}

func domainID(f *rules.Form, d *models.Domain) string {
	id := f.Int("id")
	if d != nil && d.ID != 0 {
		id = d.ID
	}
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
