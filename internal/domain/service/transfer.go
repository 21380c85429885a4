package service

import (
	"context"
	"strconv"
	"time"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/metrics"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/provisioning"
	"domainpanel/internal/domain/rules"
	"domainpanel/pkg/platform/audit"
)

// TransferResult lists the domains whose transfer was requested and the
// lines or domains that were refused.
type TransferResult struct {
	Domains []string          `json:"success"`
	Errors  map[string]string `json:"error,omitempty"`
}

// Transfer requests an incoming transfer of one domain, whose EPP code is
// checked during validation, or of every pair in a batch list.
func (s *Service) Transfer(ctx context.Context, data map[string]any) (*TransferResult, error) {
	start := time.Now()
	const name = "transfer"

	f, err := s.load(ctx, rules.ScenarioTransfer, data)
	if err != nil {
		s.rejected(ctx, f)
		s.metrics.ObserveOperation(name, metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}

	if !f.IsEmpty("domain") {
		domain := f.String("domain")
		res, err := s.perform(ctx, name, call(rules.ScenarioTransfer, "", false, map[string]any{
			"domain":   domain,
			"password": f.String("password"),
		}), start)
		if err != nil {
			return nil, err
		}
		s.refresh(ctx, 0, domain, res, nil)
		s.transferred(ctx, domain)
		s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
		return &TransferResult{Domains: []string{domain}}, nil
	}

	batch := rules.ParseTransferBatch(ctx, f.String("domains"))
	result := &TransferResult{Errors: batch.Errors}
	if len(batch.Pairs) == 0 {
		s.metrics.ObserveOperation(name, metrics.OutcomeInvalid, time.Since(start))
		return result, nil
	}

	payload := make(map[string]any, len(batch.Pairs))
	for i, p := range batch.Pairs {
		payload[strconv.Itoa(i)] = map[string]any{"domain": p.Domain, "password": p.Password}
	}
	res, err := s.perform(ctx, name, call(rules.ScenarioTransfer, "", true, payload), start)
	if err != nil {
		return nil, err
	}

	for i, p := range batch.Pairs {
		entry := res[p.Domain]
		if entry == nil {
			entry = res[strconv.Itoa(i)]
		}
		if msg := entryError(entry); msg != "" {
			result.Errors[p.Domain] = i18n.T(ctx, i18n.MsgWrongCode, msg)
			continue
		}
		result.Domains = append(result.Domains, p.Domain)
		s.transferred(ctx, p.Domain)
	}
	s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
	return result, nil
}

func (s *Service) transferred(ctx context.Context, domain string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, domain); err != nil {
			s.logger.WarnContext(ctx, "check cache invalidation failed", "domain", domain, "error", err)
		}
	}
	s.record(ctx, audit.Event{
		Action:   audit.ActionDomainTransferRequested,
		Subject:  domain,
		Scenario: rules.ScenarioTransfer.String(),
		Decision: audit.DecisionSucceeded,
	})
}

// entryError returns the refusal message of one entry of a batch reply.
func entryError(v any) string {
	entry, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := entry["_error"].(string)
	return msg
}

// BulkSetContacts assigns the same four contacts to every domain in ids with
// one batch call. It returns the refreshed projections of the domains the
// API accepted.
func (s *Service) BulkSetContacts(ctx context.Context, ids []int64, data map[string]any) ([]*models.Domain, error) {
	start := time.Now()
	const name = "bulk_set_contacts"

	f, err := s.load(ctx, rules.ScenarioBulkSetContacts, data)
	if err == nil && len(ids) == 0 {
		f.AddError("id", i18n.T(ctx, i18n.MsgRequired, i18n.TLabel(ctx, "id")))
		err = f.Err()
	}
	if err != nil {
		s.metrics.ObserveOperation(name, metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}

	payload := make(map[string]any, len(ids))
	for _, id := range ids {
		item := map[string]any{"id": id}
		for _, role := range models.ContactRoles() {
			item[string(role)] = f.Int(string(role))
		}
		payload[strconv.FormatInt(id, 10)] = item
	}
	res, err := s.perform(ctx, name, call(rules.ScenarioBulkSetContacts, "SetContacts", true, payload), start)
	if err != nil {
		return nil, err
	}

	updated := make([]*models.Domain, 0, len(ids))
	for _, id := range ids {
		key := strconv.FormatInt(id, 10)
		if msg := entryError(res[key]); msg != "" {
			s.logger.WarnContext(ctx, "contacts not changed", "domain_id", id, "reason", msg)
			continue
		}
		entry, _ := res[key].(map[string]any)
		d := s.refresh(ctx, id, "", provisioning.Result(entry), func(d *models.Domain) {
			applyContacts(d, f)
		})
		subject := "#" + key
		if d != nil {
			subject = d.Domain
			updated = append(updated, d)
		}
		s.record(ctx, audit.Event{
			Action:   audit.ActionDomainContactsChanged,
			Subject:  subject,
			DomainID: key,
			Scenario: rules.ScenarioBulkSetContacts.String(),
			Decision: audit.DecisionSucceeded,
		})
	}
	s.metrics.ObserveOperation(name, metrics.OutcomeSucceeded, time.Since(start))
	return updated, nil
}
