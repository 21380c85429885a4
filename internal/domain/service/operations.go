package service

import (
	"context"
	"strconv"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/rules"
	dErrors "domainpanel/pkg/domain-errors"
	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/requestcontext"
)

var (
	opGet = op{
		name:      "get",
		scenario:  rules.ScenarioOnlyObject,
		operation: "GetInfo",
	}
	opSetNote = op{
		name:     "set_note",
		scenario: rules.ScenarioSetNote,
		action:   audit.ActionDomainNoteChanged,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, f *rules.Form) { d.Note = f.String("note") },
	}
	opSetContacts = op{
		name:     "set_contacts",
		scenario: rules.ScenarioSetContacts,
		action:   audit.ActionDomainContactsChanged,
		guard:    (*Service).requireManager,
		apply:    applyContacts,
	}
	opSetLock = op{
		name:     "set_lock",
		scenario: rules.ScenarioSetLock,
		action:   audit.ActionDomainLockChanged,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, f *rules.Form) { d.IsSecured = f.Bool("enable") },
	}
	opSetWhoisProtect = op{
		name:     "set_whois_protect",
		scenario: rules.ScenarioSetWhoisProtect,
		action:   audit.ActionDomainWhoisProtectChange,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, f *rules.Form) { d.WhoisProtected = f.Bool("enable") },
	}
	opSetAutorenewal = op{
		name:     "set_autorenewal",
		scenario: rules.ScenarioSetAutorenewal,
		action:   audit.ActionDomainAutorenewalChanged,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, f *rules.Form) { d.Autorenewal = f.Bool("autorenewal") },
	}
	opSetNSs = op{
		name:     "set_nss",
		scenario: rules.ScenarioSetNSs,
		action:   audit.ActionDomainNameserversChanged,
		guard:    (*Service).requireManager,
		apply: func(d *models.Domain, f *rules.Form) {
			d.Nameservers = f.Strings("nameservers")
			d.NSIPs = f.Strings("nsips")
		},
	}
	opSync = op{
		name:     "sync",
		scenario: rules.ScenarioSync,
		action:   audit.ActionDomainSynced,
		guard:    (*Service).requireManager,
	}
	opRegenPassword = op{
		name:     "regen_password",
		scenario: rules.ScenarioRegenPassword,
		action:   audit.ActionDomainPasswordRegenerate,
		guard:    (*Service).requireManager,
	}
	opEnableFreeze = op{
		name:     "enable_freeze",
		scenario: rules.ScenarioEnableFreeze,
		action:   audit.ActionDomainFreezeEnabled,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, _ *rules.Form) { d.Freezed = true },
	}
	opDisableFreeze = op{
		name:     "disable_freeze",
		scenario: rules.ScenarioDisableFreeze,
		action:   audit.ActionDomainFreezeDisabled,
		guard:    (*Service).requireManager,
		apply:    func(d *models.Domain, _ *rules.Form) { d.Freezed = false },
	}
	opPush = op{
		name:      "push",
		scenario:  rules.ScenarioPush,
		operation: "Push",
		action:    audit.ActionDomainPushed,
		guard:     (*Service).requireOwner,
	}
	opRenew = op{
		name:      "renew",
		scenario:  rules.ScenarioDefault,
		operation: "Renew",
		action:    audit.ActionDomainRenewed,
		guard:     (*Service).requireRenewable,
	}
)

// Get fetches the current record of a domain from the API and refreshes
// its projection.
func (s *Service) Get(ctx context.Context, data map[string]any) (*models.Domain, error) {
	d, err := s.submit(ctx, opGet, data)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, i18n.Translate(ctx, i18n.MsgNotFound))
	}
	return d, nil
}

func (s *Service) SetNote(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetNote, data)
}

// SetContacts assigns all four contact roles at once.
func (s *Service) SetContacts(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetContacts, data)
}

func (s *Service) SetLock(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetLock, data)
}

func (s *Service) SetWhoisProtect(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetWhoisProtect, data)
}

func (s *Service) SetAutorenewal(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetAutorenewal, data)
}

// SetNSs replaces the delegation. Name servers and their glue addresses may
// be given as lists or as free text.
func (s *Service) SetNSs(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSetNSs, data)
}

func (s *Service) Sync(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opSync, data)
}

func (s *Service) RegenPassword(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opRegenPassword, data)
}

func (s *Service) EnableFreeze(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opEnableFreeze, data)
}

func (s *Service) DisableFreeze(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opDisableFreeze, data)
}

// Push hands a domain over to another account. Only the owner may push; a
// pincode, when given, is verified first.
func (s *Service) Push(ctx context.Context, data map[string]any) (*models.Domain, error) {
	o := opPush
	if pin, ok := data["pincode"]; ok && pin != nil && pin != "" {
		o.scenario = rules.ScenarioPushWithPincode
	}
	return s.submit(ctx, o, data)
}

// Renew orders a renewal of a domain in a renewable state.
func (s *Service) Renew(ctx context.Context, data map[string]any) (*models.Domain, error) {
	return s.submit(ctx, opRenew, data)
}

func (s *Service) requireOwner(ctx context.Context, d *models.Domain) error {
	if models.IsDomainOwner(requestcontext.Identity(ctx), d) {
		return nil
	}
	return s.denied(ctx, d)
}

func (s *Service) denied(ctx context.Context, d *models.Domain) error {
	s.record(ctx, audit.Event{
		Action:   audit.ActionOwnershipDenied,
		Subject:  d.Domain,
		DomainID: strconv.FormatInt(d.ID, 10),
		Decision: audit.DecisionRejected,
	})
	return dErrors.New(dErrors.CodeForbidden, i18n.Translate(ctx, i18n.MsgNotOwner))
}

func (s *Service) requireManager(ctx context.Context, d *models.Domain) error {
	if models.CanManageDomain(requestcontext.Identity(ctx), d) {
		return nil
	}
	return s.denied(ctx, d)
}

func (s *Service) requireRenewable(ctx context.Context, d *models.Domain) error {
	if err := s.requireManager(ctx, d); err != nil {
		return err
	}
	if d.CanRenew() {
		return nil
	}
	return dErrors.New(dErrors.CodeInvariantViolation, i18n.Translate(ctx, i18n.MsgCannotRenew))
}

func applyContacts(d *models.Domain, f *rules.Form) {
	d.Contacts = models.Contacts{
		Registrant: f.Int("registrant"),
		Admin:      f.Int("admin"),
		Tech:       f.Int("tech"),
		Billing:    f.Int("billing"),
	}
}
