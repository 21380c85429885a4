package rules

import (
	"context"
	"errors"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/models"
	strs "domainpanel/pkg/platform/strings"
	"domainpanel/pkg/requestcontext"
)

// RemoteChecker performs the remote checks some rules depend on. The error
// message is shown to the user.
type RemoteChecker interface {
	CheckTransfer(ctx context.Context, domain, password string) error
	CheckPincode(ctx context.Context, pincode, userID string) error
}

func on(scenarios ...Scenario) []Scenario { return scenarios }

func attrs(names ...string) []string { return names }

var contactAttrs = attrs("registrant", "admin", "tech", "billing")

// Table returns the rule table of domain forms. checker serves the transfer
// code and pincode checks.
func Table(checker RemoteChecker) []Rule {
	return []Rule{
		// Attributes of the record itself, in every scenario.
		{Attributes: attrs("id", "zone_id", "seller_id", "client_id", "remoteid", "daysleft", "prem_daysleft"), Validator: Integer{}},
		{Attributes: attrs("domain", "statuses", "name", "zone", "state", "lastop", "state_label"), Validator: Safe{}},
		{Attributes: attrs("seller", "seller_name", "client", "client_name"), Validator: Safe{}},
		{Attributes: attrs("created_date", "updated_date", "transfer_date", "expiration_date", "expires", "since", "prem_expires"), Validator: Date{}},
		{Attributes: attrs("registered", "operated"), Validator: Date{}},
		{Attributes: attrs("is_expired", "is_served", "is_holded", "is_premium", "is_secured", "is_freezed", "wp_freezed"), Validator: Boolean{}},
		{Attributes: attrs("premium_autorenewal", "expires_soon", "autorenewal", "whois_protected"), Validator: Boolean{}},
		{Attributes: attrs("foa_sent_to"), Validator: Email{}},
		{Attributes: attrs("url_fwval", "mailval", "parkval", "soa", "dns", "counters"), Validator: Safe{}},
		{Attributes: contactAttrs, Validator: Integer{}},
		{Attributes: attrs("block", "epp_client_id", "nameservers", "nsips"), Validator: Safe{}},
		{Attributes: attrs("note"), Validator: Safe{}, On: on(ScenarioSetNote, ScenarioDefault)},

		{Attributes: contactAttrs, Validator: Required{}, On: on(ScenarioSetContacts)},

		{Attributes: attrs("enable"), Validator: Safe{}, On: on(ScenarioSetLock, ScenarioSetWhoisProtect)},
		{Attributes: attrs("domain", "autorenewal"), Validator: Safe{}, On: on(ScenarioSetAutorenewal)},
		{Attributes: attrs("domain", "whois_protected"), Validator: Safe{}, On: on(ScenarioSetWhoisProtect)},
		{Attributes: attrs("domain", "is_secured"), Validator: Safe{}, On: on(ScenarioSetLock)},
		{Attributes: attrs("domain"), Validator: Safe{}, On: on(ScenarioSync, ScenarioOnlyObject)},
		{Attributes: attrs("id"), Validator: Required{}, On: on(
			ScenarioEnableFreeze, ScenarioDisableFreeze,
			ScenarioSync, ScenarioOnlyObject,
			ScenarioRegenPassword,
			ScenarioSetNote,
			ScenarioSetAutorenewal, ScenarioSetWhoisProtect, ScenarioSetLock,
			ScenarioPushWithPincode,
		)},

		// Availability check: "example.com" is checked as label "example"
		// in zone "com".
		{Attributes: attrs("domain"), Validator: Trim{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("domain"), Validator: DomainPart{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("domain"), Validator: Filter{Fn: firstLabel}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("domain"), Validator: Required{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("zone"), Validator: Safe{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("zone"), Validator: Trim{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("zone"), Validator: Default{Value: models.DefaultZone}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("is_available"), Validator: Boolean{}, On: on(ScenarioCheckDomain)},
		{Attributes: attrs("resource"), Validator: Safe{}, On: on(ScenarioCheckDomain)},

		// Transfer of a single domain, or of a batch given in domains.
		{Attributes: attrs("domain", "password"), Validator: Trim{}, On: on(ScenarioTransfer)},
		{Attributes: attrs("domain", "password"), Validator: Required{}, On: on(ScenarioTransfer), When: func(f *Form) bool {
			return f.IsEmpty("domains")
		}},
		{Attributes: attrs("password"), Validator: Required{}, On: on(ScenarioTransfer), When: func(f *Form) bool {
			return f.IsEmpty("domains") && !f.IsEmpty("domain")
		}},
		{Attributes: attrs("domains"), Validator: Required{}, On: on(ScenarioTransfer), When: func(f *Form) bool {
			return f.IsEmpty("domain") && f.IsEmpty("password")
		}},
		{Attributes: attrs("domain"), Validator: DomainName{}, On: on(ScenarioTransfer)},
		{Attributes: attrs("password"), Validator: Inline{Fn: checkTransfer(checker)}, On: on(ScenarioTransfer), When: func(f *Form) bool {
			return !f.IsEmpty("domain")
		}},

		// Name servers accept free text as well as lists.
		{Attributes: attrs("domain", "nameservers", "nsips"), Validator: Safe{}, On: on(ScenarioSetNSs)},
		{Attributes: attrs("nameservers", "nsips"), Validator: Filter{Fn: splitList}, On: on(ScenarioSetNSs)},
		{Attributes: attrs("nameservers"), Validator: Filter{Fn: dedupeHosts}, On: on(ScenarioSetNSs)},
		{Attributes: attrs("nsips"), Validator: Filter{Fn: dedupe}, On: on(ScenarioSetNSs)},
		{Attributes: attrs("nameservers"), Validator: Each{Rule: DomainName{}}, On: on(ScenarioSetNSs)},
		{Attributes: attrs("nsips"), Validator: Each{Rule: NSIP{}}, On: on(ScenarioSetNSs)},

		{Attributes: attrs("dumb"), Validator: Safe{}, On: on(ScenarioGetZones)},

		// Push to another account.
		{Attributes: attrs("receiver", "pincode"), Validator: Trim{}, On: on(ScenarioPush, ScenarioPushWithPincode)},
		{Attributes: attrs("receiver"), Validator: Required{}, On: on(ScenarioPush, ScenarioPushWithPincode)},
		{Attributes: attrs("pincode"), Validator: Required{}, On: on(ScenarioPushWithPincode)},
		{Attributes: attrs("pincode"), Validator: Inline{Fn: checkPincode(checker)}, On: on(ScenarioPushWithPincode)},
		{Attributes: attrs("domain", "sender", "pincode"), Validator: Safe{}, On: on(ScenarioPush, ScenarioPushWithPincode)},

		{Attributes: attrs("id", "domain"), Validator: Safe{}, On: on(ScenarioBulkSetContacts)},
		{Attributes: contactAttrs, Validator: Required{}, On: on(ScenarioBulkSetContacts)},
	}
}

type remoteRefusal interface{ RemoteMessage() string }

// RemoteMessage returns the user-facing part of err: the registry's own
// message when err carries one.
func RemoteMessage(err error) string {
	var m remoteRefusal
	if errors.As(err, &m) {
		return m.RemoteMessage()
	}
	return err.Error()
}

// isRemote tells a refusal by the registry from a failure to reach it.
func isRemote(err error) bool {
	var m remoteRefusal
	return errors.As(err, &m)
}

func firstLabel(v any) any {
	if s, ok := v.(string); ok {
		return models.Label(s)
	}
	return v
}

func splitList(v any) any {
	if s, ok := v.(string); ok {
		return strs.SplitList(s)
	}
	return v
}

func dedupeHosts(v any) any {
	if isEmpty(v) {
		return v
	}
	return strs.DedupeAndTrimLower(asStrings(v))
}

func dedupe(v any) any {
	if isEmpty(v) {
		return v
	}
	return strs.DedupeAndTrim(asStrings(v))
}

func checkTransfer(checker RemoteChecker) func(context.Context, *Form, string) {
	return func(ctx context.Context, f *Form, attr string) {
		// An invalid name is already reported; the registry would only
		// echo it back.
		if f.Errors().Has("domain") {
			return
		}
		err := checker.CheckTransfer(ctx, f.String("domain"), f.String(attr))
		switch {
		case err == nil:
		case isRemote(err):
			f.AddError(attr, i18n.T(ctx, i18n.MsgWrongCode, RemoteMessage(err)))
		default:
			f.unverified(attr)
			f.AddError(attr, i18n.Translate(ctx, i18n.MsgCheckUnavailable))
		}
	}
}

func checkPincode(checker RemoteChecker) func(context.Context, *Form, string) {
	return func(ctx context.Context, f *Form, attr string) {
		userID := requestcontext.Identity(ctx).ID
		err := checker.CheckPincode(ctx, f.String(attr), userID)
		switch {
		case err == nil:
		case isRemote(err):
			f.AddError(attr, i18n.Translate(ctx, i18n.MsgWrongPincode))
		default:
			f.unverified(attr)
			f.AddError(attr, i18n.Translate(ctx, i18n.MsgCheckUnavailable))
		}
	}
}
