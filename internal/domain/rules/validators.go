package rules

import (
	"context"
	"net/mail"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/models"
)

// Rule binds a validator to attributes. On limits it to scenarios (empty
// means every scenario); When gates it per submission.
type Rule struct {
	Attributes []string
	Validator  Validator
	On         []Scenario
	When       func(*Form) bool
}

// Validator checks one attribute of a form, recording errors on it and
// optionally normalizing its value.
type Validator interface {
	Validate(ctx context.Context, f *Form, attr string)
}

// emptyRunner is implemented by validators that must also see empty values.
type emptyRunner interface {
	runsOnEmpty()
}

func skipsEmpty(v Validator) bool {
	_, ok := v.(emptyRunner)
	return !ok
}

// Safe marks attributes as loadable without checking them.
type Safe struct{}

func (Safe) Validate(context.Context, *Form, string) {}

// Required rejects empty values.
type Required struct{}

func (Required) runsOnEmpty() {}

func (Required) Validate(ctx context.Context, f *Form, attr string) {
	if f.IsEmpty(attr) {
		f.AddError(attr, i18n.T(ctx, i18n.MsgRequired, i18n.TLabel(ctx, attr)))
	}
}

// Integer accepts whole numbers and numeric strings, storing an int64.
type Integer struct{}

func (Integer) Validate(ctx context.Context, f *Form, attr string) {
	n, ok := toInt(f.Get(attr))
	if !ok {
		f.AddError(attr, i18n.T(ctx, i18n.MsgInteger, i18n.TLabel(ctx, attr)))
		return
	}
	f.Set(attr, n)
}

// Boolean accepts bools, 0/1 and their string forms, storing a bool.
type Boolean struct{}

func (Boolean) Validate(ctx context.Context, f *Form, attr string) {
	b, ok := toBool(f.Get(attr))
	if !ok {
		f.AddError(attr, i18n.T(ctx, i18n.MsgBoolean, i18n.TLabel(ctx, attr)))
		return
	}
	f.Set(attr, b)
}

// Date accepts time.Time or a string in any of models.DateLayouts, storing
// a time.Time.
type Date struct{}

func (Date) Validate(ctx context.Context, f *Form, attr string) {
	switch v := f.Get(attr).(type) {
	case time.Time:
		return
	case string:
		if t, err := models.ParseDate(v); err == nil {
			f.Set(attr, t)
			return
		}
	}
	f.AddError(attr, i18n.T(ctx, i18n.MsgDate, i18n.TLabel(ctx, attr)))
}

// Email accepts a bare address without a display name.
type Email struct{}

func (Email) Validate(ctx context.Context, f *Form, attr string) {
	v := f.String(attr)
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		f.AddError(attr, i18n.T(ctx, i18n.MsgEmail, i18n.TLabel(ctx, attr)))
	}
}

// DomainName accepts a fully qualified name with at least two labels.
// Internationalized names are stored in their lowercase ASCII form.
type DomainName struct{}

func (DomainName) Validate(ctx context.Context, f *Form, attr string) {
	ascii, ok := normalizeDomain(f.String(attr))
	if !ok || !strings.Contains(ascii, ".") {
		f.AddError(attr, i18n.T(ctx, i18n.MsgDomainName, i18n.TLabel(ctx, attr)))
		return
	}
	f.Set(attr, ascii)
}

// DomainPart accepts a single label or a dotted name whose labels are all
// valid host labels. The error names the offending value.
type DomainPart struct{}

func (DomainPart) Validate(ctx context.Context, f *Form, attr string) {
	v := f.String(attr)
	if _, ok := normalizeDomain(v); !ok {
		f.AddError(attr, i18n.T(ctx, i18n.MsgDomainPart, v))
	}
}

func normalizeDomain(name string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return "", false
	}
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", false
	}
	ascii = strings.ToLower(ascii)
	if _, ok := dns.IsDomainName(ascii); !ok {
		return "", false
	}
	for _, label := range dns.SplitDomainName(ascii) {
		if !isHostLabel(label) {
			return "", false
		}
	}
	return ascii, true
}

func isHostLabel(label string) bool {
	if label == "" || label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

// NSIP accepts an IPv4 or IPv6 address of a name server.
type NSIP struct{}

func (NSIP) Validate(ctx context.Context, f *Form, attr string) {
	addr, err := netip.ParseAddr(strings.TrimSpace(f.String(attr)))
	if err != nil {
		f.AddError(attr, i18n.T(ctx, i18n.MsgIP, i18n.TLabel(ctx, attr)))
		return
	}
	f.Set(attr, addr.String())
}

// Each applies Rule to every element of a list attribute and stores the
// normalized elements. The first failing element stops the check.
type Each struct {
	Rule Validator
}

func (e Each) Validate(ctx context.Context, f *Form, attr string) {
	items := f.Strings(attr)
	out := make([]string, 0, len(items))
	for _, value := range items {
		item := NewForm(f.scenario, nil)
		item.Set(attr, value)
		e.Rule.Validate(ctx, item, attr)
		if msg := item.Errors().First(attr); msg != "" {
			f.AddError(attr, msg)
			return
		}
		out = append(out, item.String(attr))
	}
	f.Set(attr, out)
}

// Filter replaces the value with Fn(value). It also runs on empty values.
type Filter struct {
	Fn func(any) any
}

func (Filter) runsOnEmpty() {}

func (v Filter) Validate(_ context.Context, f *Form, attr string) {
	f.Set(attr, v.Fn(f.Get(attr)))
}

// Trim strips surrounding whitespace from string values.
type Trim struct{}

func (Trim) runsOnEmpty() {}

func (Trim) Validate(_ context.Context, f *Form, attr string) {
	if s, ok := f.Get(attr).(string); ok {
		f.Set(attr, strings.TrimSpace(s))
	}
}

// Default sets Value when the attribute is empty.
type Default struct {
	Value any
}

func (Default) runsOnEmpty() {}

func (v Default) Validate(_ context.Context, f *Form, attr string) {
	if f.IsEmpty(attr) {
		f.Set(attr, v.Value)
	}
}

// Inline runs Fn, which records its own errors. Used for checks that need
// the rest of the form or a remote call.
type Inline struct {
	Fn func(ctx context.Context, f *Form, attr string)
}

func (v Inline) Validate(ctx context.Context, f *Form, attr string) {
	v.Fn(ctx, f, attr)
}
