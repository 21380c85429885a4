package rules

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"domainpanel/pkg/platform/validation"
)

// Form is one submission: attribute values loaded under a scenario, plus
// the field errors found by Validate.
type Form struct {
	scenario Scenario
	rules    []Rule
	values   map[string]any
	errors   validation.FieldErrors
	// unchecked holds attributes whose remote check could not run.
	unchecked []string
}

// NewForm prepares an empty form for scenario using the given rule table.
func NewForm(scenario Scenario, table []Rule) *Form {
	return &Form{
		scenario: scenario,
		rules:    table,
		values:   map[string]any{},
		errors:   validation.FieldErrors{},
	}
}

func (f *Form) Scenario() Scenario { return f.scenario }

// SafeAttributes returns the attributes Load accepts in the form's scenario:
// every attribute named by a rule active in it. When conditions are not
// consulted, so an attribute is safe even if its conditional rule will not
// run.
func (f *Form) SafeAttributes() []string {
	var attrs []string
	for _, r := range f.activeRules() {
		for _, a := range r.Attributes {
			if !slices.Contains(attrs, a) {
				attrs = append(attrs, a)
			}
		}
	}
	return attrs
}

// Load assigns the safe attributes of data and returns the names it
// dropped, sorted.
func (f *Form) Load(data map[string]any) []string {
	safe := f.SafeAttributes()
	var dropped []string
	for k, v := range data {
		if !slices.Contains(safe, k) {
			dropped = append(dropped, k)
			continue
		}
		f.values[k] = v
	}
	slices.Sort(dropped)
	return dropped
}

// Validate runs the active rules in declaration order and reports whether
// the form is free of errors. Errors from a previous run are discarded.
func (f *Form) Validate(ctx context.Context) bool {
	f.errors = validation.FieldErrors{}
	f.unchecked = nil
	for _, r := range f.activeRules() {
		if r.When != nil && !r.When(f) {
			continue
		}
		for _, attr := range r.Attributes {
			if f.errors.Has(attr) {
				continue
			}
			if skipsEmpty(r.Validator) && f.IsEmpty(attr) {
				continue
			}
			r.Validator.Validate(ctx, f, attr)
		}
	}
	return f.errors.Empty()
}

func (f *Form) activeRules() []Rule {
	active := make([]Rule, 0, len(f.rules))
	for _, r := range f.rules {
		if len(r.On) == 0 || slices.Contains(r.On, f.scenario) {
			active = append(active, r)
		}
	}
	return active
}

func (f *Form) unverified(attr string) { f.unchecked = append(f.unchecked, attr) }

// Unverified reports whether attr failed because its remote check could not
// be completed, as opposed to being refused.
func (f *Form) Unverified(attr string) bool { return slices.Contains(f.unchecked, attr) }

// Errors returns the field errors of the last Validate.
func (f *Form) Errors() validation.FieldErrors { return f.errors }

// AddError records message for attr.
func (f *Form) AddError(attr, message string) { f.errors.Add(attr, message) }

// Err returns a validation error carrying the field errors, or nil.
func (f *Form) Err() error {
	if f.errors.Empty() {
		return nil
	}
	return validation.NewError(f.errors)
}

// Values returns a copy of the assigned attributes.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *Form) Get(attr string) any { return f.values[attr] }

func (f *Form) Set(attr string, v any) { f.values[attr] = v }

// IsEmpty reports whether attr is unset, nil, a blank string or an empty
// slice or map. false and 0 are values.
func (f *Form) IsEmpty(attr string) bool {
	return isEmpty(f.values[attr])
}

// String renders attr as text; unset gives "".
func (f *Form) String(attr string) string {
	switch v := f.values[attr].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns attr as an integer. Non-numeric values give 0.
func (f *Form) Int(attr string) int64 {
	n, _ := toInt(f.values[attr])
	return n
}

// Bool returns attr as a boolean. Unparseable values give false.
func (f *Form) Bool(attr string) bool {
	b, _ := toBool(f.values[attr])
	return b
}

// Strings returns attr as a list. A single string is one element.
func (f *Form) Strings(attr string) []string {
	return asStrings(f.values[attr])
}

func asStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int:
		return b == 1, b == 0 || b == 1
	case int64:
		return b == 1, b == 0 || b == 1
	case float64:
		return b == 1, b == 0 || b == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
	}
	return false, false
}
