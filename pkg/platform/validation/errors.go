// Package validation holds field-level validation errors shared by the rule
// engine and the HTTP layer.
package validation

import (
	"errors"
	"sort"
	"strings"

	dErrors "domainpanel/pkg/domain-errors"
)

// FieldErrors maps an attribute name to its messages in the order added.
type FieldErrors map[string][]string

// Add appends a message for attr.
func (f FieldErrors) Add(attr, message string) {
	f[attr] = append(f[attr], message)
}

// Has reports whether attr has at least one message.
func (f FieldErrors) Has(attr string) bool {
	return len(f[attr]) > 0
}

// First returns the first message for attr, or "".
func (f FieldErrors) First(attr string) string {
	if msgs := f[attr]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Empty reports whether no attribute has a message.
func (f FieldErrors) Empty() bool {
	for _, msgs := range f {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Attributes returns the attributes with errors, sorted.
func (f FieldErrors) Attributes() []string {
	attrs := make([]string, 0, len(f))
	for attr, msgs := range f {
		if len(msgs) > 0 {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)
	return attrs
}

// Error is returned by services when a form fails validation.
// It unwraps to a CodeValidation domain error.
type Error struct {
	Fields FieldErrors
}

// NewError wraps field errors; callers should check Empty first.
func NewError(fields FieldErrors) *Error {
	return &Error{Fields: fields}
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, attr := range e.Fields.Attributes() {
		parts = append(parts, attr+": "+strings.Join(e.Fields[attr], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return dErrors.New(dErrors.CodeValidation, "validation failed")
}

// Fields extracts field errors from an error chain.
func Fields(err error) (FieldErrors, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
