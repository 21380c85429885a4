package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// Categories pick the publisher and the retention of an event.
type EventCategory string

const (
	// CategoryCompliance covers changes of ownership or registrant data.
	// Written synchronously; a failed write is reported to the caller.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers credential changes, locks and failed
	// verification attempts. Buffered and flushed in the background.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine administration. May be sampled.
	CategoryOperations EventCategory = "operations"
)

// Action names what happened to a domain.
type Action string

const (
	ActionDomainTransferRequested  Action = "domain_transfer_requested"
	ActionDomainContactsChanged    Action = "domain_contacts_changed"
	ActionDomainPushed             Action = "domain_pushed"
	ActionDomainRenewed            Action = "domain_renewed"
	ActionDomainPasswordRegenerate Action = "domain_password_regenerated"
	ActionDomainLockChanged        Action = "domain_lock_changed"
	ActionDomainWhoisProtectChange Action = "domain_whois_protect_changed"
	ActionDomainFreezeEnabled      Action = "domain_freeze_enabled"
	ActionDomainFreezeDisabled     Action = "domain_freeze_disabled"
	ActionTransferCodeRejected     Action = "transfer_code_rejected"
	ActionPincodeRejected          Action = "pincode_rejected"
	ActionOwnershipDenied          Action = "ownership_denied"
	ActionDomainNoteChanged        Action = "domain_note_changed"
	ActionDomainAutorenewalChanged Action = "domain_autorenewal_changed"
	ActionDomainNameserversChanged Action = "domain_nameservers_changed"
	ActionDomainSynced             Action = "domain_synced"
	ActionDomainChecked            Action = "domain_checked"
)

var actionCategories = map[Action]EventCategory{
	ActionDomainTransferRequested: CategoryCompliance,
	ActionDomainContactsChanged:   CategoryCompliance,
	ActionDomainPushed:            CategoryCompliance,
	ActionDomainRenewed:           CategoryCompliance,

	ActionDomainPasswordRegenerate: CategorySecurity,
	ActionDomainLockChanged:        CategorySecurity,
	ActionDomainWhoisProtectChange: CategorySecurity,
	ActionDomainFreezeEnabled:      CategorySecurity,
	ActionDomainFreezeDisabled:     CategorySecurity,
	ActionTransferCodeRejected:     CategorySecurity,
	ActionPincodeRejected:          CategorySecurity,
	ActionOwnershipDenied:          CategorySecurity,
}

// Category returns the category of the action. Unknown actions are
// operational.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted by the domain service after a submission. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string        `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    Action        `json:"action"`
	// UserID is the panel account that submitted the form.
	UserID string `json:"user_id,omitempty"`
	// Subject is the domain name, or the batch description for bulk forms.
	Subject  string `json:"subject"`
	DomainID string `json:"domain_id,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`

	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
}

// Decisions recorded on events.
const (
	DecisionSucceeded = "succeeded"
	DecisionRejected  = "rejected"
	DecisionFailed    = "failed"
)

// Store appends events to a sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader lists stored events for the operator endpoints.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
