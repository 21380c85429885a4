// Package models holds the domain record projected from the provisioning
// API and the pure helpers the forms and views rely on.
package models

import (
	"strings"
	"time"

	dErrors "domainpanel/pkg/domain-errors"
)

// DefaultZone is used when a check-domain form names no zone.
const DefaultZone = "com"

// State is the lifecycle state reported by the provisioning API.
type State string

const (
	StateOK       State = "ok"
	StateIncoming State = "incoming"
	StateOutgoing State = "outgoing"
	StateExpired  State = "expired"
)

// States lists the known states in display order.
func States() []State {
	return []State{StateOK, StateIncoming, StateOutgoing, StateExpired}
}

// ParseState validates s. The empty string is rejected.
func ParseState(s string) (State, error) {
	st := State(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown domain state: "+s)
	}
	return st, nil
}

func (s State) IsValid() bool {
	switch s {
	case StateOK, StateIncoming, StateOutgoing, StateExpired:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }

// StateOption pairs a state with the untranslated label of its filter.
type StateOption struct {
	State State  `json:"state"`
	Label string `json:"label"`
}

// StateOptions returns the state filter choices. Labels are message keys
// for the i18n catalog.
func StateOptions() []StateOption {
	return []StateOption{
		{State: StateOK, Label: "Domains in «ok» state"},
		{State: StateIncoming, Label: "Incoming transfer domains"},
		{State: StateOutgoing, Label: "Outgoing transfer domains"},
		{State: StateExpired, Label: "Expired domains"},
	}
}

// ContactRole is one of the four WHOIS contact slots of a domain.
type ContactRole string

const (
	ContactRegistrant ContactRole = "registrant"
	ContactAdmin      ContactRole = "admin"
	ContactTech       ContactRole = "tech"
	ContactBilling    ContactRole = "billing"
)

// ContactRoles returns the roles in their fixed order.
func ContactRoles() []ContactRole {
	return []ContactRole{ContactRegistrant, ContactAdmin, ContactTech, ContactBilling}
}

// Contacts holds the contact object ids per role.
type Contacts struct {
	Registrant int64 `json:"registrant,omitempty"`
	Admin      int64 `json:"admin,omitempty"`
	Tech       int64 `json:"tech,omitempty"`
	Billing    int64 `json:"billing,omitempty"`
}

// Get returns the contact id for role.
func (c Contacts) Get(role ContactRole) int64 {
	switch role {
	case ContactRegistrant:
		return c.Registrant
	case ContactAdmin:
		return c.Admin
	case ContactTech:
		return c.Tech
	case ContactBilling:
		return c.Billing
	}
	return 0
}

// Domain is the local projection of a registered domain.
type Domain struct {
	ID           int64 `json:"id"`
	ZoneID       int64 `json:"zone_id,omitempty"`
	SellerID     int64 `json:"seller_id,omitempty"`
	ClientID     int64 `json:"client_id,omitempty"`
	RemoteID     int64 `json:"remoteid,omitempty"`
	DaysLeft     int64 `json:"daysleft,omitempty"`
	PremDaysLeft int64 `json:"prem_daysleft,omitempty"`

	Domain     string   `json:"domain"`
	Name       string   `json:"name,omitempty"`
	Zone       string   `json:"zone,omitempty"`
	State      State    `json:"state,omitempty"`
	LastOp     string   `json:"lastop,omitempty"`
	StateLabel string   `json:"state_label,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`

	Seller     string `json:"seller,omitempty"`
	SellerName string `json:"seller_name,omitempty"`
	Client     string `json:"client,omitempty"`
	ClientName string `json:"client_name,omitempty"`

	CreatedDate    *time.Time `json:"created_date,omitempty"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	TransferDate   *time.Time `json:"transfer_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Expires        *time.Time `json:"expires,omitempty"`
	Since          *time.Time `json:"since,omitempty"`
	PremExpires    *time.Time `json:"prem_expires,omitempty"`
	Registered     *time.Time `json:"registered,omitempty"`
	Operated       *time.Time `json:"operated,omitempty"`

	IsExpired          bool `json:"is_expired"`
	IsServed           bool `json:"is_served"`
	IsHolded           bool `json:"is_holded"`
	IsPremium          bool `json:"is_premium"`
	IsSecured          bool `json:"is_secured"`
	Freezed            bool `json:"is_freezed"`
	WPFreezed          bool `json:"wp_freezed"`
	PremiumAutorenewal bool `json:"premium_autorenewal"`
	ExpiresSoon        bool `json:"expires_soon"`
	Autorenewal        bool `json:"autorenewal"`
	WhoisProtected     bool `json:"whois_protected"`

	FOASentTo   string   `json:"foa_sent_to,omitempty"`
	Note        string   `json:"note,omitempty"`
	Nameservers []string `json:"nameservers,omitempty"`
	NSIPs       []string `json:"nsips,omitempty"`
	EPPClientID string   `json:"epp_client_id,omitempty"`
	Block       string   `json:"block,omitempty"`

	Contacts
}

// GetZone returns everything after the first dot of name
// ("example.co.uk" gives "co.uk"). A name without a dot is returned as is.
func GetZone(name string) string {
	_, zone, found := strings.Cut(name, ".")
	if !found {
		return name
	}
	return zone
}

// Label returns the part of name before the first dot.
func Label(name string) string {
	label, _, _ := strings.Cut(name, ".")
	return label
}

// ZoneOf returns the zone of the record, deriving it from the name when the
// API did not send one.
func (d *Domain) ZoneOf() string {
	if d.Zone != "" {
		return d.Zone
	}
	return GetZone(d.Domain)
}

// CanRenew reports whether a renewal may be ordered in the current state.
func (d *Domain) CanRenew() bool {
	return d.State == StateOK || d.State == StateExpired
}

// IsFreezed reports whether domain changes are frozen.
func (d *Domain) IsFreezed() bool {
	return d.Freezed
}

// IsWPFreezed reports whether WHOIS protection changes are frozen.
func (d *Domain) IsWPFreezed() bool {
	return d.WPFreezed
}

// Resource is the registration price of a zone.
type Resource struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// CheckResult is the availability of one name in one zone.
type CheckResult struct {
	// Domain is the label without the zone.
	Domain    string    `json:"domain"`
	Zone      string    `json:"zone"`
	FQDN      string    `json:"full_domain_name"`
	Available bool      `json:"is_available"`
	Resource  *Resource `json:"resource,omitempty"`
}

// NewCheckResult fills the derived names of a check.
func NewCheckResult(label, zone string, available bool) CheckResult {
	return CheckResult{
		Domain:    label,
		Zone:      zone,
		FQDN:      label + "." + zone,
		Available: available,
	}
}
