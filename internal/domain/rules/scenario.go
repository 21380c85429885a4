// Package rules is the scenario-keyed validation used by every domain form.
// A form is loaded and validated against the rules active in its scenario
// before any remote operation is performed.
package rules

import (
	"strings"
)

// Scenario names a form submission. It selects the active rules and the
// remote operation the submission maps to.
type Scenario string

const (
	ScenarioDefault         Scenario = "default"
	ScenarioSetNote         Scenario = "set-note"
	ScenarioSetContacts     Scenario = "set-contacts"
	ScenarioSetLock         Scenario = "set-lock"
	ScenarioSetWhoisProtect Scenario = "set-whois-protect"
	ScenarioSetAutorenewal  Scenario = "set-autorenewal"
	ScenarioSync            Scenario = "sync"
	ScenarioOnlyObject      Scenario = "only-object"
	ScenarioRegenPassword   Scenario = "regen-password"
	ScenarioEnableFreeze    Scenario = "enable-freeze"
	ScenarioDisableFreeze   Scenario = "disable-freeze"
	ScenarioCheckDomain     Scenario = "check-domain"
	ScenarioTransfer        Scenario = "transfer"
	ScenarioSetNSs          Scenario = "set-nss"
	ScenarioGetZones        Scenario = "get-zones"
	ScenarioPush            Scenario = "push"
	ScenarioPushWithPincode Scenario = "push-with-pincode"
	ScenarioBulkSetContacts Scenario = "bulk-set-contacts"
)

// Scenarios lists every known scenario.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioDefault, ScenarioSetNote, ScenarioSetContacts, ScenarioSetLock,
		ScenarioSetWhoisProtect, ScenarioSetAutorenewal, ScenarioSync,
		ScenarioOnlyObject, ScenarioRegenPassword, ScenarioEnableFreeze,
		ScenarioDisableFreeze, ScenarioCheckDomain, ScenarioTransfer,
		ScenarioSetNSs, ScenarioGetZones, ScenarioPush,
		ScenarioPushWithPincode, ScenarioBulkSetContacts,
	}
}

func (s Scenario) String() string { return string(s) }

// IsValid reports whether s is a known scenario.
func (s Scenario) IsValid() bool {
	for _, known := range Scenarios() {
		if s == known {
			return true
		}
	}
	return false
}

// EntityDomain is the remote entity domain forms operate on.
const EntityDomain = "domain"

// commandOverrides maps scenarios whose remote command is not
// domain<CamelScenario>.
var commandOverrides = map[Scenario][2]string{
	ScenarioGetZones: {"aux", "GetZones"},
	ScenarioSetNSs:   {EntityDomain, "SetNSs"},
}

// Command returns the remote entity and operation a submission of s maps to:
// "set-note" gives ("domain", "SetNote").
func (s Scenario) Command() (entity, operation string) {
	if o, ok := commandOverrides[s]; ok {
		return o[0], o[1]
	}
	return EntityDomain, camel(string(s))
}

// Operation is the operation part of Command.
func (s Scenario) Operation() string {
	_, op := s.Command()
	return op
}

func camel(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' }) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
