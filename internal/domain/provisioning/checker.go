package provisioning

import (
	"context"
)

// Checker runs the remote checks used during form validation.
type Checker struct {
	performer Performer
}

func NewChecker(p Performer) *Checker {
	return &Checker{performer: p}
}

// CheckTransfer verifies the EPP code of a domain with the registry.
func (c *Checker) CheckTransfer(ctx context.Context, domain, password string) error {
	_, err := c.performer.Perform(ctx, Call{
		Entity:    "domain",
		Operation: "CheckTransfer",
		Payload:   map[string]any{"domain": domain, "password": password},
	})
	return err
}

// CheckPincode verifies the pincode of the acting client.
func (c *Checker) CheckPincode(ctx context.Context, pincode, userID string) error {
	_, err := c.performer.Perform(ctx, Call{
		Entity:    "client",
		Operation: "CheckPincode",
		Payload:   map[string]any{"pincode": pincode, "id": userID},
	})
	return err
}
