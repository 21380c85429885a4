// Package cloudflare serves provisioning calls from the Cloudflare Registrar
// API. Only the operations the registrar exposes are supported; the rest are
// refused with an "operation not supported" remote error. The API takes no
// transfer codes, so transfers cannot be checked or requested through it.
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/cloudflare/cloudflare-go"

	"domainpanel/internal/domain/provisioning"
	"domainpanel/pkg/platform/sentinel"
)

// Name is the backend name in configuration.
const Name = "cloudflare"

func init() {
	provisioning.Register(Name, Build)
}

// registrarAPI is the part of *cloudflare.API the backend uses.
type registrarAPI interface {
	RegistrarDomain(ctx context.Context, accountID, domainName string) (cloudflare.RegistrarDomain, error)
	UpdateRegistrarDomain(ctx context.Context, accountID, domainName string, domainConfiguration cloudflare.RegistrarDomainConfiguration) (cloudflare.RegistrarDomain, error)
}

// Registrar performs calls against one Cloudflare account.
type Registrar struct {
	api       registrarAPI
	accountID string
	logger    *slog.Logger
}

// Build creates the backend from the API token and account id.
func Build(opts provisioning.Options) (provisioning.Performer, error) {
	if opts.CloudflareToken == "" || opts.CloudflareAccount == "" {
		return nil, fmt.Errorf("cloudflare: require [token, account]")
	}
	api, err := cloudflare.NewWithAPIToken(opts.CloudflareToken)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: %w", err)
	}
	return New(api, opts.CloudflareAccount, opts.Logger), nil
}

func New(api registrarAPI, accountID string, logger *slog.Logger) *Registrar {
	return &Registrar{api: api, accountID: accountID, logger: logger}
}

func (r *Registrar) Perform(ctx context.Context, call provisioning.Call) (provisioning.Result, error) {
	if call.Entity != "domain" || call.Batch || call.Operation == "CheckTransfer" || call.Operation == "Transfer" {
		return nil, provisioning.Unsupported(call)
	}
	name := strings.ToLower(fmt.Sprint(call.Payload["domain"]))
	if call.Payload["domain"] == nil || name == "" {
		return nil, &provisioning.RemoteError{Command: call.Command(), Message: "domain is required"}
	}

	var (
		d   cloudflare.RegistrarDomain
		err error
	)
	switch call.Operation {
	case "GetInfo":
		d, err = r.api.RegistrarDomain(ctx, r.accountID, name)
	case "SetLock":
		d, err = r.update(ctx, name, func(c *cloudflare.RegistrarDomainConfiguration) {
			c.Locked = truthy(call.Payload["enable"])
		})
	case "SetWhoisProtect":
		d, err = r.update(ctx, name, func(c *cloudflare.RegistrarDomainConfiguration) {
			c.Privacy = truthy(call.Payload["enable"])
		})
	case "SetAutorenewal":
		d, err = r.update(ctx, name, func(c *cloudflare.RegistrarDomainConfiguration) {
			c.AutoRenew = truthy(call.Payload["autorenewal"])
		})
	case "SetNSs":
		d, err = r.update(ctx, name, func(c *cloudflare.RegistrarDomainConfiguration) {
			c.NameServers = toStrings(call.Payload["nameservers"])
		})
	default:
		return nil, provisioning.Unsupported(call)
	}
	if err != nil {
		return nil, r.translate(call, err)
	}
	return toResult(name, d), nil
}

// update sends a full configuration. The registrar does not report privacy
// or auto-renew state, so only the lock state is carried over.
func (r *Registrar) update(ctx context.Context, name string, set func(*cloudflare.RegistrarDomainConfiguration)) (cloudflare.RegistrarDomain, error) {
	current, err := r.api.RegistrarDomain(ctx, r.accountID, name)
	if err != nil {
		return cloudflare.RegistrarDomain{}, err
	}
	cfg := cloudflare.RegistrarDomainConfiguration{Locked: current.Locked}
	set(&cfg)
	return r.api.UpdateRegistrarDomain(ctx, r.accountID, name, cfg)
}

// translate keeps transport failures as errors and turns API refusals into
// remote errors with the API's message.
func (r *Registrar) translate(call provisioning.Call, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return fmt.Errorf("cloudflare: %s: %w: %w", call.Command(), sentinel.ErrUnavailable, err)
	}
	return &provisioning.RemoteError{Command: call.Command(), Message: err.Error()}
}

func toResult(name string, d cloudflare.RegistrarDomain) provisioning.Result {
	res := provisioning.Result{
		"domain":            name,
		"remote_id":         d.ID,
		"is_secured":        d.Locked,
		"is_available":      d.Available,
		"can_register":      d.CanRegister,
		"supported_tld":     d.SupportedTLD,
		"current_registrar": d.CurrentRegistrar,
	}
	if d.RegistryStatuses != "" {
		res["statuses"] = strings.Split(d.RegistryStatuses, ",")
	}
	if !d.ExpiresAt.IsZero() {
		res["expires"] = d.ExpiresAt.Format(time.RFC3339)
	}
	if !d.CreatedAt.IsZero() {
		res["created_date"] = d.CreatedAt.Format(time.RFC3339)
	}
	return res
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}
