// Package audit routes domain audit events to the publisher that owns their
// category, after stamping them with request metadata.
package audit

import (
	"context"

	"github.com/google/uuid"

	"domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/middleware/metadata"
	"domainpanel/pkg/requestcontext"
)

// CompliancePublisher persists synchronously and reports failures.
type CompliancePublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// SecurityPublisher queues events for background delivery.
type SecurityPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// OpsTracker records best-effort operational events.
type OpsTracker interface {
	Track(ctx context.Context, event audit.Event)
}

// Auditor is the single entry point the domain service records through.
type Auditor struct {
	compliance CompliancePublisher
	security   SecurityPublisher
	ops        OpsTracker
}

// New builds an Auditor. Nil publishers drop their category.
func New(compliance CompliancePublisher, security SecurityPublisher, ops OpsTracker) *Auditor {
	return &Auditor{
		compliance: compliance,
		security:   security,
		ops:        ops,
	}
}

// Record enriches event and hands it to the publisher for its category.
// Only compliance failures are returned.
func (a *Auditor) Record(ctx context.Context, event audit.Event) error {
	if a == nil {
		return nil
	}
	event = enrich(ctx, event)

	switch event.Category {
	case audit.CategoryCompliance:
		if a.compliance == nil {
			return nil
		}
		return a.compliance.Emit(ctx, event)
	case audit.CategorySecurity:
		if a.security != nil {
			a.security.Emit(ctx, event)
		}
	default:
		if a.ops != nil {
			a.ops.Track(ctx, event)
		}
	}
	return nil
}

func enrich(ctx context.Context, event audit.Event) audit.Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.UserID == "" {
		event.UserID = requestcontext.Identity(ctx).ID
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Browser == "" && event.OS == "" {
		device := metadata.ParseDevice(requestcontext.UserAgent(ctx))
		event.Browser = device.Browser
		event.OS = device.OS
	}
	return event
}
