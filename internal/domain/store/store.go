// Package store keeps the local projection of domains. The provisioning API
// stays authoritative; records here are refreshed after every call.
package store

import (
	"context"
	"slices"
	"strings"

	"domainpanel/internal/domain/models"
)

// Store persists domain projections.
type Store interface {
	Upsert(ctx context.Context, d *models.Domain) error
	FindByID(ctx context.Context, id int64) (*models.Domain, error)
	FindByName(ctx context.Context, name string) (*models.Domain, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Domain, error)
}

// SortAttributes are the attributes List can order by.
var SortAttributes = []string{"domain", "note", "client", "seller", "created_date", "expires", "id"}

// DefaultLimit caps a List without an explicit limit.
const DefaultLimit = 25

// ListFilter narrows a List. Zero values do not filter.
type ListFilter struct {
	// DomainLike matches names containing the text, ignoring case.
	DomainLike string
	State      models.State
	ClientID   int64
	SellerID   int64
	Sort       string
	Desc       bool
	Limit      int
	Offset     int
}

// IsEmpty reports whether the filter narrows nothing, paging aside.
func (f ListFilter) IsEmpty() bool {
	return f.DomainLike == "" && f.State == "" && f.ClientID == 0 && f.SellerID == 0
}

// ValidSort reports whether attr is a sortable attribute. Empty is allowed.
func ValidSort(attr string) bool {
	return attr == "" || slices.Contains(SortAttributes, attr)
}

func (f ListFilter) normalized() ListFilter {
	if f.Sort == "" {
		f.Sort = "domain"
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.DomainLike = strings.ToLower(strings.TrimSpace(f.DomainLike))
	return f
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
