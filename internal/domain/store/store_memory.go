package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"domainpanel/internal/domain/models"
	"domainpanel/pkg/platform/sentinel"
)

// InMemoryStore is the Store used when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	domains map[int64]models.Domain
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{domains: make(map[int64]models.Domain)}
}

func (s *InMemoryStore) Upsert(_ context.Context, d *models.Domain) error {
	if d == nil || d.ID == 0 {
		return errors.New("upsert domain: id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains[d.ID] = clone(*d)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(d)
	return &out, nil
}

func (s *InMemoryStore) FindByName(_ context.Context, name string) (*models.Domain, error) {
	name = normalizeName(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.domains {
		if strings.ToLower(d.Domain) == name {
			out := clone(d)
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Domain, error) {
	f := filter.normalized()

	s.mu.RLock()
	matched := make([]models.Domain, 0, len(s.domains))
	for _, d := range s.domains {
		if matches(d, f) {
			matched = append(matched, clone(d))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b models.Domain) int {
		return order(f.Sort, f.Desc, a, b)
	})

	if f.Offset >= len(matched) {
		return []*models.Domain{}, nil
	}
	matched = matched[f.Offset:min(f.Offset+f.Limit, len(matched))]
	out := make([]*models.Domain, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func matches(d models.Domain, f ListFilter) bool {
	if f.DomainLike != "" && !strings.Contains(strings.ToLower(d.Domain), f.DomainLike) {
		return false
	}
	if f.State != "" && d.State != f.State {
		return false
	}
	if f.ClientID != 0 && d.ClientID != f.ClientID {
		return false
	}
	if f.SellerID != 0 && d.SellerID != f.SellerID {
		return false
	}
	return true
}

// Sort orders domains in place by a sortable attribute, ties broken by id.
func Sort(domains []*models.Domain, attr string, desc bool) {
	slices.SortFunc(domains, func(a, b *models.Domain) int {
		return order(attr, desc, *a, *b)
	})
}

func order(attr string, desc bool, a, b models.Domain) int {
	c := compareBy(attr, a, b)
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if desc {
		return -c
	}
	return c
}

func compareBy(attr string, a, b models.Domain) int {
	switch attr {
	case "note":
		return cmp.Compare(a.Note, b.Note)
	case "client":
		return cmp.Compare(a.Client, b.Client)
	case "seller":
		return cmp.Compare(a.Seller, b.Seller)
	case "created_date":
		return compareTime(a.CreatedDate, b.CreatedDate)
	case "expires":
		return compareTime(a.Expires, b.Expires)
	case "id":
		return cmp.Compare(a.ID, b.ID)
	default:
		return cmp.Compare(a.Domain, b.Domain)
	}
}

// compareTime orders unset times first.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func clone(d models.Domain) models.Domain {
	d.Statuses = slices.Clone(d.Statuses)
	d.Nameservers = slices.Clone(d.Nameservers)
	d.NSIPs = slices.Clone(d.NSIPs)
	return d
}
