// Package view shapes service results into the payloads the panel renders:
// the domain index with its sorter and the lines of an availability check.
package view

import (
	"context"

	"domainpanel/internal/domain/i18n"
	"domainpanel/internal/domain/models"
	"domainpanel/internal/domain/store"
)

// Column is one grid column.
type Column struct {
	Attribute string `json:"attribute"`
	Label     string `json:"label"`
}

// SortLink is one sorter entry. Desc is the direction a click would apply.
type SortLink struct {
	Attribute string `json:"attribute"`
	Label     string `json:"label"`
	Active    bool   `json:"active"`
	Desc      bool   `json:"desc"`
}

// Index is the domain list page.
type Index struct {
	Title    string               `json:"title"`
	Subtitle string               `json:"subtitle"`
	Columns  []Column             `json:"columns"`
	Sorter   []SortLink           `json:"sorter"`
	States   []models.StateOption `json:"states"`
	Domains  []*models.Domain     `json:"domains"`
	Stale    bool                 `json:"stale,omitempty"`
}

// DefaultRepresentation is used for unknown representation names.
const DefaultRepresentation = "common"

var representations = map[string][]string{
	DefaultRepresentation: {
		"domain", "note", "client", "seller", "state",
		"whois_protected", "is_secured", "created_date", "expires", "autorenewal",
	},
	"nss": {"domain", "nameservers", "nsips", "state"},
}

// Representations lists the known representation names.
func Representations() []string {
	return []string{DefaultRepresentation, "nss"}
}

// IndexInput is what the index is rendered from.
type IndexInput struct {
	Domains        []*models.Domain
	Filter         store.ListFilter
	Filtered       bool
	Stale          bool
	Representation string
}

// NewIndex builds the list page. Filtered selects the "filtered list"
// subtitle: it is set when the request carried any non-empty filter value.
func NewIndex(ctx context.Context, in IndexInput) Index {
	subtitle := i18n.Translate(ctx, i18n.MsgFullList)
	if in.Filtered {
		subtitle = i18n.Translate(ctx, i18n.MsgFilteredList)
	}

	attrs, ok := representations[in.Representation]
	if !ok {
		attrs = representations[DefaultRepresentation]
	}
	columns := make([]Column, 0, len(attrs))
	for _, attr := range attrs {
		columns = append(columns, Column{Attribute: attr, Label: i18n.TLabel(ctx, attr)})
	}

	sorter := make([]SortLink, 0, len(store.SortAttributes))
	for _, attr := range store.SortAttributes {
		active := attr == in.Filter.Sort
		sorter = append(sorter, SortLink{
			Attribute: attr,
			Label:     i18n.TLabel(ctx, attr),
			Active:    active,
			Desc:      active && !in.Filter.Desc,
		})
	}

	states := models.StateOptions()
	for i := range states {
		states[i].Label = i18n.Translate(ctx, states[i].Label)
	}

	domains := in.Domains
	if domains == nil {
		domains = []*models.Domain{}
	}
	return Index{
		Title:    i18n.Translate(ctx, i18n.MsgDomains),
		Subtitle: subtitle,
		Columns:  columns,
		Sorter:   sorter,
		States:   states,
		Domains:  domains,
		Stale:    in.Stale,
	}
}
