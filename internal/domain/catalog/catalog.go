// Package catalog groups zones into marketing categories and special lists.
// The groups are configuration: a YAML file, or the bundled defaults.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed zone_categories.yaml
var defaultYAML []byte

// Group is a named list of zones.
type Group struct {
	Name  string   `yaml:"name" json:"name"`
	Zones []string `yaml:"zones" json:"zones"`
}

// Catalog holds the category and special groups in file order.
type Catalog struct {
	Categories []Group `yaml:"categories" json:"categories"`
	Special    []Group `yaml:"special" json:"special"`
}

// Default returns the bundled catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("bundled zone categories: %v", err))
	}
	return c
}

// Load reads a catalog from path. An empty path gives the defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone categories: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Group names must be unique within a section.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing zone categories: %w", err)
	}
	for section, groups := range map[string][]Group{"categories": c.Categories, "special": c.Special} {
		seen := map[string]bool{}
		for _, g := range groups {
			if g.Name == "" {
				return nil, fmt.Errorf("parsing zone categories: unnamed group in %s", section)
			}
			if seen[g.Name] {
				return nil, fmt.Errorf("parsing zone categories: duplicate group %q in %s", g.Name, section)
			}
			seen[g.Name] = true
		}
	}
	return &c, nil
}

// Category returns the first category listing zone, or "".
func (c *Catalog) Category(zone string) string {
	return firstGroup(c.Categories, zone)
}

// SpecialOf returns the first special group listing zone, or "".
func (c *Catalog) SpecialOf(zone string) string {
	return firstGroup(c.Special, zone)
}

// FilterClasses returns "<category> <special>" for zone, used as filter
// classes of a check line. Missing parts are left empty.
func (c *Catalog) FilterClasses(zone string) string {
	return c.Category(zone) + " " + c.SpecialOf(zone)
}

// CategoryCount counts the zones that belong to category. An unknown
// category counts nothing.
func (c *Catalog) CategoryCount(category string, zones []string) int {
	idx := slices.IndexFunc(c.Categories, func(g Group) bool { return g.Name == category })
	if idx < 0 {
		return 0
	}
	n := 0
	for _, z := range zones {
		if slices.Contains(c.Categories[idx].Zones, z) {
			n++
		}
	}
	return n
}

func firstGroup(groups []Group, zone string) string {
	for _, g := range groups {
		if slices.Contains(g.Zones, zone) {
			return g.Name
		}
	}
	return ""
}
