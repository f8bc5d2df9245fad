package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"stowage/internal/inventory"
)

// Catalog lists the marking types each kind of entity may carry.
type Catalog struct {
	Version int               `yaml:"version"`
	Types   map[string][]Type `yaml:"types"`

	index map[inventory.Kind]map[int64]string
}

type Type struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	if catalog.Version != 1 {
		return nil, fmt.Errorf("unsupported version: %d", catalog.Version)
	}

	catalog.index = make(map[inventory.Kind]map[int64]string)
	for name, types := range catalog.Types {
		kind, err := inventory.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if _, exists := catalog.index[kind]; exists {
			return nil, fmt.Errorf("kind %s listed twice", kind)
		}
		byID := make(map[int64]string, len(types))
		for i, t := range types {
			if t.ID <= 0 {
				return nil, fmt.Errorf("%s type %d: id must be positive", kind, i)
			}
			if strings.TrimSpace(t.Name) == "" {
				return nil, fmt.Errorf("%s type %d name is required", kind, t.ID)
			}
			if _, exists := byID[t.ID]; exists {
				return nil, fmt.Errorf("duplicate %s type id: %d", kind, t.ID)
			}
			byID[t.ID] = t.Name
		}
		catalog.index[kind] = byID
	}
	return &catalog, nil
}

// TypeName returns the name of a kind's type id.
func (c *Catalog) TypeName(kind inventory.Kind, id int64) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.index[kind][id]
	return name, ok
}

// IsKnown reports whether id is usable for kind. Zero means untyped and is
// always accepted, as is any id when no catalog is loaded.
func (c *Catalog) IsKnown(kind inventory.Kind, id int64) bool {
	if c == nil || id == 0 {
		return true
	}
	_, ok := c.TypeName(kind, id)
	return ok
}

// TypesOf lists a kind's types ordered by id.
func (c *Catalog) TypesOf(kind inventory.Kind) []Type {
	if c == nil {
		return nil
	}
	types := make([]Type, 0, len(c.index[kind]))
	for id, name := range c.index[kind] {
		types = append(types, Type{ID: id, Name: name})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types
}
