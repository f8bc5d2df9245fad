package config

import (
	"path/filepath"
	"testing"

	"stowage/internal/inventory"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("valid catalog loads", func(t *testing.T) {
		catalog, err := LoadCatalog(filepath.Join("testdata", "valid_catalog.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if name, ok := catalog.TypeName(inventory.KindContainer, 3); !ok || name != "Toolbox" {
			t.Fatalf("expected Toolbox, got %q", name)
		}
	})

	invalid := []struct {
		name     string
		contents string
	}{
		{"unsupported version", "version: 2\n"},
		{"unknown kind", "version: 1\ntypes:\n  drawer:\n    - { id: 1, name: Deep }\n"},
		{"duplicate id", "version: 1\ntypes:\n  item:\n    - { id: 1, name: Tool }\n    - { id: 1, name: Part }\n"},
		{"zero id", "version: 1\ntypes:\n  item:\n    - { id: 0, name: Tool }\n"},
		{"missing name", "version: 1\ntypes:\n  item:\n    - { id: 4 }\n"},
		{"kind listed twice", "version: 1\ntypes:\n  item: []\n  Item: []\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.contents)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCatalogHelpers(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join("testdata", "valid_catalog.yaml"))
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	t.Run("IsKnown", func(t *testing.T) {
		if !catalog.IsKnown(inventory.KindItem, 2) {
			t.Fatalf("expected item type 2 to be known")
		}
		if catalog.IsKnown(inventory.KindItem, 9) {
			t.Fatalf("expected item type 9 to be unknown")
		}
		if catalog.IsKnown(inventory.KindRoom, 1) {
			t.Fatalf("rooms have no types")
		}
		if !catalog.IsKnown(inventory.KindRoom, 0) {
			t.Fatalf("zero means untyped")
		}
	})

	t.Run("TypesOf ordered by id", func(t *testing.T) {
		types := catalog.TypesOf(inventory.KindContainer)
		if len(types) != 2 || types[0].ID != 1 || types[1].ID != 3 {
			t.Fatalf("unexpected types: %+v", types)
		}
	})

	t.Run("nil catalog accepts everything", func(t *testing.T) {
		var none *Catalog
		if !none.IsKnown(inventory.KindItem, 42) {
			t.Fatalf("expected nil catalog to accept any id")
		}
		if _, ok := none.TypeName(inventory.KindItem, 42); ok {
			t.Fatalf("nil catalog has no names")
		}
	})
}
