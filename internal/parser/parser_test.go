package parser

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stowage/internal/inventory"
)

func TestParseFile(t *testing.T) {
	manifest, err := ParseFile(filepath.Join("testdata", "garage.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(manifest.Entities) != 5 || len(manifest.Moves) != 4 {
		t.Fatalf("expected 5 entities and 4 moves, got %d and %d", len(manifest.Entities), len(manifest.Moves))
	}
	if manifest.SourceFile == "" {
		t.Fatalf("expected source file")
	}

	rack := manifest.Entities[1]
	if rack.Ref != (inventory.Ref{Kind: inventory.KindFurniture, ID: 2}) || rack.RoomID != 7 || rack.Name != "Metal rack" {
		t.Fatalf("unexpected furniture spec: %+v", rack)
	}
	if manifest.Entities[3].TypeID != 3 {
		t.Fatalf("expected toolbox type 3, got %d", manifest.Entities[3].TypeID)
	}

	first := manifest.Moves[0]
	if first.Mover != (inventory.MoverRef{Kind: inventory.KindPlace, ID: 3}) || first.To != (inventory.DestRef{Kind: inventory.KindFurniture, ID: 2}) {
		t.Fatalf("unexpected move: %+v", first)
	}
	if !first.At.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", first.At)
	}
	if !manifest.Moves[2].At.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bare date not parsed: %v", manifest.Moves[2].At)
	}
	if !manifest.Moves[3].At.IsZero() {
		t.Fatalf("missing time should stay zero, got %v", manifest.Moves[3].At)
	}
}

func TestParse(t *testing.T) {
	t.Run("moves only", func(t *testing.T) {
		manifest, err := Parse([]byte("moves:\n  - { mover: item/1, to: room/2 }\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(manifest.Entities) != 0 || len(manifest.Moves) != 1 {
			t.Fatalf("unexpected manifest: %+v", manifest)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("entities: [\n"))
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		_, err := Parse([]byte("entities: []\n"))
		if !errors.Is(err, ErrEmptyManifest) {
			t.Fatalf("expected ErrEmptyManifest, got %v", err)
		}
	})

	invalid := []struct {
		name     string
		contents string
	}{
		{"bad ref", "entities:\n  - { ref: drawer/1, name: X }\n"},
		{"missing name", "entities:\n  - { ref: item/1 }\n"},
		{"negative type id", "entities:\n  - { ref: item/1, name: X, type_id: -1 }\n"},
		{"furniture without room", "entities:\n  - { ref: furniture/1, name: Desk }\n"},
		{"room on a non-furniture entity", "entities:\n  - { ref: item/1, name: X, room: 7 }\n"},
		{"duplicate ref", "entities:\n  - { ref: item/1, name: X }\n  - { ref: items/1, name: Y }\n"},
		{"room as mover", "moves:\n  - { mover: room/1, to: room/2 }\n"},
		{"item as destination", "moves:\n  - { mover: item/1, to: item/2 }\n"},
		{"bad time", "moves:\n  - { mover: item/1, to: room/2, at: yesterday }\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.contents)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
