// Package parser reads inventory manifests: the entities to create and the
// moves to replay into the transition log.
package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stowage/internal/inventory"
)

type Manifest struct {
	Entities   []EntitySpec
	Moves      []MoveSpec
	SourceFile string
}

type EntitySpec struct {
	Ref    inventory.Ref
	Name   string
	TypeID int64
	// RoomID is required for furniture and rejected for every other kind.
	RoomID int64
}

type MoveSpec struct {
	Mover inventory.MoverRef
	To    inventory.DestRef
	// At is zero when the manifest gives no time; the move is then recorded now.
	At time.Time
}

var (
	ErrInvalidYAML   = errors.New("invalid YAML in manifest")
	ErrEmptyManifest = errors.New("manifest has no entities and no moves")
)

type rawManifest struct {
	Entities []rawEntity `yaml:"entities"`
	Moves    []rawMove   `yaml:"moves"`
}

type rawEntity struct {
	Ref    string `yaml:"ref"`
	Name   string `yaml:"name"`
	TypeID int64  `yaml:"type_id"`
	Room   int64  `yaml:"room"`
}

type rawMove struct {
	Mover string `yaml:"mover"`
	To    string `yaml:"to"`
	At    string `yaml:"at"`
}

func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	manifest, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	manifest.SourceFile = path
	return manifest, nil
}

func Parse(content []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if len(raw.Entities) == 0 && len(raw.Moves) == 0 {
		return nil, ErrEmptyManifest
	}

	manifest := &Manifest{
		Entities: make([]EntitySpec, 0, len(raw.Entities)),
		Moves:    make([]MoveSpec, 0, len(raw.Moves)),
	}
	seen := make(map[inventory.Ref]struct{}, len(raw.Entities))
	for i, e := range raw.Entities {
		spec, err := parseEntity(e)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		if _, exists := seen[spec.Ref]; exists {
			return nil, fmt.Errorf("entity %d: duplicate ref %s", i, spec.Ref)
		}
		seen[spec.Ref] = struct{}{}
		manifest.Entities = append(manifest.Entities, spec)
	}
	for i, m := range raw.Moves {
		spec, err := parseMove(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		manifest.Moves = append(manifest.Moves, spec)
	}
	return manifest, nil
}

func parseEntity(raw rawEntity) (EntitySpec, error) {
	ref, err := inventory.ParseRef(raw.Ref)
	if err != nil {
		return EntitySpec{}, err
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return EntitySpec{}, fmt.Errorf("%s: name is required", ref)
	}
	if raw.TypeID < 0 {
		return EntitySpec{}, fmt.Errorf("%s: type_id must not be negative", ref)
	}
	if ref.Kind == inventory.KindFurniture {
		if raw.Room <= 0 {
			return EntitySpec{}, fmt.Errorf("%s: furniture needs a room", ref)
		}
	} else if raw.Room != 0 {
		return EntitySpec{}, fmt.Errorf("%s: only furniture has a room", ref)
	}
	return EntitySpec{Ref: ref, Name: name, TypeID: raw.TypeID, RoomID: raw.Room}, nil
}

func parseMove(raw rawMove) (MoveSpec, error) {
	moverRef, err := inventory.ParseRef(raw.Mover)
	if err != nil {
		return MoveSpec{}, fmt.Errorf("mover: %w", err)
	}
	mover, ok := moverRef.AsMover()
	if !ok {
		return MoveSpec{}, fmt.Errorf("%s cannot be moved", moverRef)
	}
	destRef, err := inventory.ParseRef(raw.To)
	if err != nil {
		return MoveSpec{}, fmt.Errorf("to: %w", err)
	}
	dest, ok := destRef.AsDest()
	if !ok {
		return MoveSpec{}, fmt.Errorf("%s cannot hold anything", destRef)
	}
	at, err := parseTime(raw.At)
	if err != nil {
		return MoveSpec{}, err
	}
	return MoveSpec{Mover: mover, To: dest, At: at}, nil
}

// parseTime accepts RFC 3339 timestamps and bare dates.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}
