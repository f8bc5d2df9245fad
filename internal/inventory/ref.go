package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMover is returned when a transition row does not name exactly one mover.
var ErrInvalidMover = errors.New("transition must have exactly one mover")

// Ref identifies one entity of any kind. IDs are unique only within a kind.
type Ref struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

func (r Ref) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown entity kind: %q", r.Kind)
	}
	if r.ID <= 0 {
		return fmt.Errorf("invalid %s id: %d", r.Kind, r.ID)
	}
	return nil
}

// MoverRef is the subject of a transition: an item, container or place.
type MoverRef struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

func NewMoverRef(kind Kind, id int64) (MoverRef, error) {
	ref := MoverRef{Kind: kind, ID: id}
	if err := ref.Validate(); err != nil {
		return MoverRef{}, err
	}
	return ref, nil
}

func (m MoverRef) Validate() error {
	if err := m.Ref().Validate(); err != nil {
		return err
	}
	if !m.Kind.CanMove() {
		return fmt.Errorf("%s cannot be moved", m.Kind.Plural())
	}
	return nil
}

func (m MoverRef) Ref() Ref       { return Ref{Kind: m.Kind, ID: m.ID} }
func (m MoverRef) String() string { return m.Ref().String() }

// Columns spreads the mover over the three nullable foreign keys of a transition row.
func (m MoverRef) Columns() MoverColumns {
	id := m.ID
	switch m.Kind {
	case KindItem:
		return MoverColumns{ItemID: &id}
	case KindContainer:
		return MoverColumns{ContainerID: &id}
	case KindPlace:
		return MoverColumns{PlaceID: &id}
	}
	return MoverColumns{}
}

// DestRef is the target of a transition: a room, place, container or furniture.
type DestRef struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

func NewDestRef(kind Kind, id int64) (DestRef, error) {
	ref := DestRef{Kind: kind, ID: id}
	if err := ref.Validate(); err != nil {
		return DestRef{}, err
	}
	return ref, nil
}

func (d DestRef) Validate() error {
	if err := d.Ref().Validate(); err != nil {
		return err
	}
	if !d.Kind.CanHold() {
		return fmt.Errorf("%s cannot hold anything", d.Kind.Plural())
	}
	return nil
}

func (d DestRef) Ref() Ref       { return Ref{Kind: d.Kind, ID: d.ID} }
func (d DestRef) String() string { return d.Ref().String() }

// AsMover converts a holder that is itself movable (container or place).
func (d DestRef) AsMover() (MoverRef, bool) {
	if !d.Kind.CanMove() {
		return MoverRef{}, false
	}
	return MoverRef{Kind: d.Kind, ID: d.ID}, true
}

// AsMover converts r when its kind can move.
func (r Ref) AsMover() (MoverRef, bool) {
	if !r.Kind.CanMove() {
		return MoverRef{}, false
	}
	return MoverRef{Kind: r.Kind, ID: r.ID}, true
}

// AsDest converts r when its kind can hold.
func (r Ref) AsDest() (DestRef, bool) {
	if !r.Kind.CanHold() {
		return DestRef{}, false
	}
	return DestRef{Kind: r.Kind, ID: r.ID}, true
}

// MoverColumns mirrors the item_id/container_id/place_id columns of a stored transition.
type MoverColumns struct {
	ItemID      *int64
	ContainerID *int64
	PlaceID     *int64
}

// Ref decodes the columns, requiring exactly one to be set.
func (c MoverColumns) Ref() (MoverRef, error) {
	count := 0
	var ref MoverRef
	if c.ItemID != nil {
		count++
		ref = MoverRef{Kind: KindItem, ID: *c.ItemID}
	}
	if c.ContainerID != nil {
		count++
		ref = MoverRef{Kind: KindContainer, ID: *c.ContainerID}
	}
	if c.PlaceID != nil {
		count++
		ref = MoverRef{Kind: KindPlace, ID: *c.PlaceID}
	}
	if count != 1 {
		return MoverRef{}, ErrInvalidMover
	}
	return ref, nil
}

// ParseRef reads "kind/id" or "kind:id", e.g. "container/10".
func ParseRef(s string) (Ref, error) {
	value := strings.TrimSpace(s)
	sep := strings.IndexAny(value, "/:")
	if sep <= 0 || sep == len(value)-1 {
		return Ref{}, fmt.Errorf("invalid reference %q: expected kind/id", s)
	}
	kind, err := ParseKind(value[:sep])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid reference %q: %w", s, err)
	}
	id, err := strconv.ParseInt(value[sep+1:], 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, fmt.Errorf("invalid reference %q: bad id", s)
	}
	return Ref{Kind: kind, ID: id}, nil
}
