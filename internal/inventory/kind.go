package inventory

import (
	"fmt"
	"strings"
)

// Kind names one of the five storage object tables.
type Kind string

const (
	KindItem      Kind = "item"
	KindContainer Kind = "container"
	KindPlace     Kind = "place"
	KindFurniture Kind = "furniture"
	KindRoom      Kind = "room"
)

// Kinds lists every kind from lowest to highest containment rank.
var Kinds = []Kind{KindItem, KindContainer, KindPlace, KindFurniture, KindRoom}

// MoverKinds lists the kinds that appear as the subject of a transition.
var MoverKinds = []Kind{KindItem, KindContainer, KindPlace}

// Rank orders kinds by containment priority: a higher rank can hold a lower one.
// Unknown kinds rank 0.
func (k Kind) Rank() int {
	switch k {
	case KindItem:
		return 1
	case KindContainer:
		return 2
	case KindPlace:
		return 3
	case KindFurniture:
		return 4
	case KindRoom:
		return 5
	default:
		return 0
	}
}

func (k Kind) Valid() bool {
	return k.Rank() > 0
}

// CanMove reports whether entities of this kind are recorded as movers.
func (k Kind) CanMove() bool {
	return k == KindItem || k == KindContainer || k == KindPlace
}

// CanHold reports whether entities of this kind can be a transition destination
// (or, for rooms, hold furniture by foreign key).
func (k Kind) CanHold() bool {
	return k == KindContainer || k == KindPlace || k == KindFurniture || k == KindRoom
}

func (k Kind) String() string {
	return string(k)
}

// Plural is used for table names and output headings.
func (k Kind) Plural() string {
	switch k {
	case KindFurniture:
		return "furniture"
	case "":
		return ""
	default:
		return string(k) + "s"
	}
}

// ParseKind accepts singular or plural kind names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if value == string(k) || value == k.Plural() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind: %q", s)
}
