package store

import (
	"errors"
	"fmt"

	"stowage/internal/inventory"
)

// ErrDestinationGone is returned when a transition targets a missing or deleted holder.
var ErrDestinationGone = errors.New("destination does not exist or was deleted")

type ListFilter struct {
	// Kind limits the listing to one kind; empty lists every kind.
	Kind           inventory.Kind
	IncludeDeleted bool
}

type SearchResult struct {
	Ref     inventory.Ref `json:"ref"`
	Name    string        `json:"name"`
	Score   float64       `json:"score"`
	Snippet string        `json:"snippet,omitempty"`
}

// DefaultHistoryLimit caps History when the caller passes zero.
const DefaultHistoryLimit = 100

// MoverColumn names the transitions column that holds movers of kind.
func MoverColumn(kind inventory.Kind) (string, error) {
	switch kind {
	case inventory.KindItem:
		return "item_id", nil
	case inventory.KindContainer:
		return "container_id", nil
	case inventory.KindPlace:
		return "place_id", nil
	}
	return "", fmt.Errorf("%s cannot be moved", kind.Plural())
}

// Table names the table storing entities of kind.
func Table(kind inventory.Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown entity kind: %q", kind)
	}
	return kind.Plural(), nil
}

// FilterIsEmpty reports whether filter cannot match any row without a query.
func FilterIsEmpty(filter inventory.TransitionFilter) bool {
	return len(filter.MoverIDs) == 0 && len(filter.DestinationIDs) == 0
}
