package locate

import (
	"errors"
	"fmt"
	"strings"

	"stowage/internal/inventory"
)

var (
	ErrNotFound      = errors.New("entity not found")
	ErrDepthExceeded = errors.New("location depth exceeded")
	ErrInvalidPair   = errors.New("invalid quick move pair")
	ErrWouldCycle    = errors.New("move would place an entity inside itself")
	ErrNotHolder     = errors.New("entity cannot hold other entities")
	ErrNotMover      = errors.New("entity cannot be moved")
	ErrNotAccepted   = errors.New("destination cannot hold this kind of entity")
)

// NotFoundError reports a missing or soft-deleted entity.
type NotFoundError struct {
	Ref inventory.Ref
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Ref)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AnomalyError means the transition graph could not be walked to an end,
// most likely because it contains a cycle.
type AnomalyError struct {
	Start inventory.Ref
	Path  []inventory.Ref
	Depth int
	Limit int
	// Cycle is set when a ref was seen twice rather than the limit being reached.
	Cycle bool
}

func (e *AnomalyError) Error() string {
	parts := make([]string, 0, len(e.Path))
	for _, ref := range e.Path {
		parts = append(parts, ref.String())
	}
	reason := fmt.Sprintf("depth %d exceeds limit %d", e.Depth, e.Limit)
	if e.Cycle {
		reason = fmt.Sprintf("cycle at depth %d", e.Depth)
	}
	return fmt.Sprintf("resolving %s: %s (path %s)", e.Start, reason, strings.Join(parts, " -> "))
}

func (e *AnomalyError) Is(target error) bool {
	return target == ErrDepthExceeded
}
