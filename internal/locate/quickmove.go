package locate

import (
	"context"
	"fmt"
	"time"

	"stowage/internal/inventory"
)

// Decision is the outcome of a two-scan quick move.
type Decision struct {
	Mover       inventory.MoverRef `json:"mover"`
	Destination inventory.DestRef  `json:"destination"`
}

// DecideQuickMove picks mover and destination from two scanned refs. The
// lower-ranked kind moves into the higher-ranked one, so the result does not
// depend on scan order. ok is false for pairs that cannot form a move: equal
// kinds, a lower kind that cannot move, or a higher kind that cannot hold it.
func DecideQuickMove(first, second inventory.Ref) (Decision, bool) {
	if first.Validate() != nil || second.Validate() != nil {
		return Decision{}, false
	}
	low, high := first, second
	if low.Kind.Rank() > high.Kind.Rank() {
		low, high = high, low
	}
	if low.Kind.Rank() == high.Kind.Rank() {
		return Decision{}, false
	}

	mover, ok := low.AsMover()
	if !ok {
		return Decision{}, false
	}
	dest, ok := high.AsDest()
	if !ok || !Accepts(dest.Kind, mover.Kind) {
		return Decision{}, false
	}
	return Decision{Mover: mover, Destination: dest}, true
}

// QuickMove decides the pair and records the move. A zero at means now.
func (e *Engine) QuickMove(ctx context.Context, rec Recorder, first, second inventory.Ref, at time.Time) (Decision, inventory.Transition, error) {
	decision, ok := DecideQuickMove(first, second)
	if !ok {
		return Decision{}, inventory.Transition{}, fmt.Errorf("quick move %s and %s: %w", first, second, ErrInvalidPair)
	}
	t, err := e.Move(ctx, rec, decision.Mover, decision.Destination, at)
	if err != nil {
		return decision, inventory.Transition{}, err
	}
	return decision, t, nil
}
