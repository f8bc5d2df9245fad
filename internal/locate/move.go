package locate

import (
	"context"
	"fmt"
	"time"

	"stowage/internal/inventory"
)

// Move validates and records a single transition. It always works against the
// current log, even on an engine returned by AsOf. A zero at means now.
func (e *Engine) Move(ctx context.Context, rec Recorder, mover inventory.MoverRef, dest inventory.DestRef, at time.Time) (t inventory.Transition, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "move", start, err) }()

	if err := mover.Validate(); err != nil {
		return inventory.Transition{}, fmt.Errorf("moving %s: %w", mover, ErrNotMover)
	}
	if err := dest.Validate(); err != nil {
		return inventory.Transition{}, fmt.Errorf("moving %s into %s: %w", mover, dest, ErrNotHolder)
	}
	if !Accepts(dest.Kind, mover.Kind) {
		return inventory.Transition{}, fmt.Errorf("moving %s into %s: %w", mover, dest, ErrNotAccepted)
	}
	if mover.Ref() == dest.Ref() {
		return inventory.Transition{}, fmt.Errorf("moving %s into itself: %w", mover, ErrWouldCycle)
	}

	current := e
	if !e.asOf.IsZero() {
		current = e.AsOf(time.Time{})
	}
	if _, err := current.requireLive(ctx, mover.Ref(), dest.Ref()); err != nil {
		return inventory.Transition{}, err
	}

	// A holder may not end up inside something it already contains.
	if _, holder := mover.Ref().AsDest(); holder {
		chain, err := current.Resolve(ctx, dest.Ref())
		if err != nil {
			return inventory.Transition{}, fmt.Errorf("moving %s into %s: %w", mover, dest, err)
		}
		if chain.Contains(mover.Ref()) {
			return inventory.Transition{}, fmt.Errorf("moving %s into %s: %w", mover, dest, ErrWouldCycle)
		}
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}
	t, err = rec.RecordTransition(ctx, inventory.TransitionInput{
		Mover:       mover,
		Destination: dest,
		CreatedAt:   at,
	})
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("recording move of %s into %s: %w", mover, dest, err)
	}
	e.log.Info("recorded move", "mover", mover.String(), "destination", dest.String(), "transition", t.ID)
	return t, nil
}
