package locate

import (
	"context"
	"fmt"
	"sort"

	"stowage/internal/inventory"
)

// LatestFor returns the most recent transition of each mover in one batched
// fetch. Movers that never moved are absent from the map.
func (e *Engine) LatestFor(ctx context.Context, kind inventory.Kind, ids []int64) (map[int64]inventory.Transition, error) {
	if !kind.CanMove() {
		return nil, fmt.Errorf("latest transitions for %s: %w", kind.Plural(), ErrNotMover)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return map[int64]inventory.Transition{}, nil
	}

	transitions, err := e.fetchTransitions(ctx, inventory.TransitionFilter{
		MoverKind: kind,
		MoverIDs:  ids,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching transitions for %d %s: %w", len(ids), kind.Plural(), err)
	}

	latest := LatestByMover(transitions)
	for id, t := range latest {
		if t.Mover.Kind != kind {
			delete(latest, id)
		}
	}
	return latest, nil
}

// LatestByMover keeps the newest transition per mover id. Transitions are
// scanned newest first so the first one seen for a mover wins. The input must
// hold a single mover kind.
func LatestByMover(transitions []inventory.Transition) map[int64]inventory.Transition {
	sorted := make([]inventory.Transition, len(transitions))
	copy(sorted, transitions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Newer(sorted[j])
	})

	latest := make(map[int64]inventory.Transition)
	for _, t := range sorted {
		if _, seen := latest[t.Mover.ID]; seen {
			continue
		}
		latest[t.Mover.ID] = t
	}
	return latest
}
