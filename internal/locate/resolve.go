package locate

import (
	"context"
	"fmt"
	"time"

	"stowage/internal/inventory"
)

// Resolve walks from ref up to its room, one latest transition per hop.
// An entity that was never placed yields an empty chain. A chain that stops
// at a holder with no placement of its own is returned as is.
func (e *Engine) Resolve(ctx context.Context, ref inventory.Ref) (chain inventory.Chain, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "resolve", start, err) }()

	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.requireLive(ctx, ref); err != nil {
		return nil, err
	}

	chain = inventory.Chain{}
	path := []inventory.Ref{ref}
	visited := map[inventory.Ref]bool{ref: true}
	current := ref
	for {
		loc, placed, err := e.step(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", ref, err)
		}
		if !placed {
			break
		}
		next := loc.Ref()
		if visited[next] {
			return nil, e.anomaly(ref, append(path, next), len(chain)+1, true)
		}
		if len(chain) >= e.maxDepth {
			return nil, e.anomaly(ref, append(path, next), len(chain)+1, false)
		}
		visited[next] = true
		path = append(path, next)
		chain = append(chain, loc)
		current = next
	}

	if err := e.nameChain(ctx, chain); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", ref, err)
	}
	return chain, nil
}

// step finds where current is placed, following the rule for its kind.
func (e *Engine) step(ctx context.Context, current inventory.Ref) (inventory.Location, bool, error) {
	switch rules[current.Kind].placement {
	case placedAtRoot:
		return inventory.Location{}, false, nil

	case placedByForeignKey:
		rooms, err := e.src.FetchFurnitureRooms(ctx, []int64{current.ID})
		if err != nil {
			return inventory.Location{}, false, fmt.Errorf("fetching room of %s: %w", current, err)
		}
		roomID, ok := rooms[current.ID]
		if !ok {
			return inventory.Location{}, false, nil
		}
		return inventory.Location{Kind: inventory.KindRoom, ID: roomID, Fixed: true}, true, nil

	default:
		latest, err := e.LatestFor(ctx, current.Kind, []int64{current.ID})
		if err != nil {
			return inventory.Location{}, false, err
		}
		t, ok := latest[current.ID]
		if !ok {
			return inventory.Location{}, false, nil
		}
		return inventory.Location{
			Kind:    t.Destination.Kind,
			ID:      t.Destination.ID,
			MovedAt: t.CreatedAt,
		}, true, nil
	}
}

// nameChain fills in names with one lookup per kind present in the chain.
// Steps whose entity is gone keep their place in the chain.
func (e *Engine) nameChain(ctx context.Context, chain inventory.Chain) error {
	ids := make(map[inventory.Kind][]int64)
	for _, loc := range chain {
		ids[loc.Kind] = append(ids[loc.Kind], loc.ID)
	}
	names, err := e.names(ctx, ids)
	if err != nil {
		return err
	}
	for i := range chain {
		name, ok := names[chain[i].Ref()]
		chain[i].Name = name
		chain[i].Gone = !ok
	}
	return nil
}

func (e *Engine) anomaly(start inventory.Ref, path []inventory.Ref, depth int, cycle bool) error {
	err := &AnomalyError{
		Start: start,
		Path:  append([]inventory.Ref(nil), path...),
		Depth: depth,
		Limit: e.maxDepth,
		Cycle: cycle,
	}
	e.log.Warn("location anomaly", "start", start.String(), "depth", depth, "cycle", cycle, "error", err.Error())
	return err
}
