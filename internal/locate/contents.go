package locate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stowage/internal/inventory"
)

// ContentsOf lists everything currently inside holder, directly or through
// nested holders. Each nesting level costs a fixed number of batched fetches
// regardless of how many entities it contains.
func (e *Engine) ContentsOf(ctx context.Context, holder inventory.Ref) (contents inventory.Contents, err error) {
	start := time.Now()
	defer func() { e.observe(ctx, "contents", start, err) }()

	if err := holder.Validate(); err != nil {
		return inventory.Contents{}, err
	}
	root, ok := holder.AsDest()
	if !ok {
		return inventory.Contents{}, fmt.Errorf("contents of %s: %w", holder, ErrNotHolder)
	}
	if _, err := e.requireLive(ctx, holder); err != nil {
		return inventory.Contents{}, err
	}

	contents = inventory.Contents{
		Holder:     root,
		Items:      []inventory.Member{},
		Containers: []inventory.Member{},
		Places:     []inventory.Member{},
		Furniture:  []inventory.Member{},
	}
	seen := map[inventory.Ref]bool{holder: true}
	frontier := []inventory.DestRef{root}

	for depth := 1; len(frontier) > 0; depth++ {
		level, err := e.collectLevel(ctx, frontier, depth)
		if err != nil {
			return inventory.Contents{}, fmt.Errorf("contents of %s at depth %d: %w", holder, depth, err)
		}
		if depth > e.maxDepth && len(level) > 0 {
			path := []inventory.Ref{holder, level[0].member.Holder.Ref(), level[0].member.Ref}
			return inventory.Contents{}, e.anomaly(holder, path, depth, false)
		}

		var next []inventory.DestRef
		for _, f := range level {
			ref := f.member.Ref
			if seen[ref] {
				if _, isHolder := ref.AsDest(); isHolder {
					path := []inventory.Ref{holder, f.member.Holder.Ref(), ref}
					return inventory.Contents{}, e.anomaly(holder, path, depth, true)
				}
				continue
			}
			seen[ref] = true
			if f.live {
				contents.Add(f.member)
			}
			// Deleted holders are not listed but what they still hold is.
			if d, ok := ref.AsDest(); ok {
				next = append(next, d)
			}
		}

		e.log.Debug("collected level", "holder", holder.String(), "depth", depth, "frontier", len(frontier), "found", len(level))
		frontier = next
	}

	contents.Sort()
	return contents, nil
}

type found struct {
	member inventory.Member
	live   bool
}

type levelFetch struct {
	dest  inventory.Kind
	mover inventory.Kind
}

// collectLevel finds the current direct members of every holder in frontier.
func (e *Engine) collectLevel(ctx context.Context, frontier []inventory.DestRef, depth int) ([]found, error) {
	byKind := make(map[inventory.Kind][]int64)
	inFrontier := make(map[inventory.DestRef]bool, len(frontier))
	for _, d := range frontier {
		byKind[d.Kind] = append(byKind[d.Kind], d.ID)
		inFrontier[d] = true
	}

	// Transitions into the frontier, one fetch per (holder kind, mover kind),
	// plus furniture standing in any frontier rooms.
	var fetches []levelFetch
	for _, kind := range inventory.Kinds {
		if len(byKind[kind]) == 0 {
			continue
		}
		for _, mover := range rules[kind].holds {
			fetches = append(fetches, levelFetch{dest: kind, mover: mover})
		}
	}
	moved := make([][]inventory.Transition, len(fetches))
	furniture := make(map[int64]int64)
	var furnitureMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fetches {
		ids := uniqueIDs(byKind[f.dest])
		g.Go(func() error {
			ts, err := e.fetchTransitions(gctx, inventory.TransitionFilter{
				MoverKind:       f.mover,
				DestinationKind: f.dest,
				DestinationIDs:  ids,
			})
			if err != nil {
				return fmt.Errorf("fetching %s moved into %s: %w", f.mover.Plural(), f.dest.Plural(), err)
			}
			moved[i] = ts
			return nil
		})
	}
	for _, kind := range inventory.Kinds {
		if !rules[kind].roomFurniture || len(byKind[kind]) == 0 {
			continue
		}
		ids := uniqueIDs(byKind[kind])
		g.Go(func() error {
			rooms, err := e.src.FetchRoomFurniture(gctx, ids)
			if err != nil {
				return fmt.Errorf("fetching furniture of %d rooms: %w", len(ids), err)
			}
			furnitureMu.Lock()
			for furnitureID, roomID := range rooms {
				furniture[furnitureID] = roomID
			}
			furnitureMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A mover counts only if its latest transition still points into the frontier.
	candidates := make(map[inventory.Kind][]int64)
	for _, ts := range moved {
		for _, t := range ts {
			candidates[t.Mover.Kind] = append(candidates[t.Mover.Kind], t.Mover.ID)
		}
	}
	latest := make(map[inventory.Kind]map[int64]inventory.Transition)
	var latestMu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	for _, kind := range inventory.MoverKinds {
		ids := candidates[kind]
		if len(ids) == 0 {
			continue
		}
		g.Go(func() error {
			l, err := e.LatestFor(gctx, kind, ids)
			if err != nil {
				return err
			}
			latestMu.Lock()
			latest[kind] = l
			latestMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var members []inventory.Member
	for _, kind := range inventory.MoverKinds {
		for _, id := range uniqueIDs(candidates[kind]) {
			t, ok := latest[kind][id]
			if !ok || !inFrontier[t.Destination] {
				continue
			}
			members = append(members, inventory.Member{
				Ref:    inventory.Ref{Kind: kind, ID: id},
				Holder: t.Destination,
				Depth:  depth,
			})
		}
	}
	furnitureIDs := make([]int64, 0, len(furniture))
	for id := range furniture {
		furnitureIDs = append(furnitureIDs, id)
	}
	sort.Slice(furnitureIDs, func(i, j int) bool { return furnitureIDs[i] < furnitureIDs[j] })
	for _, id := range furnitureIDs {
		members = append(members, inventory.Member{
			Ref:    inventory.Ref{Kind: inventory.KindFurniture, ID: id},
			Holder: inventory.DestRef{Kind: inventory.KindRoom, ID: furniture[id]},
			Depth:  depth,
		})
	}

	ids := make(map[inventory.Kind][]int64)
	for _, m := range members {
		ids[m.Ref.Kind] = append(ids[m.Ref.Kind], m.Ref.ID)
	}
	names, err := e.names(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]found, 0, len(members))
	for _, m := range members {
		name, live := names[m.Ref]
		m.Name = name
		out = append(out, found{member: m, live: live})
	}
	return out, nil
}
