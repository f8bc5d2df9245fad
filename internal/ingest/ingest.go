// Package ingest replays an inventory manifest into a store.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stowage/internal/config"
	"stowage/internal/inventory"
	"stowage/internal/logger"
	"stowage/internal/locate"
	"stowage/internal/parser"
)

// Run upserts the manifest's entities and records its moves. Per-row failures
// are collected in Result.Errors; only a failure that stops the whole import
// is returned as an error. Running the same manifest twice records nothing new.
func Run(ctx context.Context, manifest *parser.Manifest, catalog *config.Catalog, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	log := options.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("source", manifest.SourceFile)
	engine := options.Engine
	if engine == nil {
		engine = locate.New(db, locate.Options{Logger: log})
	}

	result := &Result{}

	// Holders first so furniture finds its room.
	entities := append([]parser.EntitySpec(nil), manifest.Entities...)
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Ref.Kind.Rank() > entities[j].Ref.Kind.Rank()
	})
	for _, spec := range entities {
		if !catalog.IsKnown(spec.Ref.Kind, spec.TypeID) {
			result.Errors = append(result.Errors, fmt.Errorf("%s: unknown %s type id %d", spec.Ref, spec.Ref.Kind, spec.TypeID))
			continue
		}
		_, err := db.UpsertEntity(ctx, inventory.EntityInput{
			Kind:   spec.Ref.Kind,
			ID:     spec.Ref.ID,
			Name:   spec.Name,
			TypeID: spec.TypeID,
			RoomID: spec.RoomID,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", spec.Ref, err))
			continue
		}
		result.EntitiesUpserted++
	}

	recorded, err := existingMoves(ctx, db, manifest.Moves)
	if err != nil {
		return nil, err
	}

	for _, move := range manifest.Moves {
		if move.At.IsZero() {
			// Untimed moves are skipped once the mover already sits there.
			latest, err := engine.LatestFor(ctx, move.Mover.Kind, []int64{move.Mover.ID})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("moving %s: %w", move.Mover, err))
				continue
			}
			if last, ok := latest[move.Mover.ID]; ok && last.Destination == move.To {
				result.MovesSkipped++
				continue
			}
		} else if _, ok := recorded[moveKey(move.Mover, move.To, move.At)]; ok {
			result.MovesSkipped++
			continue
		}

		t, err := engine.Move(ctx, db, move.Mover, move.To, move.At)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("moving %s to %s: %w", move.Mover, move.To, err))
			continue
		}
		recorded[moveKey(t.Mover, t.Destination, t.CreatedAt)] = struct{}{}
		result.MovesRecorded++
	}

	log.Info("import finished",
		"entities", result.EntitiesUpserted,
		"moves", result.MovesRecorded,
		"skipped", result.MovesSkipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

type key struct {
	mover inventory.MoverRef
	dest  inventory.DestRef
	at    int64
}

func moveKey(mover inventory.MoverRef, dest inventory.DestRef, at time.Time) key {
	return key{mover: mover, dest: dest, at: at.UnixNano()}
}

// existingMoves loads the stored history of every mover the manifest touches,
// one batched fetch per mover kind.
func existingMoves(ctx context.Context, db Store, moves []parser.MoveSpec) (map[key]struct{}, error) {
	ids := make(map[inventory.Kind][]int64)
	for _, move := range moves {
		ids[move.Mover.Kind] = append(ids[move.Mover.Kind], move.Mover.ID)
	}

	existing := make(map[key]struct{})
	for _, kind := range inventory.MoverKinds {
		if len(ids[kind]) == 0 {
			continue
		}
		transitions, err := db.FetchTransitions(ctx, inventory.TransitionFilter{MoverKind: kind, MoverIDs: ids[kind]})
		if err != nil {
			return nil, fmt.Errorf("loading recorded %s moves: %w", kind, err)
		}
		for _, t := range transitions {
			existing[moveKey(t.Mover, t.Destination, t.CreatedAt)] = struct{}{}
		}
	}
	return existing, nil
}
