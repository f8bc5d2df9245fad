// Package locate derives where storage objects are, and what they hold,
// from the append-only transition log.
package locate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stowage/internal/inventory"
	"stowage/internal/logger"
)

// DefaultMaxDepth bounds chain length and containment nesting. Real
// inventories need at most item > container > place > furniture > room.
const DefaultMaxDepth = 6

type Options struct {
	MaxDepth int
	Logger   *logger.Logger
	Metrics  MetricsRecorder
}

// Engine resolves locations on demand. It keeps no state between calls and is
// safe for concurrent use.
type Engine struct {
	src      Source
	maxDepth int
	log      *logger.Logger
	metrics  MetricsRecorder
	asOf     time.Time
}

func New(src Source, opts Options) *Engine {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{src: src, maxDepth: depth, log: log, metrics: opts.Metrics}
}

// AsOf returns an engine that ignores transitions recorded after t.
// A zero t means now.
func (e *Engine) AsOf(t time.Time) *Engine {
	cp := *e
	cp.asOf = t
	return &cp
}

func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

func (e *Engine) observe(ctx context.Context, op string, start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.Observe(ctx, op, err == nil, time.Since(start))
}

func (e *Engine) fetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error) {
	filter.Until = e.asOf
	transitions, err := e.src.FetchTransitions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if e.asOf.IsZero() {
		return transitions, nil
	}
	visible := transitions[:0:0]
	for _, t := range transitions {
		if !t.CreatedAt.After(e.asOf) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// names looks up live entity names for several kinds at once, one call per kind.
func (e *Engine) names(ctx context.Context, ids map[inventory.Kind][]int64) (map[inventory.Ref]string, error) {
	out := make(map[inventory.Ref]string)
	for _, kind := range inventory.Kinds {
		batch := uniqueIDs(ids[kind])
		if len(batch) == 0 {
			continue
		}
		names, err := e.src.FetchEntityNames(ctx, kind, batch)
		if err != nil {
			return nil, fmt.Errorf("fetching %s names: %w", kind, err)
		}
		for id, name := range names {
			out[inventory.Ref{Kind: kind, ID: id}] = name
		}
	}
	return out, nil
}

// requireLive returns NotFoundError for refs that are missing or deleted.
func (e *Engine) requireLive(ctx context.Context, refs ...inventory.Ref) (map[inventory.Ref]string, error) {
	ids := make(map[inventory.Kind][]int64)
	for _, ref := range refs {
		ids[ref.Kind] = append(ids[ref.Kind], ref.ID)
	}
	names, err := e.names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if _, ok := names[ref]; !ok {
			return nil, &NotFoundError{Ref: ref}
		}
	}
	return names, nil
}

func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
