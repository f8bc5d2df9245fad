// Package validate audits the transition log for chains that cannot be
// trusted: cycles, dead ends, deleted holders and uncatalogued types.
package validate

import (
	"context"
	"errors"
	"fmt"

	"stowage/internal/config"
	"stowage/internal/inventory"
	"stowage/internal/locate"
	"stowage/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeCyclicChain        = "cyclic_chain"
	codeUnplacedChain      = "unplaced_chain"
	codeDeletedDestination = "deleted_destination"
	codeUnknownTypeID      = "unknown_type_id"
	codeOrphanedFurniture  = "orphaned_furniture"
)

type Issue struct {
	Severity Severity      `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Ref      inventory.Ref `json:"ref"`
	Name     string        `json:"name"`
}

type Report struct {
	Issues []Issue `json:"issues"`
	// MaxDepth is the chain length beyond which a chain counts as cyclic.
	MaxDepth int `json:"max_depth"`
}

// Count returns how many issues have the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Run audits every live entity. Movers without history are not checked.
func Run(ctx context.Context, catalog *config.Catalog, db Auditable, engine *locate.Engine) (*Report, error) {
	if db == nil {
		return nil, fmt.Errorf("store is required")
	}
	if engine == nil {
		engine = locate.New(db, locate.Options{})
	}

	entities, err := db.ListEntities(ctx, store.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	issues := make([]Issue, 0)
	byRef := make(map[inventory.Ref]inventory.Entity, len(entities))
	movers := make(map[inventory.Kind][]int64)
	var furniture []int64
	for _, e := range entities {
		byRef[e.Ref()] = e
		if catalog != nil && !catalog.IsKnown(e.Kind, e.TypeID) {
			issues = append(issues, issueFor(e, SeverityWarn, codeUnknownTypeID,
				fmt.Sprintf("type id %d is not in the %s catalog", e.TypeID, e.Kind)))
		}
		switch {
		case e.Kind == inventory.KindFurniture:
			furniture = append(furniture, e.ID)
		case e.Kind.CanMove():
			movers[e.Kind] = append(movers[e.Kind], e.ID)
		}
	}

	orphans, err := orphanedFurniture(ctx, db, furniture, byRef)
	if err != nil {
		return nil, err
	}
	issues = append(issues, orphans...)

	for _, kind := range inventory.MoverKinds {
		if len(movers[kind]) == 0 {
			continue
		}
		latest, err := engine.LatestFor(ctx, kind, movers[kind])
		if err != nil {
			return nil, fmt.Errorf("loading latest %s moves: %w", kind, err)
		}
		for _, id := range movers[kind] {
			if _, moved := latest[id]; !moved {
				continue
			}
			e := byRef[inventory.Ref{Kind: kind, ID: id}]
			chainIssues, err := auditChain(ctx, engine, e)
			if err != nil {
				return nil, err
			}
			issues = append(issues, chainIssues...)
		}
	}

	return &Report{Issues: issues, MaxDepth: engine.MaxDepth()}, nil
}

func auditChain(ctx context.Context, engine *locate.Engine, e inventory.Entity) ([]Issue, error) {
	chain, err := engine.Resolve(ctx, e.Ref())
	var anomaly *locate.AnomalyError
	switch {
	case errors.As(err, &anomaly):
		return []Issue{issueFor(e, SeverityError, codeCyclicChain, anomaly.Error())}, nil
	case errors.Is(err, locate.ErrNotFound):
		// Deleted between listing and resolving.
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("resolving %s: %w", e.Ref(), err)
	}

	var issues []Issue
	for _, step := range chain {
		if step.Gone {
			issues = append(issues, issueFor(e, SeverityWarn, codeDeletedDestination,
				fmt.Sprintf("chain passes through deleted %s", step.Ref())))
		}
	}
	if _, ok := chain.Room(); !ok {
		issues = append(issues, issueFor(e, SeverityWarn, codeUnplacedChain,
			fmt.Sprintf("chain %q does not reach a room", chain.String())))
	}
	return issues, nil
}

func orphanedFurniture(ctx context.Context, db Auditable, ids []int64, live map[inventory.Ref]inventory.Entity) ([]Issue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rooms, err := db.FetchFurnitureRooms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching furniture rooms: %w", err)
	}
	var issues []Issue
	for _, id := range ids {
		f := live[inventory.Ref{Kind: inventory.KindFurniture, ID: id}]
		roomID, ok := rooms[id]
		if !ok {
			issues = append(issues, issueFor(f, SeverityError, codeOrphanedFurniture, "furniture has no room"))
			continue
		}
		if _, ok := live[inventory.Ref{Kind: inventory.KindRoom, ID: roomID}]; !ok {
			issues = append(issues, issueFor(f, SeverityError, codeOrphanedFurniture,
				fmt.Sprintf("room %d is missing or deleted", roomID)))
		}
	}
	return issues, nil
}

func issueFor(e inventory.Entity, severity Severity, code, message string) Issue {
	return Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		Ref:      e.Ref(),
		Name:     e.Name,
	}
}
