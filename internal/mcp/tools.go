package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"stowage/internal/config"
	"stowage/internal/inventory"
	"stowage/internal/locate"
	"stowage/internal/store"
)

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "where_is",
		Description: "Resolve the full location chain of an item, container or place",
	}, s.handleWhereIs)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "contents_of",
		Description: "List everything inside a room, furniture, place or container",
	}, s.handleContentsOf)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "quick_move",
		Description: "Move one of two scanned entities into the other, deciding the direction by kind",
	}, s.handleQuickMove)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "move_entity",
		Description: "Record a move of an entity into a destination",
	}, s.handleMoveEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_history",
		Description: "List the transitions of an entity, newest first",
	}, s.handleGetHistory)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List entities with optional filters",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_entities",
		Description: "Search entities by name",
	}, s.handleSearchEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_catalog",
		Description: "Return the marking type catalog",
	}, s.handleGetCatalog)
}

func (s *Server) handleWhereIs(ctx context.Context, req *sdk.CallToolRequest, input WhereIsInput) (*sdk.CallToolResult, WhereIsOutput, error) {
	ref, err := parseRef("ref", input.Ref)
	if err != nil {
		return nil, WhereIsOutput{}, err
	}
	engine, err := s.engineAt(input.AsOf)
	if err != nil {
		return nil, WhereIsOutput{}, err
	}
	chain, err := engine.Resolve(ctx, ref)
	if err != nil {
		return nil, WhereIsOutput{}, err
	}
	return nil, whereIsOutput(ref, chain), nil
}

func (s *Server) handleContentsOf(ctx context.Context, req *sdk.CallToolRequest, input ContentsOfInput) (*sdk.CallToolResult, ContentsOutput, error) {
	ref, err := parseRef("ref", input.Ref)
	if err != nil {
		return nil, ContentsOutput{}, err
	}
	engine, err := s.engineAt(input.AsOf)
	if err != nil {
		return nil, ContentsOutput{}, err
	}
	contents, err := engine.ContentsOf(ctx, ref)
	if err != nil {
		return nil, ContentsOutput{}, err
	}
	return nil, contentsOutput(contents, input.Direct), nil
}

func (s *Server) handleQuickMove(ctx context.Context, req *sdk.CallToolRequest, input QuickMoveInput) (*sdk.CallToolResult, MoveOutput, error) {
	first, err := parseRef("first", input.First)
	if err != nil {
		return nil, MoveOutput{}, err
	}
	second, err := parseRef("second", input.Second)
	if err != nil {
		return nil, MoveOutput{}, err
	}
	decision, t, err := s.engine.QuickMove(ctx, s.db, first, second, time.Time{})
	if err != nil {
		return nil, MoveOutput{}, err
	}
	return nil, moveOutput(decision, t), nil
}

func (s *Server) handleMoveEntity(ctx context.Context, req *sdk.CallToolRequest, input MoveEntityInput) (*sdk.CallToolResult, MoveOutput, error) {
	moverRef, err := parseRef("mover", input.Mover)
	if err != nil {
		return nil, MoveOutput{}, err
	}
	destRef, err := parseRef("to", input.To)
	if err != nil {
		return nil, MoveOutput{}, err
	}
	mover, ok := moverRef.AsMover()
	if !ok {
		return nil, MoveOutput{}, fmt.Errorf("%s: %w", moverRef, locate.ErrNotMover)
	}
	dest, ok := destRef.AsDest()
	if !ok {
		return nil, MoveOutput{}, fmt.Errorf("%s: %w", destRef, locate.ErrNotHolder)
	}
	t, err := s.engine.Move(ctx, s.db, mover, dest, time.Time{})
	if err != nil {
		return nil, MoveOutput{}, err
	}
	return nil, moveOutput(locate.Decision{Mover: mover, Destination: dest}, t), nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *sdk.CallToolRequest, input GetHistoryInput) (*sdk.CallToolResult, HistoryOutput, error) {
	ref, err := parseRef("ref", input.Ref)
	if err != nil {
		return nil, HistoryOutput{}, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}
	history, err := s.db.History(ctx, ref, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := make([]TransitionOutput, 0, len(history))
	for _, t := range history {
		output = append(output, transitionOutput(t))
	}
	return nil, HistoryOutput{Transitions: output}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	kind, err := optionalKind(input.Kind)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}
	entities, err := s.db.ListEntities(ctx, store.ListFilter{Kind: kind, IncludeDeleted: input.IncludeDeleted})
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntityOutput, 0, len(entities))
	for _, e := range entities {
		output = append(output, entityOutput(e, s.catalog))
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleSearchEntities(ctx context.Context, req *sdk.CallToolRequest, input SearchEntitiesInput) (*sdk.CallToolResult, SearchEntitiesOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchEntitiesOutput{}, fmt.Errorf("query is required")
	}
	kind, err := optionalKind(input.Kind)
	if err != nil {
		return nil, SearchEntitiesOutput{}, err
	}
	results, err := s.db.Search(ctx, input.Query, kind)
	if err != nil {
		return nil, SearchEntitiesOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, r := range results {
		output = append(output, searchResultOutput(r))
	}
	return nil, SearchEntitiesOutput{Results: output}, nil
}

func (s *Server) handleGetCatalog(ctx context.Context, req *sdk.CallToolRequest, input GetCatalogInput) (*sdk.CallToolResult, CatalogOutput, error) {
	out := CatalogOutput{Kinds: make(map[string][]config.Type)}
	for _, kind := range inventory.Kinds {
		if types := s.catalog.TypesOf(kind); len(types) > 0 {
			out.Kinds[string(kind)] = types
		}
	}
	return nil, out, nil
}

func (s *Server) engineAt(asOf string) (*locate.Engine, error) {
	if strings.TrimSpace(asOf) == "" {
		return s.engine, nil
	}
	t, err := time.Parse(time.RFC3339Nano, asOf)
	if err != nil {
		return nil, fmt.Errorf("as_of must be an RFC 3339 time: %w", err)
	}
	return s.engine.AsOf(t), nil
}

func parseRef(field, value string) (inventory.Ref, error) {
	if strings.TrimSpace(value) == "" {
		return inventory.Ref{}, fmt.Errorf("%s is required", field)
	}
	return inventory.ParseRef(value)
}

func optionalKind(value string) (inventory.Kind, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return inventory.ParseKind(value)
}
