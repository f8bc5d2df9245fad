package store

import (
	"context"
	"time"

	"stowage/internal/inventory"
	"stowage/internal/locate"
)

// Store is the persistence layer. The embedded interfaces are all the
// location engine needs; the rest serves the CLI, the importer and the MCP server.
type Store interface {
	locate.Source
	locate.Recorder

	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertEntity(ctx context.Context, in inventory.EntityInput) (inventory.Entity, error)
	GetEntity(ctx context.Context, ref inventory.Ref) (*inventory.Entity, error)
	ListEntities(ctx context.Context, filter ListFilter) ([]inventory.Entity, error)
	SoftDeleteEntity(ctx context.Context, ref inventory.Ref, at time.Time) (bool, error)

	History(ctx context.Context, ref inventory.Ref, limit int) ([]inventory.Transition, error)
	Search(ctx context.Context, query string, kind inventory.Kind) ([]SearchResult, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
