package validate

import (
	"context"

	"stowage/internal/inventory"
	"stowage/internal/locate"
	"stowage/internal/store"
)

// Auditable is what an audit reads: the engine's source plus entity listings.
type Auditable interface {
	locate.Source
	ListEntities(ctx context.Context, filter store.ListFilter) ([]inventory.Entity, error)
}
