package ingest

import (
	"context"

	"stowage/internal/inventory"
	"stowage/internal/locate"
	"stowage/internal/logger"
)

// Store is the part of the persistence layer an import writes through.
type Store interface {
	locate.Source
	locate.Recorder
	EnsureSchema(ctx context.Context) error
	UpsertEntity(ctx context.Context, in inventory.EntityInput) (inventory.Entity, error)
}

type Result struct {
	EntitiesUpserted int
	MovesRecorded    int
	MovesSkipped     int
	Errors           []error
}

type Options struct {
	// Engine validates moves; nil builds a default engine over the store.
	Engine *locate.Engine
	Logger *logger.Logger
}
