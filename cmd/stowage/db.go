package main

import (
	"context"
	"fmt"
	"path/filepath"

	"stowage/internal/config"
	"stowage/internal/locate"
	"stowage/internal/logger"
	"stowage/internal/metrics"
	"stowage/internal/store"
	"stowage/internal/store/postgres"
	"stowage/internal/store/sqlite"
)

func openDB(ctx context.Context, dsn string) (store.Store, error) {
	backend, err := config.Backend(dsn)
	if err != nil {
		return nil, err
	}
	if backend == "postgres" {
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	db, err := sqlite.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// app bundles what every command needs once the project config is loaded.
type app struct {
	cfg     *config.ProjectConfig
	catalog *config.Catalog
	log     *logger.Logger
	db      store.Store
	metrics *metrics.Recorder
	engine  *locate.Engine
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode, verbose)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	var catalog *config.Catalog
	if cfg.Catalog != "" {
		path := cfg.Catalog
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(configPath), path)
		}
		catalog, err = config.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
	}

	db, err := openDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}

	rec := metrics.NewRecorder()
	engine := locate.New(metrics.Instrument(db, rec), locate.Options{
		MaxDepth: cfg.Resolver.MaxDepth,
		Logger:   log,
		Metrics:  rec,
	})
	return &app{cfg: cfg, catalog: catalog, log: log, db: db, metrics: rec, engine: engine}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.db.Close(ctx); err != nil {
		a.log.Warn("closing store", "error", err)
	}
	a.log.Sync()
}
