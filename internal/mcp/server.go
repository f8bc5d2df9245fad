// Package mcp exposes the location engine to MCP clients over stdio.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"stowage/internal/config"
	"stowage/internal/locate"
	"stowage/internal/store"
)

type Server struct {
	catalog *config.Catalog
	db      store.Store
	engine  *locate.Engine
	mcp     *sdk.Server
}

// NewServer registers every tool. A nil engine reads straight from db.
func NewServer(catalog *config.Catalog, db store.Store, engine *locate.Engine, version string) *Server {
	if engine == nil {
		engine = locate.New(db, locate.Options{})
	}
	s := &Server{
		catalog: catalog,
		db:      db,
		engine:  engine,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "stowage",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
