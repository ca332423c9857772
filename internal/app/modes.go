package app

import (
	"context"
	"fmt"

	"abilityctl/internal/mcptools"
	"abilityctl/internal/server"
	"abilityctl/pkg/logging"
)

// MCP transports served by RunMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunServer serves the HTTP API until ctx is cancelled.
func (a *Application) RunServer(ctx context.Context) error {
	srv := server.New(a.config.Abilityctl.Server, a.services.Catalog, a.services.Orchestrator, a.services.Metrics)
	logging.Info("CLI", "Starting HTTP API on %s", srv.Addr())
	return srv.Start(ctx)
}

// RunMCP serves the ability tools over MCP.
func (a *Application) RunMCP(ctx context.Context, transport, host string, port int) error {
	s := mcptools.NewServer(a.tools, a.config.Version)
	switch transport {
	case TransportStdio, "":
		return mcptools.ServeStdio(s)
	case TransportSSE:
		return mcptools.ServeSSE(ctx, s, host, port)
	default:
		return fmt.Errorf("unknown MCP transport %q (use stdio or sse)", transport)
	}
}
