package mcptools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"abilityctl/pkg/logging"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with the ability tools registered.
func NewServer(tools *AbilityTools, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"abilityctl",
		version,
		server.WithToolCapabilities(true),
	)
	tools.Register(s)
	return s
}

// ServeStdio serves MCP over stdin and stdout.
func ServeStdio(s *server.MCPServer) error {
	logging.Info("MCPTools", "Serving MCP tools on stdio")
	return server.ServeStdio(s)
}

// ServeSSE serves MCP over server-sent events until ctx is cancelled.
func ServeSSE(ctx context.Context, s *server.MCPServer, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	sse := server.NewSSEServer(s,
		server.WithBaseURL("http://"+addr),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
	)

	errCh := make(chan error, 1)
	go func() {
		logging.Info("MCPTools", "Serving MCP tools on %s", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return sse.Shutdown(context.Background())
	}
}
