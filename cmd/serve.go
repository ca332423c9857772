package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"abilityctl/internal/app"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var host string
	var port int
	var dapr bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ability HTTP API",
		Long: `Starts the HTTP API over the configured catalog: resolution, schema
parsing, request building, workflow validation, result normalization and
invocation under /v1, plus /health, /metrics and /swagger/.

With --dapr the router is hosted as a Dapr HTTP service so a sidecar can
route service invocations to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadedConfig
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if dapr {
				cfg.Server.Dapr = true
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			application, err := app.NewApplication(ctx, app.NewConfig(cfg, rootCmd.Version))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()
			return application.RunServer(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "localhost", "listen host")
	cmd.Flags().IntVar(&port, "port", 8090, "listen port")
	cmd.Flags().BoolVar(&dapr, "dapr", false, "host the API as a Dapr HTTP service")
	return cmd
}

func newMCPCmd() *cobra.Command {
	var transport, host string
	var port int

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ability tools over MCP",
		Long: `Serves ability_list, ability_resolve, ability_schema,
ability_build_request, workflow_validate_mapping and ability_invoke as MCP
tools. The stdio transport suits AI assistants that spawn abilityctl; the
sse transport serves other abilityctl commands using --remote.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			application, err := app.NewApplication(ctx, app.NewConfig(loadedConfig, rootCmd.Version))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()
			return application.RunMCP(ctx, transport, host, port)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", app.TransportStdio, "stdio or sse")
	cmd.Flags().StringVar(&host, "host", "localhost", "SSE listen host")
	cmd.Flags().IntVar(&port, "port", 8091, "SSE listen port")
	return cmd
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
}
