package app

import (
	"context"
	"fmt"

	"abilityctl/internal/mcptools"
	"abilityctl/pkg/logging"
)

// Application is the main application structure that bootstraps abilityctl
type Application struct {
	config   *Config
	services *Services
	tools    *mcptools.AbilityTools
}

// NewApplication creates and initializes a new application instance
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	services, err := InitializeServices(ctx, cfg.Abilityctl)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	logging.Debug("Bootstrap", "Catalog source %s ready", cfg.Abilityctl.Catalog.Source)

	return &Application{
		config:   cfg,
		services: services,
		tools:    mcptools.NewAbilityTools(services.Catalog, services.Orchestrator),
	}, nil
}

// Services returns the initialized collaborators.
func (a *Application) Services() *Services {
	return a.services
}

// Tools returns the ability tool set backed by this application.
func (a *Application) Tools() *mcptools.AbilityTools {
	return a.tools
}

// Close releases resources held by the services.
func (a *Application) Close() error {
	return a.services.Close()
}
