package app

import (
	"context"
	"fmt"

	"abilityctl/internal/catalog"
	"abilityctl/internal/config"
	"abilityctl/internal/credentials"
	"abilityctl/internal/invocationlog"
	"abilityctl/internal/invoke"
	"abilityctl/internal/metrics"
	"abilityctl/internal/provider"
	"abilityctl/pkg/logging"
)

// Services holds all the initialized collaborators of the orchestrator.
type Services struct {
	Catalog      catalog.Store
	Registry     *provider.Registry
	Credentials  *credentials.Cache
	Invoker      invoke.Invoker
	Sink         invocationlog.Sink
	Metrics      *metrics.Recorder
	Orchestrator *invoke.Orchestrator

	closeSink func() error
}

// InitializeServices creates every collaborator named by configuration.
func InitializeServices(ctx context.Context, cfg config.AbilityctlConfig) (*Services, error) {
	store, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	creds, err := credentials.FromConfig(cfg.Invoker.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to configure provider credentials: %w", err)
	}
	if creds == nil {
		logging.Debug("Bootstrap", "No token URL configured, provider calls are unauthenticated")
	}

	sink, closeSink, err := invocationlog.Open(cfg.InvocationLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open invocation log: %w", err)
	}

	svc := &Services{
		Catalog:     store,
		Registry:    invoke.NewRegistry(cfg.Providers),
		Credentials: creds,
		Invoker:     invoke.NewHTTPInvoker(cfg.Invoker, creds, nil),
		Sink:        sink,
		Metrics:     metrics.New(),
		closeSink:   closeSink,
	}
	svc.Orchestrator = invoke.New(invoke.Config{
		Catalog:  svc.Catalog,
		Registry: svc.Registry,
		Invoker:  svc.Invoker,
		Sink:     svc.Sink,
		Metrics:  svc.Metrics,
		Timeouts: cfg.Invoker.Timeouts,
	})
	return svc, nil
}

// Close releases the invocation log sinks.
func (s *Services) Close() error {
	if s == nil || s.closeSink == nil {
		return nil
	}
	return s.closeSink()
}
