package app

import (
	"abilityctl/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Abilityctl is the loaded, layered configuration.
	Abilityctl config.AbilityctlConfig

	// Version is reported by the MCP server.
	Version string
}

// NewConfig creates a new application configuration
func NewConfig(cfg config.AbilityctlConfig, version string) *Config {
	if version == "" {
		version = "dev"
	}
	return &Config{
		Abilityctl: cfg,
		Version:    version,
	}
}
