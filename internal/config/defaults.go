package config

import (
	"time"
)

// Default call timeouts per provider family.
const (
	DefaultSyncTimeout    = 60 * time.Second
	DefaultMarketTimeout  = 180 * time.Second
	DefaultComfyUITimeout = 600 * time.Second
)

// GetDefaultConfig returns the built-in configuration. It reads a catalog
// file from the working directory and logs invocations to the process log.
func GetDefaultConfig() AbilityctlConfig {
	return AbilityctlConfig{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Catalog: CatalogConfig{
			Source: CatalogSourceFile,
			Path:   "catalog.yaml",
		},
		Invoker: InvokerConfig{
			BaseURL: "http://localhost:8000",
			Endpoints: map[string]string{
				"image_process": "/invoke/image-process",
				"chat":          "/invoke/chat",
				"market":        "/invoke/market",
				"comfyui":       "/invoke/comfyui",
			},
			Timeouts: map[string]time.Duration{
				"image_process": DefaultSyncTimeout,
				"chat":          DefaultSyncTimeout,
				"market":        DefaultMarketTimeout,
				"comfyui":       DefaultComfyUITimeout,
			},
			Credentials: CredentialsConfig{
				ExpiryLeeway: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		InvocationLog: InvocationLogConfig{
			Sinks: []string{SinkLog},
		},
	}
}
