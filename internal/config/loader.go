package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/abilityctl"
	projectConfigDir = ".abilityctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the abilityctl configuration by layering default, user
// and project settings. A non-empty explicitPath is applied last and must
// exist.
func LoadConfig(explicitPath string) (AbilityctlConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User configuration is optional
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if config, err = overlayFile(config, userConfigPath, false); err != nil {
		return AbilityctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	// 3. Project configuration is optional
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if config, err = overlayFile(config, projectConfigPath, false); err != nil {
		return AbilityctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	// 4. --config
	if explicitPath != "" {
		if config, err = overlayFile(config, explicitPath, true); err != nil {
			return AbilityctlConfig{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
	}

	return config, nil
}

func overlayFile(base AbilityctlConfig, path string, required bool) (AbilityctlConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return base, err
	}
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads an AbilityctlConfig from a YAML file.
func loadConfigFromFile(filePath string) (AbilityctlConfig, error) {
	var config AbilityctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return AbilityctlConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return AbilityctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Scalars override
// when set; maps merge key by key; lists replace.
func mergeConfigs(base, overlay AbilityctlConfig) AbilityctlConfig {
	merged := base

	// Logging
	merged.Logging.Level = pick(overlay.Logging.Level, base.Logging.Level)
	merged.Logging.Format = pick(overlay.Logging.Format, base.Logging.Format)

	// Catalog: a new source replaces the whole section
	if overlay.Catalog.Source != "" && overlay.Catalog.Source != base.Catalog.Source {
		merged.Catalog = overlay.Catalog
	} else {
		merged.Catalog.Path = pick(overlay.Catalog.Path, base.Catalog.Path)
		merged.Catalog.Namespace = pick(overlay.Catalog.Namespace, base.Catalog.Namespace)
		merged.Catalog.ConfigMap = pick(overlay.Catalog.ConfigMap, base.Catalog.ConfigMap)
		merged.Catalog.Kubeconfig = pick(overlay.Catalog.Kubeconfig, base.Catalog.Kubeconfig)
		merged.Catalog.Context = pick(overlay.Catalog.Context, base.Catalog.Context)
	}

	// Providers
	merged.Providers.Families = mergeMap(base.Providers.Families, overlay.Providers.Families)
	if len(overlay.Providers.ImageRequired) > 0 {
		merged.Providers.ImageRequired = overlay.Providers.ImageRequired
	}
	if len(overlay.Providers.MarketRoutes) > 0 {
		merged.Providers.MarketRoutes = overlay.Providers.MarketRoutes
	}

	// Invoker
	merged.Invoker.BaseURL = pick(overlay.Invoker.BaseURL, base.Invoker.BaseURL)
	merged.Invoker.Endpoints = mergeMap(base.Invoker.Endpoints, overlay.Invoker.Endpoints)
	merged.Invoker.Timeouts = mergeMap(base.Invoker.Timeouts, overlay.Invoker.Timeouts)
	creds := overlay.Invoker.Credentials
	merged.Invoker.Credentials.TokenURL = pick(creds.TokenURL, base.Invoker.Credentials.TokenURL)
	merged.Invoker.Credentials.ClientID = pick(creds.ClientID, base.Invoker.Credentials.ClientID)
	merged.Invoker.Credentials.ClientSecretEnv = pick(creds.ClientSecretEnv, base.Invoker.Credentials.ClientSecretEnv)
	if len(creds.Scopes) > 0 {
		merged.Invoker.Credentials.Scopes = creds.Scopes
	}
	if creds.ExpiryLeeway != 0 {
		merged.Invoker.Credentials.ExpiryLeeway = creds.ExpiryLeeway
	}

	// Server
	merged.Server.Host = pick(overlay.Server.Host, base.Server.Host)
	if overlay.Server.Port != 0 {
		merged.Server.Port = overlay.Server.Port
	}
	if len(overlay.Server.CORSOrigins) > 0 {
		merged.Server.CORSOrigins = overlay.Server.CORSOrigins
	}
	merged.Server.Dapr = base.Server.Dapr || overlay.Server.Dapr

	// Invocation log
	if len(overlay.InvocationLog.Sinks) > 0 {
		merged.InvocationLog.Sinks = overlay.InvocationLog.Sinks
	}
	merged.InvocationLog.DSN = pick(overlay.InvocationLog.DSN, base.InvocationLog.DSN)
	merged.InvocationLog.DSNEnv = pick(overlay.InvocationLog.DSNEnv, base.InvocationLog.DSNEnv)

	return merged
}

func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func mergeMap[V any](base, overlay map[string]V) map[string]V {
	if len(base) == 0 && len(overlay) == 0 {
		return base
	}
	out := make(map[string]V, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Timeout returns the configured timeout of a family, falling back to the
// synchronous default.
func (c InvokerConfig) Timeout(family string) time.Duration {
	if d, ok := c.Timeouts[family]; ok && d > 0 {
		return d
	}
	return DefaultSyncTimeout
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
