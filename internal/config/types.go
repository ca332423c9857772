package config

import (
	"time"
)

// AbilityctlConfig is the top-level configuration structure for abilityctl.
type AbilityctlConfig struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Providers     ProvidersConfig     `yaml:"providers"`
	Invoker       InvokerConfig       `yaml:"invoker"`
	Server        ServerConfig        `yaml:"server"`
	InvocationLog InvocationLogConfig `yaml:"invocationLog"`
}

// LoggingConfig selects level and output format of pkg/logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// CatalogSource names where abilities and executors are read from.
type CatalogSource string

const (
	CatalogSourceFile      CatalogSource = "file"
	CatalogSourceConfigMap CatalogSource = "configmap"
)

// CatalogConfig locates the ability and executor catalog.
type CatalogConfig struct {
	Source CatalogSource `yaml:"source,omitempty"`

	// Fields for Source = "file"
	Path string `yaml:"path,omitempty"`

	// Fields for Source = "configmap"
	Namespace  string `yaml:"namespace,omitempty"`
	ConfigMap  string `yaml:"configMap,omitempty"`
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	Context    string `yaml:"context,omitempty"`
}

// MarketRouteConfig adds an inferred market api type.
type MarketRouteConfig struct {
	Provider string `yaml:"provider"`
	Category string `yaml:"category"`
	APIType  string `yaml:"apiType"`
}

// ProvidersConfig extends the built-in provider tables.
type ProvidersConfig struct {
	// Families maps a provider name to a family: image_process, chat,
	// market or comfyui.
	Families map[string]string `yaml:"families,omitempty"`
	// ImageRequired lists image_process providers that always need an image.
	ImageRequired []string            `yaml:"imageRequired,omitempty"`
	MarketRoutes  []MarketRouteConfig `yaml:"marketRoutes,omitempty"`
}

// InvokerConfig configures the HTTP provider invoker.
type InvokerConfig struct {
	BaseURL string `yaml:"baseURL,omitempty"`
	// Endpoints maps a family to the path appended to BaseURL.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
	// Timeouts maps a family to its call timeout.
	Timeouts    map[string]time.Duration `yaml:"timeouts,omitempty"`
	Credentials CredentialsConfig        `yaml:"credentials,omitempty"`
}

// CredentialsConfig configures the OAuth2 client credentials used for
// provider backend calls. An empty TokenURL disables authentication.
type CredentialsConfig struct {
	TokenURL        string        `yaml:"tokenURL,omitempty"`
	ClientID        string        `yaml:"clientID,omitempty"`
	ClientSecretEnv string        `yaml:"clientSecretEnv,omitempty"`
	Scopes          []string      `yaml:"scopes,omitempty"`
	ExpiryLeeway    time.Duration `yaml:"expiryLeeway,omitempty"`
}

// ServerConfig configures `abilityctl serve`.
type ServerConfig struct {
	Host        string   `yaml:"host,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	CORSOrigins []string `yaml:"corsOrigins,omitempty"`
	// Dapr hosts the router inside a Dapr HTTP service.
	Dapr bool `yaml:"dapr,omitempty"`
}

// Invocation log sink names.
const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
)

// InvocationLogConfig selects where invocation log entries go.
type InvocationLogConfig struct {
	Sinks  []string `yaml:"sinks,omitempty"`
	DSN    string   `yaml:"dsn,omitempty"`
	DSNEnv string   `yaml:"dsnEnv,omitempty"`
}
