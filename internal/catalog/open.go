package catalog

import (
	"context"
	"fmt"

	"abilityctl/internal/config"
)

// Open creates the store selected by configuration.
func Open(ctx context.Context, cfg config.CatalogConfig) (Store, error) {
	switch cfg.Source {
	case config.CatalogSourceFile, "":
		return NewFileStore(cfg.Path)
	case config.CatalogSourceConfigMap:
		if cfg.Namespace == "" || cfg.ConfigMap == "" {
			return nil, fmt.Errorf("catalog source configmap requires namespace and configMap")
		}
		client, err := NewClientset(cfg.Kubeconfig, cfg.Context)
		if err != nil {
			return nil, err
		}
		return NewConfigMapStore(ctx, client, cfg.Namespace, cfg.ConfigMap, "")
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
