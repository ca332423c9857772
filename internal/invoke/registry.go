package invoke

import (
	"abilityctl/internal/config"
	"abilityctl/internal/provider"
	"abilityctl/internal/routing"
)

// NewRegistry builds the adapter registry from provider configuration:
// extra family mappings, image-required providers and market routes on top
// of the built-in tables.
func NewRegistry(cfg config.ProvidersConfig) *provider.Registry {
	reg := provider.NewRegistry(cfg.Families)

	imageRequired := append([]string{"baidu"}, cfg.ImageRequired...)
	reg.Register(provider.NewImageProcessAdapter(imageRequired...))

	if len(cfg.MarketRoutes) > 0 {
		routes := make(map[provider.MarketRoute]string, len(provider.DefaultMarketRoutes)+len(cfg.MarketRoutes))
		for k, v := range provider.DefaultMarketRoutes {
			routes[k] = v
		}
		for _, r := range cfg.MarketRoutes {
			routes[provider.MarketRoute{
				Provider: routing.NormalizeToken(r.Provider),
				Category: routing.NormalizeToken(r.Category),
			}] = r.APIType
		}
		reg.Register(provider.NewMarketAdapter(routes))
	}
	return reg
}
