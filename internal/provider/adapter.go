package provider

import (
	"fmt"
	"strings"
	"sync"

	"abilityctl/internal/api"
	"abilityctl/internal/routing"
	"abilityctl/pkg/logging"
)

// Family groups providers that share one request and response shape.
type Family string

const (
	FamilyImageProcess Family = "image_process"
	FamilyChat         Family = "chat"
	FamilyMarket       Family = "market"
	FamilyComfyUI      Family = "comfyui"
)

// DefaultFamilies maps normalized provider names to their family.
var DefaultFamilies = map[string]Family{
	"baidu":      FamilyImageProcess,
	"volcengine": FamilyChat,
	"openai":     FamilyChat,
	"deepseek":   FamilyChat,
	"kie":        FamilyMarket,
	"comfyui":    FamilyComfyUI,
}

// BuildInput carries everything a builder may read for one invocation.
type BuildInput struct {
	Ability    *api.Ability
	ExecutorID string
	// SchemaDefaults are the declared field defaults, converted to wire
	// types. They sit below the ability defaults.
	SchemaDefaults map[string]interface{}
	// SchemaValues are already converted to wire types.
	SchemaValues map[string]interface{}
	// Override is an ad-hoc JSON object typed by the caller.
	Override    string
	ImageURL    string
	ImageBase64 string
	SubmitOnly  bool
}

// Request is a built provider payload ready for the invoker.
type Request struct {
	Family     Family             `json:"family"`
	Provider   string             `json:"provider"`
	ExecutorID string             `json:"executor_id,omitempty"`
	Context    api.AbilityContext `json:"context"`
	Payload    interface{}        `json:"payload"`
}

// Adapter builds requests for and normalizes responses from one provider
// family.
type Adapter interface {
	Family() Family
	BuildRequest(in BuildInput) (*Request, error)
	Normalize(provider string, raw interface{}) api.InvocationResult
}

// Registry selects adapters by provider discriminant.
type Registry struct {
	mu        sync.RWMutex
	adapters  map[Family]Adapter
	providers map[string]Family
}

// NewRegistry creates a registry with the default provider table and the
// standard adapters. families extends or overrides the provider table.
func NewRegistry(families map[string]string) *Registry {
	r := &Registry{
		adapters:  make(map[Family]Adapter),
		providers: make(map[string]Family),
	}
	for p, f := range DefaultFamilies {
		r.providers[p] = f
	}
	for p, f := range families {
		r.providers[routing.NormalizeToken(p)] = Family(strings.TrimSpace(f))
	}

	r.Register(NewImageProcessAdapter("baidu"))
	r.Register(NewChatAdapter())
	r.Register(NewMarketAdapter(nil))
	r.Register(NewComfyUIAdapter())
	return r
}

// Register installs or replaces the adapter of its family.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Family()] = a
	logging.Debug("Provider", "Registered adapter for family %s", a.Family())
}

// Families returns a copy of the provider table.
func (r *Registry) Families() map[string]Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Family, len(r.providers))
	for k, v := range r.providers {
		out[k] = v
	}
	return out
}

// FamilyFor picks the family of an ability. Abilities of type comfyui always
// use the comfyui family.
func (r *Registry) FamilyFor(ability *api.Ability) (Family, error) {
	if ability == nil {
		return "", api.NewValidationError("ability", "ability is required")
	}
	if ability.AbilityType == api.AbilityTypeComfyUI {
		return FamilyComfyUI, nil
	}
	return r.familyForProvider(ability.Provider)
}

func (r *Registry) familyForProvider(provider string) (Family, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.providers[routing.NormalizeToken(provider)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", api.ErrUnknownProvider, provider)
}

// Adapter returns the adapter registered for family.
func (r *Registry) Adapter(family Family) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: family %q", api.ErrUnknownProvider, family)
	}
	return a, nil
}

// Build resolves the ability's adapter and builds its request.
func (r *Registry) Build(in BuildInput) (*Request, error) {
	family, err := r.FamilyFor(in.Ability)
	if err != nil {
		return nil, err
	}
	a, err := r.Adapter(family)
	if err != nil {
		return nil, err
	}
	req, err := a.BuildRequest(in)
	if err != nil {
		return nil, err
	}
	logging.Debug("Provider", "Built %s request for ability %s", family, in.Ability.ID)
	return req, nil
}

// Normalize maps a raw provider response into the common result shape.
// Providers without a known family fall back to generic extraction.
func (r *Registry) Normalize(provider string, raw interface{}) api.InvocationResult {
	family, err := r.familyForProvider(provider)
	if err == nil {
		if a, aerr := r.Adapter(family); aerr == nil {
			return a.Normalize(provider, raw)
		}
	}
	return normalizeGeneric(provider, decodeRaw(raw))
}

// NormalizeFamily is Normalize for a caller that already knows the family.
func (r *Registry) NormalizeFamily(family Family, provider string, raw interface{}) api.InvocationResult {
	if a, err := r.Adapter(family); err == nil {
		return a.Normalize(provider, raw)
	}
	return normalizeGeneric(provider, decodeRaw(raw))
}
