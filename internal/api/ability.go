package api

// AbilityStatus is the lifecycle state of a catalog ability.
type AbilityStatus string

const (
	AbilityStatusInactive   AbilityStatus = "inactive"
	AbilityStatusActive     AbilityStatus = "active"
	AbilityStatusDeprecated AbilityStatus = "deprecated"
)

// AbilityType describes how an ability is executed.
type AbilityType string

const (
	AbilityTypeAPI      AbilityType = "api"
	AbilityTypeComfyUI  AbilityType = "comfyui"
	AbilityTypeWorkflow AbilityType = "workflow"
	AbilityTypeTool     AbilityType = "tool"
)

// Ability is a provider-agnostic capability registered in the catalog, such
// as "upscale image". It is read-only to the engine.
type Ability struct {
	ID            string        `json:"id" yaml:"id"`
	Provider      string        `json:"provider" yaml:"provider"`
	Category      string        `json:"category" yaml:"category"`
	CapabilityKey string        `json:"capability_key" yaml:"capabilityKey"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	Status        AbilityStatus `json:"status" yaml:"status"`
	AbilityType   AbilityType   `json:"ability_type" yaml:"abilityType"`

	// ExecutorID pins the ability to one executor when set.
	ExecutorID string `json:"executor_id,omitempty" yaml:"executorId,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty" yaml:"workflowId,omitempty"`

	DefaultParams map[string]interface{} `json:"default_params,omitempty" yaml:"defaultParams,omitempty"`
	InputSchema   interface{}            `json:"input_schema,omitempty" yaml:"inputSchema,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Context returns the attribution record attached to every request built
// for this ability.
func (a *Ability) Context() AbilityContext {
	if a == nil {
		return AbilityContext{}
	}
	return AbilityContext{
		AbilityID:     a.ID,
		AbilityName:   a.Name,
		Provider:      a.Provider,
		CapabilityKey: a.CapabilityKey,
	}
}

// ParsedMetadata parses the free-form metadata document.
func (a *Ability) ParsedMetadata() AbilityMetadata {
	if a == nil {
		return AbilityMetadata{}
	}
	return ParseAbilityMetadata(a.Metadata)
}

// AbilityContext lets adapters and log sinks attribute a call without
// re-deriving it from the ability.
type AbilityContext struct {
	AbilityID     string `json:"ability_id"`
	AbilityName   string `json:"ability_name"`
	Provider      string `json:"provider"`
	CapabilityKey string `json:"capability_key"`
}
