package api

import (
	"abilityctl/internal/utils"
)

// Executor is a concrete backend node able to serve one or more provider
// types.
type Executor struct {
	ID             string                 `json:"id" yaml:"id"`
	Name           string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Type           string                 `json:"type" yaml:"type"`
	Status         string                 `json:"status,omitempty" yaml:"status,omitempty"`
	Weight         int                    `json:"weight,omitempty" yaml:"weight,omitempty"`
	MaxConcurrency int                    `json:"max_concurrency,omitempty" yaml:"maxConcurrency,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// ExecutorConfig is the typed view of Executor.Config.
type ExecutorConfig struct {
	// Tags holds the raw tag values from the `tags` or `tag` key. They are
	// normalized by the routing package before comparison.
	Tags interface{}

	// Extras keeps every unrecognized key untouched.
	Extras map[string]interface{}
}

// ParseExecutorConfig splits the recognized keys out of an executor config.
func ParseExecutorConfig(config map[string]interface{}) ExecutorConfig {
	out := ExecutorConfig{Extras: map[string]interface{}{}}
	for k, v := range config {
		switch k {
		case "tags":
			out.Tags = v
		case "tag":
			if out.Tags == nil {
				out.Tags = v
			}
		default:
			out.Extras[k] = v
		}
	}
	return out
}

// FindExecutor returns the executor with the given id.
func FindExecutor(executors []Executor, id string) (Executor, bool) {
	if id == "" {
		return Executor{}, false
	}
	for _, e := range executors {
		if e.ID == id {
			return e, true
		}
	}
	return Executor{}, false
}

// ExecutorLabel is a short display form used in logs and CLI output.
func (e Executor) ExecutorLabel() string {
	if name, ok := utils.TrimmedString(e.Name); ok {
		return name + " (" + e.ID + ")"
	}
	return e.ID
}
