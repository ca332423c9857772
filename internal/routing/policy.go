package routing

import (
	"strings"

	"abilityctl/internal/api"
)

// Policy is the routing strategy attached to an ability.
type Policy string

const (
	PolicyAuto       Policy = "auto"
	PolicyQueue      Policy = "queue"
	PolicyWeight     Policy = "weight"
	PolicyRoundRobin Policy = "round_robin"
	PolicyFixed      Policy = "fixed"
)

// ParsePolicy clamps a metadata value onto the known policies. Empty and
// unknown values become PolicyAuto.
func ParsePolicy(s string) Policy {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyQueue, PolicyWeight, PolicyRoundRobin, PolicyFixed:
		return p
	default:
		return PolicyAuto
	}
}

// Decision is derived from ability metadata once per resolution and never
// persisted.
type Decision struct {
	Policy Policy `json:"policy"`
	// AllowedExecutorIDs restricts candidates when non-empty.
	AllowedExecutorIDs []string `json:"allowed_executor_ids,omitempty"`
	// RequiredTags must all be present on a candidate's tags.
	RequiredTags []string `json:"required_tags,omitempty"`
	// FallbackToDefault is advisory: the caller decides what to do with an
	// empty candidate list when it is set.
	FallbackToDefault bool `json:"fallback_to_default"`
}

// ParseDecision reads the routing decision from typed ability metadata.
func ParseDecision(meta api.AbilityMetadata) Decision {
	d := Decision{
		Policy:             ParsePolicy(meta.RoutingPolicy),
		AllowedExecutorIDs: meta.AllowedExecutorIDs,
		RequiredTags:       NormalizeTokens(meta.RequiredTags),
		FallbackToDefault:  true,
	}
	if meta.FallbackToDefault != nil {
		d.FallbackToDefault = *meta.FallbackToDefault
	}
	return d
}

// allows reports whether the allow-list admits id. An empty list admits all.
func (d Decision) allows(id string) bool {
	if len(d.AllowedExecutorIDs) == 0 {
		return true
	}
	for _, allowed := range d.AllowedExecutorIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
