package api

import (
	"strings"

	"abilityctl/internal/utils"
)

// Metadata keys recognized on Ability.Metadata.
const (
	MetaRoutingPolicy      = "routing_policy"
	MetaAllowedExecutorIDs = "allowed_executor_ids"
	MetaRequiredTags       = "required_tags"
	MetaFallbackToDefault  = "fallback_to_default"
	MetaExecutorType       = "executor_type"
	MetaExecutorTag        = "executor_tag"
	MetaExecutorTypes      = "executor_types"
	MetaExecutorTags       = "executor_tags"
	MetaWorkflowKey        = "workflow_key"
	MetaAPIType            = "api_type"
	MetaModelID            = "model_id"
	MetaOperation          = "operation"
	MetaRequiresImageInput = "requires_image_input"
	MetaPricing            = "pricing"
	MetaInputNodeMap       = "input_node_map"
	MetaOutputNodeIDs      = "output_node_ids"
)

// AbilityMetadata is the typed view of Ability.Metadata. Routing values are
// kept raw where the routing package owns their normalization.
type AbilityMetadata struct {
	RoutingPolicy      string
	AllowedExecutorIDs []string
	RequiredTags       interface{}
	// FallbackToDefault is nil when the key is absent.
	FallbackToDefault *bool

	// ExecutorHints collects executor_type, executor_tag, executor_types and
	// executor_tags in that order.
	ExecutorHints []interface{}

	WorkflowKey        string
	APIType            string
	ModelID            string
	Operation          string
	RequiresImageInput bool
	Pricing            interface{}

	InputNodeMap  interface{}
	OutputNodeIDs interface{}

	// Extras keeps every unrecognized key untouched.
	Extras map[string]interface{}
}

// ParseAbilityMetadata parses a free-form metadata map. It never fails;
// values of the wrong shape are ignored.
func ParseAbilityMetadata(meta map[string]interface{}) AbilityMetadata {
	out := AbilityMetadata{Extras: map[string]interface{}{}}
	var hints [4]interface{}

	for k, v := range meta {
		switch k {
		case MetaRoutingPolicy:
			out.RoutingPolicy, _ = utils.TrimmedString(v)
		case MetaAllowedExecutorIDs:
			out.AllowedExecutorIDs = parseIDList(v)
		case MetaRequiredTags:
			out.RequiredTags = v
		case MetaFallbackToDefault:
			if b, ok := utils.Bool(v); ok {
				out.FallbackToDefault = &b
			}
		case MetaExecutorType:
			hints[0] = v
		case MetaExecutorTag:
			hints[1] = v
		case MetaExecutorTypes:
			hints[2] = v
		case MetaExecutorTags:
			hints[3] = v
		case MetaWorkflowKey:
			out.WorkflowKey, _ = utils.TrimmedString(v)
		case MetaAPIType:
			out.APIType, _ = utils.TrimmedString(v)
		case MetaModelID:
			out.ModelID, _ = utils.TrimmedString(v)
		case MetaOperation:
			out.Operation, _ = utils.TrimmedString(v)
		case MetaRequiresImageInput:
			out.RequiresImageInput, _ = utils.Bool(v)
		case MetaPricing:
			out.Pricing = v
		case MetaInputNodeMap:
			out.InputNodeMap = v
		case MetaOutputNodeIDs:
			out.OutputNodeIDs = v
		default:
			out.Extras[k] = v
		}
	}

	for _, h := range hints {
		if h != nil {
			out.ExecutorHints = append(out.ExecutorHints, h)
		}
	}
	return out
}

// parseIDList accepts a list of ids or a comma separated string.
func parseIDList(v interface{}) []string {
	if s, ok := v.(string); ok {
		return utils.SplitList(s, ",;")
	}
	return utils.StringList(v)
}

// Pricing is the resolved price of one invocation.
type Pricing struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// ResolvePricing reads metadata.pricing. It accepts a bare number, a numeric
// string, or a map carrying price, unit_price or amount.
func ResolvePricing(v interface{}) (Pricing, bool) {
	if f, ok := utils.Float(v); ok {
		return Pricing{Amount: f}, true
	}
	m, ok := utils.Map(v)
	if !ok {
		return Pricing{}, false
	}
	for _, key := range []string{"price", "unit_price", "amount"} {
		f, ok := utils.Float(m[key])
		if !ok {
			continue
		}
		p := Pricing{Amount: f}
		p.Currency, _ = utils.TrimmedString(m["currency"])
		p.Unit, _ = utils.TrimmedString(m["unit"])
		p.Currency = strings.ToUpper(p.Currency)
		return p, true
	}
	return Pricing{}, false
}
