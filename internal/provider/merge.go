package provider

import (
	"encoding/json"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/utils"
)

// ParseOverride decodes an ad-hoc JSON override. A blank override is empty.
func ParseOverride(override string) (map[string]interface{}, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return map[string]interface{}{}, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(override), &out); err != nil {
		return nil, api.NewValidationError("override", "override must be a JSON object: %v", err)
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// MergeParams layers schema defaults, stored defaults, the ad-hoc override
// and schema values, later layers winning.
func MergeParams(in BuildInput) (map[string]interface{}, error) {
	override, err := ParseOverride(in.Override)
	if err != nil {
		return nil, err
	}
	var defaults map[string]interface{}
	if in.Ability != nil {
		defaults = in.Ability.DefaultParams
	}
	return utils.MergeMaps(in.SchemaDefaults, defaults, override, in.SchemaValues), nil
}

// PickKnown splits params into the keys a provider understands and the rest.
// Neither result aliases params.
func PickKnown(params map[string]interface{}, known ...string) (map[string]interface{}, map[string]interface{}) {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	picked := make(map[string]interface{})
	extras := make(map[string]interface{})
	for k, v := range params {
		if set[k] {
			picked[k] = v
		} else {
			extras[k] = v
		}
	}
	return picked, extras
}

// stringParam returns the first non-blank scalar among keys.
func stringParam(params map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := utils.TrimmedString(params[k]); ok {
			return s
		}
	}
	return ""
}

func requireAbility(in BuildInput) (*api.Ability, error) {
	if in.Ability == nil {
		return nil, api.NewValidationError("ability", "ability is required")
	}
	return in.Ability, nil
}

func newRequest(f Family, in BuildInput, payload interface{}) *Request {
	return &Request{
		Family:     f,
		Provider:   in.Ability.Provider,
		ExecutorID: in.ExecutorID,
		Context:    in.Ability.Context(),
		Payload:    payload,
	}
}

func nonEmpty(m map[string]interface{}) map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	return m
}
