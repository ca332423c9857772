package schema

import (
	"encoding/json"
	"strings"

	"abilityctl/internal/utils"
)

// FormatValue converts a stored or default value into the form used by an
// input control: a bool for switch fields, a string otherwise.
func FormatValue(f Field, raw interface{}) interface{} {
	if f.Type == TypeSwitch {
		return toSwitch(raw)
	}
	if raw == nil {
		return ""
	}
	if s, ok := utils.String(raw); ok {
		return s
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(data)
}

// ConvertValue converts an input control value back to its wire type. The
// second return value is false when the field should be omitted: empty
// input, or a number field that does not parse.
func ConvertValue(f Field, raw interface{}) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}

	switch f.Type {
	case TypeNumber:
		n, ok := utils.Float(raw)
		if !ok {
			return nil, false
		}
		return n, true
	case TypeSwitch:
		return toSwitch(raw), true
	default:
		return raw, true
	}
}

// ConvertValues converts a form value map field by field. Keys without a
// matching field are ignored and empty values are omitted.
func ConvertValues(fields []Field, values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for _, f := range fields {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		if v, keep := ConvertValue(f, raw); keep {
			out[f.Name] = v
		}
	}
	return out
}

// Defaults returns the declared defaults of fields, keyed by name.
func Defaults(fields []Field) map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range fields {
		if f.DefaultValue != nil {
			out[f.Name] = f.DefaultValue
		}
	}
	return out
}

// RequiredMissing lists required fields that have no usable value in any of
// the given value maps.
func RequiredMissing(fields []Field, sources ...map[string]interface{}) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		found := false
		for _, src := range sources {
			if v, ok := src[f.Name]; ok && !utils.IsEmpty(v) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

func toSwitch(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
