package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/utils"
)

// Parse reads the `fields` array of an input schema document into typed
// fields. The document may be a decoded map, a JSON string or JSON bytes; a
// bare top-level array is accepted as the field list. Entries without a
// name, and later entries repeating a name, are skipped.
func Parse(doc interface{}) ([]Field, error) {
	root, err := decode(doc)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}

	var entries []interface{}
	switch r := root.(type) {
	case map[string]interface{}:
		entries, _ = utils.List(r["fields"])
	case []interface{}:
		entries = r
	default:
		if m, ok := utils.Map(root); ok {
			entries, _ = utils.List(m["fields"])
		} else {
			return nil, api.NewValidationError("input_schema", "schema must be an object, got %T", root)
		}
	}

	fields := make([]Field, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, raw := range entries {
		entry, ok := utils.Map(raw)
		if !ok {
			continue
		}
		field, ok := parseField(entry)
		if !ok {
			continue
		}
		if _, dup := seen[field.Name]; dup {
			continue
		}
		seen[field.Name] = struct{}{}
		fields = append(fields, field)
	}
	return fields, nil
}

func decode(doc interface{}) (interface{}, error) {
	var data []byte
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(d)
	case []byte:
		data = d
	case json.RawMessage:
		data = d
	default:
		return doc, nil
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, api.NewValidationError("input_schema", "malformed JSON: %v", err)
	}
	return out, nil
}

func parseField(entry map[string]interface{}) (Field, bool) {
	name, ok := utils.TrimmedString(entry["name"])
	if !ok {
		return Field{}, false
	}

	typ, _ := utils.TrimmedString(entry["type"])
	f := Field{
		Name: name,
		Type: ParseFieldType(strings.ToLower(typ)),
	}

	f.Label = bilingual(entry, "label")
	if f.Label == "" {
		f.Label = name
	}
	f.Description = bilingual(entry, "description")
	f.Placeholder = bilingual(entry, "placeholder")

	f.Required, _ = utils.Bool(entry["required"])

	if v, ok := entry["defaultValue"]; ok {
		f.DefaultValue = scalarDefault(v)
	} else if v, ok := entry["default"]; ok {
		f.DefaultValue = scalarDefault(v)
	}

	f.Options = parseOptions(entry["options"])

	if c, ok := utils.TrimmedString(entry["component"]); ok && strings.EqualFold(c, ComponentSelect) {
		f.Component = ComponentSelect
	}

	if v, ok := entry["allow_custom_value"]; ok {
		f.AllowCustomValue, _ = utils.Bool(v)
	} else if v, ok := entry["allowCustomValue"]; ok {
		f.AllowCustomValue, _ = utils.Bool(v)
	}

	return f, true
}

// bilingual composes a display string from the Chinese, generic and English
// variants of key. The Chinese form wins over the generic one; a differing
// English form is appended in parentheses.
func bilingual(entry map[string]interface{}, key string) string {
	primary := firstString(entry, key+"_zh", key+"Zh", "zh_"+key, key)
	secondary := firstString(entry, key+"_en", key+"En", "en_"+key)
	return compose(primary, secondary)
}

func compose(primary, secondary string) string {
	switch {
	case primary == "":
		return secondary
	case secondary == "" || strings.EqualFold(primary, secondary):
		return primary
	default:
		return fmt.Sprintf("%s (%s)", primary, secondary)
	}
}

func firstString(entry map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := utils.TrimmedString(entry[k]); ok {
			return s
		}
	}
	return ""
}

// scalarDefault keeps strings, numbers (as float64) and booleans.
func scalarDefault(v interface{}) interface{} {
	switch t := v.(type) {
	case string, bool:
		return t
	default:
		if !utils.IsScalar(v) {
			return nil
		}
		if f, ok := utils.Float(v); ok {
			return f
		}
		return nil
	}
}

func parseOptions(v interface{}) []Option {
	items, ok := utils.List(v)
	if !ok {
		return nil
	}
	var out []Option
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, Option{Label: s, Value: s})
			}
			continue
		}
		m, ok := utils.Map(item)
		if !ok {
			continue
		}
		value, ok := utils.TrimmedString(m["value"])
		if !ok {
			continue
		}
		label := bilingual(m, "label")
		if label == "" {
			label = value
		}
		out = append(out, Option{Label: label, Value: value})
	}
	return out
}
