package comfyui

import (
	"fmt"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/utils"
)

// ValueType is the declared type of a mapped node input.
type ValueType string

const (
	ValueString ValueType = "string"
	ValueInt    ValueType = "int"
	ValueFloat  ValueType = "float"
	ValueBool   ValueType = "bool"
	ValueJSON   ValueType = "json"
)

// Valid reports whether t is empty or one of the known value types.
func (t ValueType) Valid() bool {
	switch t {
	case "", ValueString, ValueInt, ValueFloat, ValueBool, ValueJSON:
		return true
	default:
		return false
	}
}

// InputMapItem binds an external parameter to one input of one node.
type InputMapItem struct {
	Field     string    `json:"field" yaml:"field"`
	NodeID    string    `json:"node_id" yaml:"nodeId"`
	InputKey  string    `json:"input_key" yaml:"inputKey"`
	ValueType ValueType `json:"value_type,omitempty" yaml:"valueType,omitempty"`
}

func (i InputMapItem) blank() bool {
	return i.Field == "" && i.NodeID == "" && i.InputKey == "" && i.ValueType == ""
}

func (i InputMapItem) label(pos int) string {
	if i.Field != "" {
		return fmt.Sprintf("input mapping %q", i.Field)
	}
	return fmt.Sprintf("input mapping #%d", pos+1)
}

// Validate checks a mapping against the graph and returns one message per
// problem, in mapping order. An empty result means the mapping is usable.
func (g *Graph) Validate(inputs []InputMapItem, outputs []string) []string {
	var issues []string
	claimed := make(map[[2]string]string)

	for pos, item := range inputs {
		label := item.label(pos)
		if strings.TrimSpace(item.Field) == "" {
			issues = append(issues, label+": field is required")
		}

		if item.NodeID != "" {
			node, ok := g.Node(item.NodeID)
			if !ok {
				issues = append(issues, fmt.Sprintf("%s: node %s does not exist", label, item.NodeID))
			} else if item.InputKey != "" && !node.HasInput(item.InputKey) {
				issues = append(issues, fmt.Sprintf("%s: node %s has no input %q", label, item.NodeID, item.InputKey))
			}
		}

		if item.NodeID != "" && item.InputKey != "" {
			pair := [2]string{item.NodeID, item.InputKey}
			if owner, dup := claimed[pair]; dup {
				issues = append(issues, fmt.Sprintf("%s: node %s input %q is already mapped to %q",
					label, item.NodeID, item.InputKey, owner))
			} else {
				claimed[pair] = item.Field
			}
		}

		if !item.ValueType.Valid() {
			issues = append(issues, fmt.Sprintf("%s: unknown value type %q", label, item.ValueType))
		}
	}

	for _, id := range outputs {
		if _, ok := g.Node(id); !ok {
			issues = append(issues, fmt.Sprintf("output node %s does not exist", id))
		}
	}
	return issues
}

// ValidateMapping parses doc and validates the mapping against it. When the
// graph cannot be parsed and a mapping is present, a single blocking issue
// is returned instead of per-item errors.
func ValidateMapping(doc interface{}, inputs []InputMapItem, outputs []string) []string {
	g, err := ParseGraphDocument(doc)
	if err != nil {
		if len(inputs) == 0 && len(outputs) == 0 {
			return nil
		}
		return []string{fmt.Sprintf("workflow graph cannot be parsed: %v", err)}
	}
	return g.Validate(inputs, outputs)
}

// ApplyToMetadata returns a copy of meta with the mapping written to
// input_node_map and output_node_ids. Empty content removes the key.
func ApplyToMetadata(meta map[string]interface{}, inputs []InputMapItem, outputs []string) map[string]interface{} {
	out := utils.CloneMap(meta)

	var items []interface{}
	for _, item := range inputs {
		item = trimItem(item)
		if item.blank() {
			continue
		}
		entry := map[string]interface{}{
			"field":     item.Field,
			"node_id":   item.NodeID,
			"input_key": item.InputKey,
		}
		if item.ValueType != "" {
			entry["value_type"] = string(item.ValueType)
		}
		items = append(items, entry)
	}
	if len(items) > 0 {
		out[api.MetaInputNodeMap] = items
	} else {
		delete(out, api.MetaInputNodeMap)
	}

	ids := dedupe(outputs)
	if len(ids) > 0 {
		out[api.MetaOutputNodeIDs] = ids
	} else {
		delete(out, api.MetaOutputNodeIDs)
	}
	return out
}

// MappingFromMetadata reads the mapping stored by ApplyToMetadata. Entries
// of the wrong shape are skipped.
func MappingFromMetadata(meta map[string]interface{}) ([]InputMapItem, []string) {
	parsed := api.ParseAbilityMetadata(meta)
	return parseInputMap(parsed.InputNodeMap), parseOutputIDs(parsed.OutputNodeIDs)
}

func parseInputMap(v interface{}) []InputMapItem {
	entries, ok := utils.List(v)
	if !ok {
		return nil
	}
	var items []InputMapItem
	for _, raw := range entries {
		m, ok := utils.Map(raw)
		if !ok {
			continue
		}
		item := trimItem(InputMapItem{
			Field:     firstString(m, "field"),
			NodeID:    firstString(m, "node_id", "nodeId"),
			InputKey:  firstString(m, "input_key", "inputKey"),
			ValueType: ValueType(strings.ToLower(firstString(m, "value_type", "valueType"))),
		})
		if !item.blank() {
			items = append(items, item)
		}
	}
	return items
}

func parseOutputIDs(v interface{}) []string {
	if s, ok := v.(string); ok {
		return dedupe(utils.SplitList(s, ",;\n"))
	}
	return dedupe(utils.StringList(v))
}

func trimItem(item InputMapItem) InputMapItem {
	item.Field = strings.TrimSpace(item.Field)
	item.NodeID = strings.TrimSpace(item.NodeID)
	item.InputKey = strings.TrimSpace(item.InputKey)
	item.ValueType = ValueType(strings.TrimSpace(string(item.ValueType)))
	return item
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := utils.TrimmedString(m[k]); ok {
			return s
		}
	}
	return ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
