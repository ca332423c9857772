package comfyui

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/utils"
)

// SelectByClass returns the ids of nodes whose class_type contains substr,
// compared case-insensitively.
func (g *Graph) SelectByClass(substr string) []string {
	if g == nil {
		return nil
	}
	substr = strings.ToLower(substr)
	var ids []string
	for _, n := range g.Nodes {
		if strings.Contains(strings.ToLower(n.ClassType), substr) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SelectSaveImage picks every SaveImage style node.
func SelectSaveImage(g *Graph) []string { return g.SelectByClass("saveimage") }

// SelectPreview picks every preview node.
func SelectPreview(g *Graph) []string { return g.SelectByClass("preview") }

// SelectAll picks every node of the graph.
func SelectAll(g *Graph) []string { return g.SelectByClass("") }

// ClearSelection returns an empty output selection.
func ClearSelection() []string { return []string{} }

// CoerceNodeValue converts v into the declared input type. An empty type
// leaves the value untouched.
func CoerceNodeValue(t ValueType, v interface{}) (interface{}, error) {
	switch t {
	case "":
		return v, nil
	case ValueString:
		if s, ok := utils.String(v); ok {
			return s, nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case ValueInt:
		f, ok := utils.Float(v)
		if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		return int64(f), nil
	case ValueFloat:
		f, ok := utils.Float(v)
		if !ok {
			return nil, fmt.Errorf("%v is not a number", v)
		}
		return f, nil
	case ValueBool:
		b, ok := utils.Bool(v)
		if !ok {
			return nil, fmt.Errorf("%v is not a boolean", v)
		}
		return b, nil
	case ValueJSON:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		var out interface{}
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", t)
	}
}

// NodeOverrides turns parameter values into per-node input overrides keyed
// by node id then input key. Items without a node or key, or whose field
// has no value, are skipped.
func NodeOverrides(items []InputMapItem, params map[string]interface{}) (map[string]map[string]interface{}, error) {
	out := make(map[string]map[string]interface{})
	for _, item := range items {
		if item.NodeID == "" || item.InputKey == "" {
			continue
		}
		raw, ok := params[item.Field]
		if !ok || utils.IsEmpty(raw) {
			continue
		}
		v, err := CoerceNodeValue(item.ValueType, raw)
		if err != nil {
			return nil, api.NewValidationError(item.Field, "%v", err)
		}
		if out[item.NodeID] == nil {
			out[item.NodeID] = make(map[string]interface{})
		}
		out[item.NodeID][item.InputKey] = v
	}
	return out, nil
}
