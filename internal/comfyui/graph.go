package comfyui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrEmptyGraph is returned for a blank graph document.
	ErrEmptyGraph = errors.New("workflow graph is empty")
	// ErrInvalidGraph is returned when the document is not a JSON object.
	ErrInvalidGraph = errors.New("workflow graph is not a JSON object")
)

// Node is one entry of a ComfyUI prompt graph.
type Node struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ClassType string   `json:"class_type"`
	Inputs    []string `json:"inputs"`
}

// HasInput reports whether key is one of the node's declared inputs.
func (n Node) HasInput(key string) bool {
	for _, in := range n.Inputs {
		if in == key {
			return true
		}
	}
	return false
}

// Graph is a parsed node graph with nodes in display order.
type Graph struct {
	Nodes []Node
	index map[string]int
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// rawNode is the on-disk shape of a graph entry.
type rawNode struct {
	ClassType interface{}     `json:"class_type"`
	Inputs    json.RawMessage `json:"inputs"`
	Meta      struct {
		Title string `json:"title"`
	} `json:"_meta"`
}

// ParseGraph parses a prompt graph. The document may be the graph itself or
// wrap it in a `graph` object. Entries without a string class_type are not
// nodes and are ignored. Input keys keep their declared order.
func ParseGraph(data []byte) (*Graph, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyGraph
	}

	entries, err := orderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	if inner, ok := lookupEntry(entries, "graph"); ok && isObject(inner) {
		if entries, err = orderedObject(inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
		}
	}

	g := &Graph{index: make(map[string]int)}
	for _, e := range entries {
		if !isObject(e.value) {
			continue
		}
		var rn rawNode
		if err := json.Unmarshal(e.value, &rn); err != nil {
			continue
		}
		classType, ok := rn.ClassType.(string)
		if !ok {
			continue
		}

		node := Node{ID: e.key, ClassType: classType}
		if isObject(rn.Inputs) {
			inputs, err := orderedObject(rn.Inputs)
			if err == nil {
				for _, in := range inputs {
					node.Inputs = append(node.Inputs, in.key)
				}
			}
		}
		node.Title = strings.TrimSpace(rn.Meta.Title)
		if node.Title == "" {
			node.Title = classType
		}
		if node.Title == "" {
			node.Title = node.ID
		}
		g.Nodes = append(g.Nodes, node)
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool {
		return lessID(g.Nodes[i].ID, g.Nodes[j].ID)
	})
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
	return g, nil
}

// ParseGraphDocument parses a graph held as a decoded value, a JSON string
// or bytes. Decoded maps lose key order, so their input keys come out
// sorted.
func ParseGraphDocument(doc interface{}) (*Graph, error) {
	switch d := doc.(type) {
	case nil:
		return nil, ErrEmptyGraph
	case []byte:
		return ParseGraph(d)
	case json.RawMessage:
		return ParseGraph(d)
	case string:
		return ParseGraph([]byte(d))
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
		}
		return ParseGraph(data)
	}
}

// lessID orders integer ids before other ids. Integer ids compare by value
// and then lexically, so "01" and "1" stay distinct; the rest compare
// lexically.
func lessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

type objectEntry struct {
	key   string
	value json.RawMessage
}

// orderedObject decodes a JSON object into its entries in document order.
func orderedObject(data []byte) ([]objectEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []objectEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, objectEntry{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func lookupEntry(entries []objectEntry, key string) (json.RawMessage, bool) {
	for _, e := range entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
