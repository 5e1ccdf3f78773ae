package pipeline

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Vars is an insertion-ordered variable mapping. GitLab treats the
// `variables` section as an unordered map, but the emitted document keeps
// insertion order so generated pipelines stay reviewable.
type Vars struct {
	keys   []string
	values map[string]any
}

// NewVars returns an empty variable map.
func NewVars() *Vars {
	return &Vars{values: make(map[string]any)}
}

// Set stores a value, overwriting any existing entry but keeping its
// original position.
func (v *Vars) Set(key string, value any) {
	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// SetIfAbsent stores a value only when the key is not already present. It
// reports whether the value was stored.
func (v *Vars) SetIfAbsent(key string, value any) bool {
	if _, ok := v.values[key]; ok {
		return false
	}
	v.Set(key, value)
	return true
}

// Get returns the value for key, if present.
func (v *Vars) Get(key string) (any, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Len returns the number of entries.
func (v *Vars) Len() int {
	return len(v.keys)
}

// Keys returns the keys in insertion order.
func (v *Vars) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// MarshalYAML renders the map as a YAML mapping in insertion order.
func (v *Vars) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range v.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(v.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// isSelfReference reports whether value is a no-op passthrough binding of
// its own key, e.g. `EB_PATH: $EB_PATH` or `EB_PATH: ${EB_PATH}`. Such
// bindings are dropped during the defaults merge.
func isSelfReference(key string, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s == "$"+key || s == "${"+key+"}"
}
