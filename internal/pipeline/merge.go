package pipeline

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/ctxlog"
)

// triggerJobKey names the job in the outer .gitlab-ci.yml whose `variables`
// section is forwarded into the child pipeline.
const triggerJobKey = "execute_builds"

// ExternalDefaults is the relevant content of the outer .gitlab-ci.yml: the
// `default` section plus the trigger job's child-pipeline variables, in
// document order.
type ExternalDefaults struct {
	Default        DefaultBlock
	ChildVariables *Vars
}

// EmptyDefaults returns defaults with no content, used when the external
// document is missing or unreadable. Merging them still applies the retry
// fallback.
func EmptyDefaults() *ExternalDefaults {
	return &ExternalDefaults{ChildVariables: NewVars()}
}

// LoadDefaults reads the external defaults document. Absence or a parse
// failure is reported so the caller can log it and continue with
// EmptyDefaults.
func LoadDefaults(ctx context.Context, path string) (*ExternalDefaults, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	ext := EmptyDefaults()
	doc := documentMapping(&root)
	if doc == nil {
		return ext, nil
	}

	if defaultNode := mappingValue(doc, "default"); defaultNode != nil {
		if err := defaultNode.Decode(&ext.Default); err != nil {
			return nil, fmt.Errorf("invalid default section in %s: %w", path, err)
		}
	}

	if triggerNode := mappingValue(doc, triggerJobKey); triggerNode != nil {
		if varsNode := mappingValue(triggerNode, "variables"); varsNode != nil {
			if err := decodeOrderedVars(varsNode, ext.ChildVariables); err != nil {
				return nil, fmt.Errorf("invalid %s.variables in %s: %w", triggerJobKey, path, err)
			}
		}
	}

	logger.Debug("Loaded external defaults.", "path", path,
		"child_variables", ext.ChildVariables.Len())
	return ext, nil
}

// ApplyDefaults layers external defaults onto the manifest. Keys the
// assembler already populated always win; the only forced setting is the
// retry fallback. Applying the same defaults twice is a no-op.
func (m *Manifest) ApplyDefaults(ctx context.Context, ext *ExternalDefaults) {
	logger := ctxlog.FromContext(ctx)
	if ext == nil {
		ext = EmptyDefaults()
	}

	def := ext.Default
	if def.Retry == nil {
		def.Retry = FallbackRetry()
	}
	m.Default = &def

	for _, key := range ext.ChildVariables.Keys() {
		value, _ := ext.ChildVariables.Get(key)
		if isSelfReference(key, value) {
			logger.Debug("Skipping self-referencing child variable.", "key", key)
			continue
		}
		if !m.Variables.SetIfAbsent(key, value) {
			logger.Debug("Keeping generated value over external default.", "key", key)
		}
	}
}

// documentMapping unwraps the document node down to its top-level mapping.
func documentMapping(root *yaml.Node) *yaml.Node {
	node := root
	for node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// mappingValue returns the value node for a key of a mapping node, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// decodeOrderedVars reads a mapping node's key/value pairs into vars,
// preserving document order.
func decodeOrderedVars(mapping *yaml.Node, vars *Vars) error {
	if mapping.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", mapping.Tag)
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		var value any
		if err := mapping.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("variable %q: %w", key, err)
		}
		vars.Set(key, value)
	}
	return nil
}
