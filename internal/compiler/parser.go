package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/pipewright/internal/dto"
	"github.com/aretw0/pipewright/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML pipeline definition. It accepts the same shape Compile
// emits, so compiled documents can be read back.
//
// Scalars keep their source text: "true", "1.50" and "0x10" come back as
// written rather than as YAML booleans or numbers. Compile emits values
// unquoted, so a value containing ": " or " #" does not read back unchanged.
// The first is rejected as malformed YAML; the second is cut at the comment.
func Parse(data []byte) (*domain.Pipeline, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	value, err := plain(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	if value == nil {
		return nil, fmt.Errorf("empty definition: %w", domain.ErrIncompleteDocument)
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to parse definition: top level must be a mapping")
	}

	def, err := dto.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return def.ToDomain(), nil
}

// plain converts a YAML node tree into maps, slices and strings. Scalar
// leaves are taken verbatim; nulls become nil.
func plain(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plain(n.Content[0])
	case yaml.AliasNode:
		return plain(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := plain(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			if _, dup := m[key.Value]; dup {
				return nil, fmt.Errorf("line %d: key %q already defined", key.Line, key.Value)
			}
			v, err := plain(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// Load reads a definition file. Files ending in ".hcl" are parsed as HCL,
// everything else as YAML.
func Load(path string) (*domain.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return ParseHCL(data, path)
	}
	return Parse(data)
}
