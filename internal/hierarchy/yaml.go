package hierarchy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping of parent -> [children], keeping the
// document order of the parents.
func (m *AdjacencyMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: component map must be a mapping", node.Line)
	}
	*m = *NewAdjacencyMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var children []string
		switch valNode.Kind {
		case yaml.SequenceNode:
			if err := valNode.Decode(&children); err != nil {
				return fmt.Errorf("line %d: children of %s: %w", valNode.Line, keyNode.Value, err)
			}
		case yaml.ScalarNode:
			// "LEAF: " or "LEAF: ~" declares a component with no children.
			if valNode.Tag != "!!null" && valNode.Value != "" {
				children = []string{valNode.Value}
			}
		default:
			return fmt.Errorf("line %d: children of %s must be a list", valNode.Line, keyNode.Value)
		}

		ids := make([]ComponentID, len(children))
		for j, c := range children {
			ids[j] = ComponentID(c)
		}
		if err := m.Add(ComponentID(keyNode.Value), ids...); err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
	}
	return nil
}

// MarshalYAML encodes the map as an ordered mapping.
func (m *AdjacencyMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, c := range m.children[k] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(c)})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(k)},
			seq,
		)
	}
	return node, nil
}
