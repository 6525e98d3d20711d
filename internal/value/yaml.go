package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// maxYAMLNodes bounds the nodes decoded from one document, counting every
// alias expansion.
const maxYAMLNodes = 1 << 20

// ParseYAML decodes a YAML document into a Value, keeping mapping keys in
// source order. An empty document decodes to None. Recursive aliases and
// documents that expand past maxYAMLNodes are rejected.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("value: decode yaml: %w", err)
	}
	d := &yamlDecoder{expanding: map[*yaml.Node]bool{}}
	v, err := d.decode(&doc)
	if err != nil {
		return Value{}, fmt.Errorf("value: decode yaml: %w", err)
	}
	return v, nil
}

type yamlDecoder struct {
	expanding map[*yaml.Node]bool
	nodes     int
}

func (d *yamlDecoder) visit(node *yaml.Node) error {
	d.nodes++
	if d.nodes > maxYAMLNodes {
		return fmt.Errorf("line %d: document expands to more than %d nodes", node.Line, maxYAMLNodes)
	}
	return nil
}

// alias resolves an alias node and marks its anchor as being expanded. The
// returned func releases the mark.
func (d *yamlDecoder) alias(node *yaml.Node) (*yaml.Node, func(), error) {
	if node.Alias == nil {
		return nil, nil, fmt.Errorf("line %d: dangling alias", node.Line)
	}
	target := node.Alias
	if d.expanding[target] {
		return nil, nil, fmt.Errorf("line %d: alias `%s` refers to itself", node.Line, node.Value)
	}
	d.expanding[target] = true
	return target, func() { delete(d.expanding, target) }, nil
}

func (d *yamlDecoder) decode(node *yaml.Node) (Value, error) {
	if err := d.visit(node); err != nil {
		return Value{}, err
	}
	switch node.Kind {
	case 0:
		return None(), nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return None(), nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		target, release, err := d.alias(node)
		if err != nil {
			return Value{}, err
		}
		defer release()
		return d.decode(target)
	case yaml.ScalarNode:
		return decodeYAMLScalar(node)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := d.decode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, items: items}, nil
	case yaml.MappingNode:
		obj := NewObject()
		if err := d.mapping(node, obj); err != nil {
			return Value{}, err
		}
		return objectValue(obj), nil
	}
	return Value{}, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
}

func (d *yamlDecoder) mapping(node *yaml.Node, obj *Object) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			if err := d.merge(valueNode, obj); err != nil {
				return err
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		item, err := d.decode(valueNode)
		if err != nil {
			return err
		}
		obj.Set(keyNode.Value, item)
	}
	return nil
}

func (d *yamlDecoder) merge(node *yaml.Node, obj *Object) error {
	if err := d.visit(node); err != nil {
		return err
	}
	if node.Kind == yaml.AliasNode {
		target, release, err := d.alias(node)
		if err != nil {
			return err
		}
		defer release()
		node = target
	}
	switch node.Kind {
	case yaml.MappingNode:
		return d.mapping(node, obj)
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if err := d.merge(child, obj); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: merge value must be a mapping", node.Line)
}

func decodeYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return None(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Boolean(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Integer(i), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}
