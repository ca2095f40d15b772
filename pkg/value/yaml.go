// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders v as a yaml.Node tree with sorted object keys, so a
// persisted Value round-trips byte-for-byte regardless of map iteration
// order — the same determinism guarantee Display and Hash give it.
func (v Value) MarshalYAML() (any, error) {
	return buildYAMLNode(v), nil
}

func buildYAMLNode(v Value) *yaml.Node {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		tag := "!!bool"
		val := "false"
		if v.b {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
	case KindUnsigned:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v.u)}
	case KindSigned:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v.i)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%v", v.f)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			node.Content = append(node.Content, buildYAMLNode(item))
		}
		return node
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.SortedKeys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				buildYAMLNode(v.obj[key]),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// UnmarshalYAML decodes a yaml.Node into v, inferring Unsigned vs Signed
// from whether the literal scalar carries a leading '-'.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	built, err := nodeToValue(node)
	if err != nil {
		return err
	}
	*v = built
	return nil
}

func nodeToValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return nodeToValue(node.Content[0])
	case yaml.ScalarNode:
		return scalarToValue(node)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := nodeToValue(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		obj := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			val, err := nodeToValue(valNode)
			if err != nil {
				return Value{}, err
			}
			obj[keyNode.Value] = val
		}
		return Object(obj), nil
	default:
		return Value{}, decodeErrorf("unsupported yaml node kind %d", node.Kind)
	}
}

func scalarToValue(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, decodeErrorf("decoding bool: %v", err)
		}
		return Bool(b), nil
	case "!!int":
		if len(node.Value) > 0 && node.Value[0] == '-' {
			var i int64
			if err := node.Decode(&i); err != nil {
				return Value{}, decodeErrorf("decoding signed int: %v", err)
			}
			return Signed(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return Value{}, decodeErrorf("decoding unsigned int: %v", err)
		}
		return Unsigned(u), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, decodeErrorf("decoding float: %v", err)
		}
		return Float(f), nil
	default:
		var s string
		if err := node.Decode(&s); err != nil {
			return Value{}, decodeErrorf("decoding string: %v", err)
		}
		return String(s), nil
	}
}
