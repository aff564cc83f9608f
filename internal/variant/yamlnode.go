package variant

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// mapItem is one key of an orderedMap.
type mapItem struct {
	Key   string
	Value any
}

// orderedMap marshals as a YAML mapping whose keys keep insertion order.
// Go maps would be emitted sorted, which breaks the conventional layout of
// compose and workflow documents.
type orderedMap []mapItem

// MarshalYAML implements yaml.Marshaler.
func (m orderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, item := range m {
		val := &yaml.Node{}
		if err := val.Encode(item.Value); err != nil {
			return nil, errors.Wrapf(err, "encode key %q", item.Key)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item.Key},
			val,
		)
	}
	return node, nil
}

// encodeYAML renders v with two-space indentation.
func encodeYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "close yaml encoder")
	}
	return buf.String(), nil
}
