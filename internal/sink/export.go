// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"encoding/json"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// orderedRow marshals a Row as an object whose keys follow column order.
type orderedRow types.Row

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range types.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col.String())
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r orderedRow) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range types.Columns() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r[col]},
		)
	}
	return node, nil
}

func ordered(rows []types.Row) []orderedRow {
	out := make([]orderedRow, len(rows))
	for i, r := range rows {
		out[i] = orderedRow(r)
	}
	return out
}

// WriteJSON writes rows as an indented JSON array of objects.
func WriteJSON(w io.Writer, rows []types.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ordered(rows))
}

// WriteYAML writes rows as a YAML sequence of mappings.
func WriteYAML(w io.Writer, rows []types.Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ordered(rows)); err != nil {
		return err
	}
	return enc.Close()
}
