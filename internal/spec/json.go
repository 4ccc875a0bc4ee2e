package spec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// JSON returns the document as indented JSON. JSON input is returned
// unchanged; YAML input is re-encoded with its key order preserved.
func (d *Document) JSON() ([]byte, error) {
	if d == nil || d.root == nil {
		return nil, &DocumentStructureError{Pointer: "#", Message: "document is empty"}
	}
	if d.IsJSON() {
		return append([]byte(nil), d.Raw...), nil
	}
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent("  "))
	if err := writeNode(enc, d.root, "#"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(enc *jsontext.Encoder, n *yaml.Node, pointer string) error {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := resolveAlias(n.Content[i]).Value
			if err := enc.WriteToken(jsontext.String(key)); err != nil {
				return fmt.Errorf("%s: %w", pointer, err)
			}
			if err := writeNode(enc, n.Content[i+1], pointer+"/"+escapePointer(key)); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	case yaml.SequenceNode:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		for i, item := range n.Content {
			if err := writeNode(enc, item, pointer+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case yaml.ScalarNode:
		return enc.WriteToken(scalarToken(n))
	default:
		return &DocumentStructureError{Pointer: pointer, Message: "unsupported YAML node", Line: n.Line}
	}
}

func scalarToken(n *yaml.Node) jsontext.Token {
	switch n.ShortTag() {
	case "!!null":
		return jsontext.Null
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return jsontext.Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return jsontext.Int(i)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return jsontext.Float(f)
		}
	}
	return jsontext.String(n.Value)
}
