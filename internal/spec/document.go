package spec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Document is a parsed OpenAPI v3 document.
//
// The raw yaml.v3 node tree is kept next to the kin-openapi model because the
// generators depend on declaration order (paths, then method keys), which the
// map-based openapi3 model does not retain.
type Document struct {
	Location string
	Raw      []byte
	// API is the validated kin-openapi model. It is nil for documents built
	// with Parse.
	API *openapi3.T

	root *yaml.Node
}

// Parse builds the ordered view of a YAML or JSON document without
// validating it against the OpenAPI schema.
func Parse(data []byte, location string) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Location: location, Cause: err}
	}
	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, &DocumentStructureError{Pointer: "#", Message: "document is empty"}
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if root.Kind != yaml.MappingNode {
		return nil, &DocumentStructureError{Pointer: "#", Message: "document root is not a mapping", Line: root.Line}
	}
	return &Document{Location: location, Raw: data, root: root}, nil
}

// Info returns the document's info block. Missing fields are empty.
func (d *Document) Info() Info {
	if d == nil {
		return Info{}
	}
	info := resolveAlias(mappingValue(d.root, "info"))
	return Info{
		Title:       scalarText(mappingValue(info, "title")),
		Version:     scalarText(mappingValue(info, "version")),
		Description: scalarText(mappingValue(info, "description")),
	}
}

// Servers returns the top-level servers in declaration order.
func (d *Document) Servers() []Server {
	if d == nil {
		return nil
	}
	servers, _ := readServers(resolveAlias(mappingValue(d.root, "servers")))
	return servers
}

// IsJSON reports whether the raw document is JSON rather than YAML.
func (d *Document) IsJSON() bool {
	trimmed := bytes.TrimSpace(d.Raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// mappingValue returns the value stored under key in a mapping node.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	m = resolveAlias(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	n = resolveAlias(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// scalarText renders a node as text. Scalars give their value; anything else
// is re-encoded as YAML so malformed metadata still shows up in the output.
func scalarText(n *yaml.Node) string {
	n = resolveAlias(n)
	if isNull(n) {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func escapePointer(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
