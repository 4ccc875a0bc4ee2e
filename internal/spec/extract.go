package spec

import (
	"gopkg.in/yaml.v3"
)

// ExtractOperations flattens the document's paths into one operation per
// method, in path declaration order and then method key order.
//
// Duplicate operationIds are passed through untouched.
func ExtractOperations(doc *Document) ([]Operation, error) {
	items, err := ReadPaths(doc)
	if err != nil {
		return nil, err
	}
	return Flatten(items), nil
}

// Flatten concatenates the operations of every path item.
func Flatten(items []PathItem) []Operation {
	var ops []Operation
	for _, item := range items {
		ops = append(ops, item.Operations...)
	}
	return ops
}

// ReadPaths returns every path item with its operations. Only keys naming an
// HTTP method become operations; path-level parameters and servers are
// appended after each operation's own entries.
func ReadPaths(doc *Document) ([]PathItem, error) {
	if doc == nil || doc.root == nil {
		return nil, &DocumentStructureError{Pointer: "#", Message: "document is nil"}
	}
	paths := resolveAlias(mappingValue(doc.root, "paths"))
	if paths == nil {
		return nil, &DocumentStructureError{Pointer: "#/paths", Message: "paths object is missing"}
	}
	if paths.Kind != yaml.MappingNode {
		return nil, &DocumentStructureError{Pointer: "#/paths", Message: "paths must be a mapping", Line: paths.Line}
	}

	items := make([]PathItem, 0, len(paths.Content)/2)
	for i := 0; i+1 < len(paths.Content); i += 2 {
		path := paths.Content[i].Value
		ptr := "#/paths/" + escapePointer(path)
		node := resolveAlias(paths.Content[i+1])
		item := PathItem{Path: path}
		if isNull(node) {
			items = append(items, item)
			continue
		}
		if node.Kind != yaml.MappingNode {
			return nil, &DocumentStructureError{Pointer: ptr, Message: "path item must be a mapping", Line: node.Line}
		}

		var pathParams []Parameter
		if n := resolveAlias(mappingValue(node, "parameters")); !isNull(n) {
			var ok bool
			if pathParams, ok = readParameters(n); !ok {
				return nil, &DocumentStructureError{Pointer: ptr + "/parameters", Message: "parameters must be a sequence", Line: n.Line}
			}
		}
		var pathServers []Server
		if n := resolveAlias(mappingValue(node, "servers")); !isNull(n) {
			var ok bool
			if pathServers, ok = readServers(n); !ok {
				return nil, &DocumentStructureError{Pointer: ptr + "/servers", Message: "servers must be a sequence", Line: n.Line}
			}
		}

		for j := 0; j+1 < len(node.Content); j += 2 {
			method, ok := ParseMethod(node.Content[j].Value)
			if !ok {
				continue
			}
			op := readOperation(resolveAlias(node.Content[j+1]))
			op.Path = path
			op.Method = method
			if len(pathParams) > 0 {
				op.Parameters = append(op.Parameters, pathParams...)
			}
			if len(pathServers) > 0 {
				op.Servers = append(op.Servers, pathServers...)
			}
			item.Operations = append(item.Operations, op)
		}
		items = append(items, item)
	}
	return items, nil
}

// readOperation copies the metadata fields of an operation object. Responses
// and request bodies are left to the type generator. A value that is not a
// mapping yields an empty operation.
func readOperation(n *yaml.Node) Operation {
	var op Operation
	if n == nil || n.Kind != yaml.MappingNode {
		return op
	}
	op.OperationID = scalarText(mappingValue(n, "operationId"))
	op.Summary = scalarText(mappingValue(n, "summary"))
	op.Description = scalarText(mappingValue(n, "description"))
	op.Deprecated = scalarText(mappingValue(n, "deprecated")) == "true"
	if tags := resolveAlias(mappingValue(n, "tags")); tags != nil && tags.Kind == yaml.SequenceNode {
		for _, t := range tags.Content {
			if s := scalarText(t); s != "" {
				op.Tags = append(op.Tags, s)
			}
		}
	}
	op.Parameters, _ = readParameters(resolveAlias(mappingValue(n, "parameters")))
	op.Servers, _ = readServers(resolveAlias(mappingValue(n, "servers")))
	return op
}

func readParameters(n *yaml.Node) ([]Parameter, bool) {
	if isNull(n) {
		return nil, true
	}
	if n.Kind != yaml.SequenceNode {
		return nil, false
	}
	var params []Parameter
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			continue
		}
		params = append(params, Parameter{
			Name:        scalarText(mappingValue(item, "name")),
			In:          scalarText(mappingValue(item, "in")),
			Description: scalarText(mappingValue(item, "description")),
			Required:    scalarText(mappingValue(item, "required")) == "true",
			Ref:         scalarText(mappingValue(item, "$ref")),
		})
	}
	return params, true
}

func readServers(n *yaml.Node) ([]Server, bool) {
	if isNull(n) {
		return nil, true
	}
	if n.Kind != yaml.SequenceNode {
		return nil, false
	}
	var servers []Server
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			continue
		}
		servers = append(servers, Server{
			URL:         scalarText(mappingValue(item, "url")),
			Description: scalarText(mappingValue(item, "description")),
		})
	}
	return servers, true
}
