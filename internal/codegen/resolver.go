package codegen

import "strings"

// ExportType is one exported type produced by the type generator.
// SchemaRef locates the source schema, e.g. "#/paths/GetPet/pathParameters";
// Path is the qualified TypeScript name, e.g. "Paths.GetPet.PathParameters".
type ExportType struct {
	SchemaRef string
	Path      string
}

const pathsRefPrefix = "#/paths/"

// Parameter fragment kinds in the order their types are intersected.
var parameterKinds = [...]string{
	"pathParameters",
	"queryParameters",
	"headerParameters",
	"cookieParameters",
}

type operationTypes struct {
	params    [len(parameterKinds)]string
	hasParam  [len(parameterKinds)]bool
	body      string
	hasBody   bool
	responses []string
}

// TypeIndex maps operationIds to their exported type fragments. It is built
// once per generation and is safe for concurrent reads.
type TypeIndex struct {
	ops map[string]*operationTypes
}

// NewTypeIndex indexes exports by operationId. For repeated parameter or body
// references the first one wins; responses keep every match in input order.
func NewTypeIndex(exports []ExportType) *TypeIndex {
	ix := &TypeIndex{ops: make(map[string]*operationTypes)}
	for _, e := range exports {
		rest, ok := strings.CutPrefix(e.SchemaRef, pathsRefPrefix)
		if !ok {
			continue
		}
		if ix.addExact(rest, e.Path) {
			continue
		}
		if i := strings.Index(rest, "/responses"); i >= 0 {
			t := ix.entry(rest[:i])
			t.responses = append(t.responses, withStatusSigil(e.Path))
		}
	}
	return ix
}

func (ix *TypeIndex) addExact(rest, path string) bool {
	for k, kind := range parameterKinds {
		if id, ok := strings.CutSuffix(rest, "/"+kind); ok {
			t := ix.entry(id)
			if !t.hasParam[k] {
				t.params[k], t.hasParam[k] = path, true
			}
			return true
		}
	}
	if id, ok := strings.CutSuffix(rest, "/requestBody"); ok {
		t := ix.entry(id)
		if !t.hasBody {
			t.body, t.hasBody = path, true
		}
		return true
	}
	return false
}

func (ix *TypeIndex) entry(id string) *operationTypes {
	t, ok := ix.ops[id]
	if !ok {
		t = &operationTypes{}
		ix.ops[id] = t
	}
	return t
}

// Has reports whether any fragment was indexed for operationID.
func (ix *TypeIndex) Has(operationID string) bool {
	_, ok := ix.ops[operationID]
	return ok
}

// ParameterTypes returns the present parameter types in path, query, header,
// cookie order.
func (ix *TypeIndex) ParameterTypes(operationID string) []string {
	t, ok := ix.ops[operationID]
	if !ok {
		return nil
	}
	var out []string
	for k := range parameterKinds {
		if t.hasParam[k] {
			out = append(out, t.params[k])
		}
	}
	return out
}

func (ix *TypeIndex) RequestBodyType(operationID string) (string, bool) {
	t, ok := ix.ops[operationID]
	if !ok || !t.hasBody {
		return "", false
	}
	return t.body, true
}

// ResponseTypes returns response types with numeric status segments rewritten
// to their "$"-prefixed export names.
func (ix *TypeIndex) ResponseTypes(operationID string) []string {
	t, ok := ix.ops[operationID]
	if !ok || len(t.responses) == 0 {
		return nil
	}
	return append([]string(nil), t.responses...)
}

// ResolveParameterTypes is NewTypeIndex(exports).ParameterTypes(operationID).
func ResolveParameterTypes(operationID string, exports []ExportType) []string {
	return NewTypeIndex(exports).ParameterTypes(operationID)
}

// ResolveRequestBodyType is NewTypeIndex(exports).RequestBodyType(operationID).
func ResolveRequestBodyType(operationID string, exports []ExportType) (string, bool) {
	return NewTypeIndex(exports).RequestBodyType(operationID)
}

// ResolveResponseTypes is NewTypeIndex(exports).ResponseTypes(operationID).
func ResolveResponseTypes(operationID string, exports []ExportType) []string {
	return NewTypeIndex(exports).ResponseTypes(operationID)
}

// withStatusSigil turns "Paths.Op.Responses.200" into "Paths.Op.Responses.$200".
// Only a purely numeric final segment is rewritten.
func withStatusSigil(path string) string {
	i := strings.LastIndexByte(path, '.')
	last := path[i+1:]
	if last == "" {
		return path
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return path
		}
	}
	return path[:i+1] + "$" + last
}
