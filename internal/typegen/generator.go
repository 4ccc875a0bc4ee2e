// Package typegen produces TypeScript declarations for an OpenAPI v3
// document: a Components namespace for component schemas and a Paths
// namespace with the parameter, request body and response types of every
// operation. It implements codegen.TypeSource.
package typegen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/swagger2sdk/internal/codegen"
	"github.com/mark3labs/swagger2sdk/internal/spec"
)

// Imports is the import block the generated declarations rely on.
const Imports = `import type {
  OpenAPIClient,
  Parameters,
  UnknownParamsObject,
  OperationResponse,
  AxiosRequestConfig,
} from 'openapi-client-axios';`

var parameterKinds = []struct {
	in   string
	kind string // schema reference segment
	name string // exported type name
}{
	{openapi3.ParameterInPath, "pathParameters", "PathParameters"},
	{openapi3.ParameterInQuery, "queryParameters", "QueryParameters"},
	{openapi3.ParameterInHeader, "headerParameters", "HeaderParameters"},
	{openapi3.ParameterInCookie, "cookieParameters", "CookieParameters"},
}

// Generator implements codegen.TypeSource.
type Generator struct {
	doc      *spec.Document
	loadOpts []spec.Option
	logger   *slog.Logger
}

type Option func(*Generator)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithLoadOptions sets the options used when the generator loads a document.
func WithLoadOptions(opts ...spec.Option) Option {
	return func(g *Generator) { g.loadOpts = append(g.loadOpts, opts...) }
}

// New returns a Generator that loads the document named by each call.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

// ForDocument returns a Generator bound to an already loaded document. Calls
// whose location is empty or equal to doc.Location reuse it.
func ForDocument(doc *spec.Document, opts ...Option) *Generator {
	g := New(opts...)
	g.doc = doc
	return g
}

var _ codegen.TypeSource = (*Generator)(nil)

func (g *Generator) GenerateTypes(ctx context.Context, location string, transform codegen.OperationNameTransform) (*codegen.TypeBundle, error) {
	if transform == nil {
		transform = codegen.IdentityOperationName
	}
	doc := g.doc
	if doc == nil || (location != "" && location != doc.Location) {
		loaded, err := spec.Load(ctx, location, append([]spec.Option{spec.WithLogger(g.logger)}, g.loadOpts...)...)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}
	api := doc.API
	if api == nil {
		loaded, err := openapi3.NewLoader().LoadFromData(doc.Raw)
		if err != nil {
			return nil, &spec.SpecError{Code: spec.ParseError, Message: fmt.Sprintf("load %s: %v", doc.Location, err), Location: doc.Location, Cause: err}
		}
		api = loaded
	}
	items, err := spec.ReadPaths(doc)
	if err != nil {
		return nil, err
	}

	b := &builder{transform: transform, used: make(map[string]string)}
	sections := []string{b.components(api), b.paths(api, items)}
	var kept []string
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	g.logger.Debug("generated type declarations", "location", doc.Location, "exports", len(b.exports))
	return &codegen.TypeBundle{
		Imports:      Imports,
		Declarations: strings.Join(kept, "\n\n"),
		ExportTypes:  b.exports,
	}, nil
}

type builder struct {
	transform codegen.OperationNameTransform
	exports   []codegen.ExportType
	// used maps generated operation identifiers to their operationId.
	used map[string]string
}

func (b *builder) export(ref, path string) {
	b.exports = append(b.exports, codegen.ExportType{SchemaRef: ref, Path: path})
}

func (b *builder) components(api *openapi3.T) string {
	if api.Components == nil || len(api.Components.Schemas) == 0 {
		return ""
	}
	names := make([]string, 0, len(api.Components.Schemas))
	for name := range api.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	members := make([]string, 0, len(names))
	for _, name := range names {
		id := identifier(name)
		members = append(members, componentDeclaration(id, api.Components.Schemas[name]))
		b.export(componentSchemaPrefix+name, "Components.Schemas."+id)
	}
	return "declare namespace Components {\n" + indent(namespace("Schemas", members), 2) + "\n}"
}

func componentDeclaration(id string, ref *openapi3.SchemaRef) string {
	if ref != nil && ref.Ref == "" && ref.Value != nil {
		s := ref.Value
		plain := len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 && len(s.Enum) == 0 && !s.Nullable
		if plain && len(s.Properties) > 0 && (primaryType(s) == "" || primaryType(s) == openapi3.TypeObject) && !s.Type.Includes(openapi3.TypeNull) {
			return "export interface " + id + " " + objectLiteral(s, 0)
		}
	}
	return "export type " + id + " = " + tsType(ref, 0) + ";"
}

func (b *builder) paths(api *openapi3.T, items []spec.PathItem) string {
	if api.Paths == nil {
		return ""
	}
	var members []string
	for _, item := range items {
		kinItem := api.Paths.Value(item.Path)
		if kinItem == nil {
			continue
		}
		for _, op := range item.Operations {
			if op.OperationID == "" {
				continue
			}
			kinOp := kinItem.GetOperation(strings.ToUpper(string(op.Method)))
			if kinOp == nil {
				continue
			}
			if ns := b.operation(op.OperationID, kinItem, kinOp); ns != "" {
				members = append(members, ns)
			}
		}
	}
	if len(members) == 0 {
		return ""
	}
	return "declare namespace Paths {\n" + indent(strings.Join(members, "\n"), 2) + "\n}"
}

// operationName returns a unique identifier for operationID.
func (b *builder) operationName(operationID string) string {
	base := pascalCase(b.transform(operationID))
	name := base
	for n := 2; ; n++ {
		owner, taken := b.used[name]
		if !taken || owner == operationID {
			break
		}
		name = fmt.Sprintf("%s%d", base, n)
	}
	b.used[name] = operationID
	return name
}

func (b *builder) operation(operationID string, item *openapi3.PathItem, op *openapi3.Operation) string {
	name := b.operationName(operationID)
	refBase := "#/paths/" + operationID + "/"
	pathBase := "Paths." + name + "."
	var members []string

	params := mergeParameters(op.Parameters, item.Parameters)
	for _, k := range parameterKinds {
		var fields []field
		for _, p := range params {
			if p.In != k.in {
				continue
			}
			fields = append(fields, field{name: p.Name, required: p.Required || p.In == openapi3.ParameterInPath, typ: parameterType(p)})
		}
		if len(fields) == 0 {
			continue
		}
		members = append(members, "export interface "+k.name+" "+renderFields(fields))
		b.export(refBase+k.kind, pathBase+k.name)
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if schema, ok := pickSchema(op.RequestBody.Value.Content); ok {
			members = append(members, "export type RequestBody = "+tsType(schema, 0)+";")
			b.export(refBase+"requestBody", pathBase+"RequestBody")
		}
	}

	byCode := op.Responses.Map()
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	var responses []string
	for _, code := range codes {
		ref := byCode[code]
		if ref == nil || ref.Value == nil {
			continue
		}
		schema, ok := pickSchema(ref.Value.Content)
		if !ok {
			continue
		}
		typeName := responseTypeName(code)
		responses = append(responses, "export type "+typeName+" = "+tsType(schema, 0)+";")
		exportName := typeName
		if isStatusCode(code) {
			exportName = code
		}
		b.export(refBase+"responses/"+code, pathBase+"Responses."+exportName)
	}
	if len(responses) > 0 {
		members = append(members, namespace("Responses", responses))
	}

	if len(members) == 0 {
		return ""
	}
	return namespace(name, members)
}

// mergeParameters returns operation parameters followed by path parameters
// the operation does not override.
func mergeParameters(opParams, pathParams openapi3.Parameters) []*openapi3.Parameter {
	seen := make(map[string]bool)
	var out []*openapi3.Parameter
	for _, list := range []openapi3.Parameters{opParams, pathParams} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			key := ref.Value.In + "\x00" + ref.Value.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ref.Value)
		}
	}
	return out
}

func parameterType(p *openapi3.Parameter) string {
	if p.Schema != nil {
		return tsType(p.Schema, 1)
	}
	if schema, ok := pickSchema(p.Content); ok {
		return tsType(schema, 1)
	}
	return "any"
}

// pickSchema prefers application/json, then the first media type by name.
func pickSchema(content openapi3.Content) (*openapi3.SchemaRef, bool) {
	if len(content) == 0 {
		return nil, false
	}
	if mt := content["application/json"]; mt != nil && mt.Schema != nil {
		return mt.Schema, true
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if mt := content[k]; mt != nil && mt.Schema != nil {
			return mt.Schema, true
		}
	}
	return nil, false
}

func responseTypeName(code string) string {
	if strings.EqualFold(code, "default") {
		return "Default"
	}
	return "$" + strings.TrimPrefix(identifier("x"+code), "x")
}

func isStatusCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func namespace(name string, members []string) string {
	return "namespace " + name + " {\n" + indent(strings.Join(members, "\n"), 2) + "\n}"
}
