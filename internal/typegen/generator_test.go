package typegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2sdk/internal/codegen"
	"github.com/mark3labs/swagger2sdk/internal/spec"
)

const petsSpec = `openapi: 3.0.0
info:
  title: Pets
  version: 1.0.0
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema: {type: string}
    get:
      operationId: get-pet
      parameters:
        - name: verbose
          in: query
          schema: {type: boolean}
        - name: X-Trace
          in: header
          schema: {type: string}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Pet'}
        "404":
          description: missing
        default:
          description: error
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Error'}
  /pets:
    post:
      operationId: CreatePet
      requestBody:
        content:
          application/json:
            schema:
              allOf:
                - $ref: '#/components/schemas/Pet'
                - type: object
                  required: [owner]
                  properties:
                    owner: {type: string}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
    get:
      responses:
        "200": {description: ok}
components:
  schemas:
    Pet:
      type: object
      required: [id, kind]
      properties:
        id: {type: integer}
        kind: {type: string, enum: [cat, dog]}
        tag: {type: string, nullable: true}
        labels:
          type: object
          additionalProperties: {type: string}
        x-meta: {}
    Error:
      type: object
      properties:
        message: {type: string}
`

func generate(t *testing.T, src string, transform codegen.OperationNameTransform) *codegen.TypeBundle {
	t.Helper()
	doc, err := spec.Parse([]byte(src), "pets.yaml")
	require.NoError(t, err)
	bundle, err := ForDocument(doc).GenerateTypes(context.Background(), "", transform)
	require.NoError(t, err)
	return bundle
}

func TestGenerateTypes_ComponentSchemas(t *testing.T) {
	bundle := generate(t, petsSpec, nil)

	assert.Contains(t, bundle.Declarations, strings.Join([]string{
		"declare namespace Components {",
		"  namespace Schemas {",
		"    export interface Error {",
		"      message?: string;",
		"    }",
		"    export interface Pet {",
		"      id: number;",
		"      kind: 'cat' | 'dog';",
		"      labels?: {",
		"        [name: string]: string;",
		"      };",
		"      tag?: string | null;",
		"      'x-meta'?: any;",
		"    }",
		"  }",
		"}",
	}, "\n"))
	assert.Equal(t, Imports, bundle.Imports)
}

func TestGenerateTypes_OperationNamespaces(t *testing.T) {
	bundle := generate(t, petsSpec, nil)

	assert.Contains(t, bundle.Declarations, strings.Join([]string{
		"  namespace GetPet {",
		"    export interface PathParameters {",
		"      petId: string;",
		"    }",
		"    export interface QueryParameters {",
		"      verbose?: boolean;",
		"    }",
		"    export interface HeaderParameters {",
		"      'X-Trace'?: string;",
		"    }",
		"    namespace Responses {",
		"      export type $200 = Components.Schemas.Pet;",
		"      export type Default = Components.Schemas.Error;",
		"    }",
		"  }",
	}, "\n"))
	assert.Contains(t, bundle.Declarations, strings.Join([]string{
		"  namespace CreatePet {",
		"    export type RequestBody = Components.Schemas.Pet & {",
		"      owner: string;",
		"    };",
		"    namespace Responses {",
		"      export type $201 = Components.Schemas.Pet[];",
		"    }",
		"  }",
	}, "\n"))
	assert.Less(t, strings.Index(bundle.Declarations, "namespace GetPet"), strings.Index(bundle.Declarations, "namespace CreatePet"))
}

func TestGenerateTypes_ExportTypes(t *testing.T) {
	bundle := generate(t, petsSpec, nil)
	assert.Equal(t, []codegen.ExportType{
		{SchemaRef: "#/components/schemas/Error", Path: "Components.Schemas.Error"},
		{SchemaRef: "#/components/schemas/Pet", Path: "Components.Schemas.Pet"},
		{SchemaRef: "#/paths/get-pet/pathParameters", Path: "Paths.GetPet.PathParameters"},
		{SchemaRef: "#/paths/get-pet/queryParameters", Path: "Paths.GetPet.QueryParameters"},
		{SchemaRef: "#/paths/get-pet/headerParameters", Path: "Paths.GetPet.HeaderParameters"},
		{SchemaRef: "#/paths/get-pet/responses/200", Path: "Paths.GetPet.Responses.200"},
		{SchemaRef: "#/paths/get-pet/responses/default", Path: "Paths.GetPet.Responses.Default"},
		{SchemaRef: "#/paths/CreatePet/requestBody", Path: "Paths.CreatePet.RequestBody"},
		{SchemaRef: "#/paths/CreatePet/responses/201", Path: "Paths.CreatePet.Responses.201"},
	}, bundle.ExportTypes)
}

func TestGenerateTypes_FeedsResolver(t *testing.T) {
	ix := codegen.NewTypeIndex(generate(t, petsSpec, nil).ExportTypes)
	assert.Equal(t, []string{"Paths.GetPet.Responses.$200", "Paths.GetPet.Responses.Default"}, ix.ResponseTypes("get-pet"))
	assert.Equal(t, []string{
		"Paths.GetPet.PathParameters",
		"Paths.GetPet.QueryParameters",
		"Paths.GetPet.HeaderParameters",
	}, ix.ParameterTypes("get-pet"))
}

func TestGenerateTypes_NameTransformAndCollisions(t *testing.T) {
	bundle := generate(t, petsSpec, func(id string) string { return "v2_" + id })
	assert.Contains(t, bundle.Declarations, "namespace V2GetPet {")
	assert.Contains(t, bundle.ExportTypes, codegen.ExportType{SchemaRef: "#/paths/CreatePet/requestBody", Path: "Paths.V2CreatePet.RequestBody"})

	colliding := `openapi: 3.0.0
info: {title: t, version: "1"}
paths:
  /a:
    get:
      operationId: get-pet
      responses:
        "200": {description: ok, content: {application/json: {schema: {type: string}}}}
  /b:
    get:
      operationId: getPet
      responses:
        "200": {description: ok, content: {application/json: {schema: {type: number}}}}
`
	bundle = generate(t, colliding, nil)
	assert.Contains(t, bundle.Declarations, "namespace GetPet {")
	assert.Contains(t, bundle.Declarations, "namespace GetPet2 {")
	assert.Contains(t, bundle.ExportTypes, codegen.ExportType{SchemaRef: "#/paths/getPet/responses/200", Path: "Paths.GetPet2.Responses.200"})
}

func TestGenerateTypes_LoadsFromLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petsSpec), 0o644))

	bundle, err := New().GenerateTypes(context.Background(), path, codegen.IdentityOperationName)
	require.NoError(t, err)
	assert.Len(t, bundle.ExportTypes, 9)

	_, err = New().GenerateTypes(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	var se *spec.SpecError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, spec.InputError, se.Code)
}

func TestTsType_Shapes(t *testing.T) {
	src := `openapi: 3.0.0
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Mixed:
      oneOf:
        - {type: string}
        - type: array
          items:
            anyOf: [{type: integer}, {type: boolean}]
    Free:
      type: object
    Flag:
      type: boolean
      nullable: true
    Unknown: {}
`
	decl := generate(t, src, nil).Declarations
	assert.Contains(t, decl, "export type Mixed = string | (number | boolean)[];")
	assert.Contains(t, decl, "export type Free = {\n      [name: string]: any;\n    };")
	assert.Contains(t, decl, "export type Flag = boolean | null;")
	assert.Contains(t, decl, "export type Unknown = any;")
	assert.NotContains(t, decl, "declare namespace Paths")
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"V1CreateTestAction":    "V1CreateTestAction",
		"v1-create_test action": "V1CreateTestAction",
		"get pet/{id}":          "GetPetId",
		"123abc":                "_123abc",
		"--":                    "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, pascalCase(in), in)
	}
}
