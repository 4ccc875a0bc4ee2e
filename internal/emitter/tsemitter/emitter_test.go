package tsemitter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2sdk/internal/codegen"
	"github.com/mark3labs/swagger2sdk/internal/spec"
)

const testActionJSON = `{
  "openapi": "3.0.0",
  "info": {"title": "Test", "version": "1.2.3", "description": "Test API"},
  "servers": [
    {"url": "http://localhost:3000/api", "description": "local_server"},
    {"url": "https://dev.example.com/v1", "description": "dev_server"}
  ],
  "paths": {
    "/v1/test-action": {
      "post": {
        "operationId": "V1CreateTestAction",
        "summary": "Create",
        "requestBody": {
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/V1CreateTestAction"}}}
        },
        "responses": {
          "200": {
            "description": "ok",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/V1CreateTestResponse"}}}
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "V1CreateTestAction": {"type": "object", "properties": {"name": {"type": "string"}}},
      "V1CreateTestResponse": {"type": "object", "properties": {"id": {"type": "string"}}}
    }
  }
}`

const petsYAML = `openapi: 3.0.0
info:
  title: Pets
  version: 2.0.0
servers:
  - url: https://api.example.com/pets
    description: prod_server
paths:
  /pets:
    get:
      operationId: ListPets
      summary: List pets
      tags: [read]
      responses:
        "200":
          description: ok
    post:
      operationId: CreatePet
      tags: [write]
      responses:
        "201":
          description: created
  /admin:
    delete:
      operationId: Purge
      tags: [admin]
      responses:
        "204":
          description: gone
`

func parseDoc(t *testing.T, src, location string) *spec.Document {
	t.Helper()
	doc, err := spec.Parse([]byte(src), location)
	require.NoError(t, err)
	return doc
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestEmit_DryRunPlan(t *testing.T) {
	dir := t.TempDir()
	res, err := Emit(context.Background(), parseDoc(t, testActionJSON, "test.json"), Options{
		OutDir:      dir,
		PackageName: "@acme/my-api-sdk",
		DryRun:      true,
	})
	require.NoError(t, err)

	var rels []string
	for _, pf := range res.Planned {
		rels = append(rels, pf.RelPath)
		assert.Positive(t, pf.Size, pf.RelPath)
	}
	assert.Equal(t, []string{
		".gitignore",
		"README.md",
		"build.sh",
		"package.json",
		"src/client.ts",
		"src/index.ts",
		"src/swagger.json",
		"src/types.ts",
		"tsconfig.json",
	}, rels)
	assert.Equal(t, "@acme/my-api-sdk", res.PackageName)
	assert.Equal(t, "1.2.3", res.Version)
	assert.Equal(t, 1, res.Operations)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry-run must not write files")
}

func TestEmit_WritesProject(t *testing.T) {
	dir := t.TempDir()
	_, err := Emit(context.Background(), parseDoc(t, testActionJSON, "test.json"), Options{
		OutDir:      dir,
		PackageName: "@acme/my-api-sdk",
		Force:       true,
	})
	require.NoError(t, err)

	types := readFile(t, dir, "src/types.ts")
	assert.Contains(t, types, "Types for the my_api SDK")
	assert.Contains(t, types, strings.Join([]string{
		"  /**",
		"   * V1CreateTestAction - Create",
		"   */",
		"  'V1CreateTestAction'(",
		"    parameters?: Parameters<UnknownParamsObject> | null,",
		"    data?: Paths.V1CreateTestAction.RequestBody,",
		"    config?: AxiosRequestConfig",
		"  ): OperationResponse<Paths.V1CreateTestAction.Responses.$200>",
	}, "\n"))
	assert.Contains(t, types, "export type Client = OpenAPIClient<OperationMethods, PathsDictionary>")
	assert.NotContains(t, types, "{@")

	client := readFile(t, dir, "src/client.ts")
	assert.Contains(t, client, "local: { server: 'http://localhost:3000', path: '/api' },")
	assert.Contains(t, client, "dev: { server: 'https://dev.example.com', path: '/v1' },")
	assert.Contains(t, client, "prod: { server: '', path: '' },")
	assert.Contains(t, client, "export const myApi = {")
	assert.Contains(t, client, "process.env.MY_API_ENV")
	assert.Contains(t, client, "export const sdkName = 'my_api';")
	assert.Contains(t, client, "'V1CreateTestAction': async (")
	assert.Contains(t, client, "   * Create\n")
	assert.NotContains(t, client, "{@")

	assert.Equal(t, testActionJSON, readFile(t, dir, "src/swagger.json"))
	assert.Contains(t, readFile(t, dir, "src/index.ts"), "export * from './client';")
	assert.Contains(t, readFile(t, dir, ".gitignore"), "node_modules/")

	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, dir, "package.json")), &pkg))
	assert.Equal(t, "@acme/my-api-sdk", pkg["name"])
	assert.Equal(t, "1.2.3", pkg["version"])
	assert.Equal(t, "Test API", pkg["description"])

	if runtime.GOOS != "windows" {
		st, err := os.Stat(filepath.Join(dir, "build.sh"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), st.Mode().Perm())
	}
}

func TestEmit_YAMLDocumentFiltersAndVersion(t *testing.T) {
	dir := t.TempDir()
	res, err := Emit(context.Background(), parseDoc(t, petsYAML, "pets.yaml"), Options{
		OutDir:      dir,
		PackageName: "pets-sdk",
		Version:     "9.9.9",
		Filters:     []spec.FilterOption{spec.WithExcludeTags([]string{"admin"})},
		Codegen:     codegen.Options{ClientMethods: codegen.AllMethods},
	})
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", res.Version)
	assert.Equal(t, 2, res.Operations)

	swagger := []byte(readFile(t, dir, "src/swagger.json"))
	assert.True(t, jsontext.Value(bytes.TrimSpace(swagger)).IsValid(), "swagger.json must be JSON")
	assert.Less(t, bytes.Index(swagger, []byte(`"openapi"`)), bytes.Index(swagger, []byte(`"info"`)))
	assert.Less(t, bytes.Index(swagger, []byte(`"/pets"`)), bytes.Index(swagger, []byte(`"/admin"`)))
	assert.Contains(t, string(swagger), `"version": "2.0.0"`)

	types := readFile(t, dir, "src/types.ts")
	assert.Contains(t, types, "'ListPets'(")
	assert.Contains(t, types, "'CreatePet'(")
	assert.NotContains(t, types, "'Purge'(")

	client := readFile(t, dir, "src/client.ts")
	assert.Contains(t, client, "export const pets = {")
	assert.Contains(t, client, "prod: { server: 'https://api.example.com', path: '/pets' },")
	assert.Contains(t, client, "'CreatePet': async (")
}

func TestEmit_VersionFallbacks(t *testing.T) {
	res, err := Emit(context.Background(), parseDoc(t, petsYAML, "pets.yaml"), Options{OutDir: t.TempDir(), PackageName: "pets", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", res.Version)

	noVersion := strings.Replace(petsYAML, "  version: 2.0.0\n", "", 1)
	res, err = Emit(context.Background(), parseDoc(t, noVersion, "pets.yaml"), Options{OutDir: t.TempDir(), PackageName: "pets", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, res.Version)
}

func TestEmit_NoForceNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o600))

	doc := parseDoc(t, testActionJSON, "test.json")
	_, err := Emit(context.Background(), doc, Options{OutDir: dir, PackageName: "pkg"})
	require.ErrorIs(t, err, ErrOutputNotEmpty)

	_, err = Emit(context.Background(), doc, Options{OutDir: dir, PackageName: "pkg", Force: true})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "existing.txt"))
	assert.FileExists(t, filepath.Join(dir, "src", "client.ts"))
}

func TestEmit_TemplateOverride(t *testing.T) {
	dir := t.TempDir()
	override := fstest.MapFS{
		"client-method.tmpl": {Data: []byte("  // {@method@} {@endpoint@}\n  {@operation_id@}: null")},
		"static/extra.txt":   {Data: []byte("extra")},
		"static/README.md":   {Data: []byte("custom readme")},
	}
	_, err := Emit(context.Background(), parseDoc(t, testActionJSON, "test.json"), Options{
		OutDir:      dir,
		PackageName: "pkg",
		Templates:   override,
	})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, "src/client.ts"), "  // post /v1/test-action\n  V1CreateTestAction: null")
	assert.Equal(t, "extra", readFile(t, dir, "extra.txt"))
	assert.Equal(t, "custom readme", readFile(t, dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, "tsconfig.json"))
}

func TestEmit_PolicyErrors(t *testing.T) {
	doc := parseDoc(t, strings.Replace(testActionJSON, `"description": "dev_server"`, `"description": "qa_server"`, 1), "test.json")
	_, err := Emit(context.Background(), doc, Options{
		OutDir:      t.TempDir(),
		PackageName: "pkg",
		DryRun:      true,
		Codegen:     codegen.Options{OnUnmatchedServerLabel: codegen.ServerLabelError},
	})
	require.ErrorIs(t, err, codegen.ErrUnmatchedServer)

	_, err = Emit(context.Background(), doc, Options{
		OutDir:      t.TempDir(),
		PackageName: "pkg",
		DryRun:      true,
		Codegen:     codegen.Options{OnMissingTypeRef: codegen.MissingTypeError},
		Types: codegen.TypeSourceFunc(func(context.Context, string, codegen.OperationNameTransform) (*codegen.TypeBundle, error) {
			return &codegen.TypeBundle{}, nil
		}),
	})
	require.ErrorIs(t, err, codegen.ErrMissingTypeRef)
}

func TestEmit_CustomTypeSource(t *testing.T) {
	var gotLocation string
	source := codegen.TypeSourceFunc(func(_ context.Context, location string, transform codegen.OperationNameTransform) (*codegen.TypeBundle, error) {
		gotLocation = location
		assert.Equal(t, "Same", transform("Same"))
		return &codegen.TypeBundle{
			Imports:     "import type { OpenAPIClient } from 'openapi-client-axios';",
			ExportTypes: []codegen.ExportType{{SchemaRef: "#/paths/V1CreateTestAction/responses/200", Path: "Custom.Responses.200"}},
		}, nil
	})
	dir := t.TempDir()
	_, err := Emit(context.Background(), parseDoc(t, testActionJSON, "/specs/test.json"), Options{OutDir: dir, PackageName: "pkg", Types: source})
	require.NoError(t, err)
	assert.Equal(t, "/specs/test.json", gotLocation)
	assert.Contains(t, readFile(t, dir, "src/types.ts"), "OperationResponse<Custom.Responses.$200>")
}

func TestEmit_RequiredOptions(t *testing.T) {
	doc := parseDoc(t, testActionJSON, "test.json")
	_, err := Emit(context.Background(), nil, Options{OutDir: "x", PackageName: "p"})
	assert.Error(t, err)
	_, err = Emit(context.Background(), doc, Options{PackageName: "p"})
	assert.Error(t, err)
	_, err = Emit(context.Background(), doc, Options{OutDir: "x"})
	assert.Error(t, err)
}
