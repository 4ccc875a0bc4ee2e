package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var petExports = []ExportType{
	{SchemaRef: "#/components/schemas/Pet", Path: "Components.Schemas.Pet"},
	{SchemaRef: "#/paths/GetPet/headerParameters", Path: "Paths.GetPet.HeaderParameters"},
	{SchemaRef: "#/paths/GetPet/pathParameters", Path: "Paths.GetPet.PathParameters"},
	{SchemaRef: "#/paths/GetPet/queryParameters", Path: "Paths.GetPet.QueryParameters"},
	{SchemaRef: "#/paths/GetPet/responses/200", Path: "Paths.GetPet.Responses.200"},
	{SchemaRef: "#/paths/GetPet/responses/404", Path: "Paths.GetPet.Responses.404"},
	{SchemaRef: "#/paths/GetPet/responses/default", Path: "Paths.GetPet.Responses.Default"},
	{SchemaRef: "#/paths/GetPetOwner/pathParameters", Path: "Paths.GetPetOwner.PathParameters"},
	{SchemaRef: "#/paths/CreatePet/requestBody", Path: "Paths.CreatePet.RequestBody"},
	{SchemaRef: "#/paths/CreatePet/requestBody", Path: "Paths.CreatePet.Duplicate"},
}

func TestTypeIndex_ParameterOrder(t *testing.T) {
	ix := NewTypeIndex(petExports)
	assert.Equal(t, []string{
		"Paths.GetPet.PathParameters",
		"Paths.GetPet.QueryParameters",
		"Paths.GetPet.HeaderParameters",
	}, ix.ParameterTypes("GetPet"))
}

func TestTypeIndex_ExactOperationMatch(t *testing.T) {
	ix := NewTypeIndex(petExports)
	assert.Equal(t, []string{"Paths.GetPetOwner.PathParameters"}, ix.ParameterTypes("GetPetOwner"))
	assert.Nil(t, ix.ParameterTypes("GetPe"))
	assert.Nil(t, ix.ParameterTypes("CreatePet"))
	assert.False(t, ix.Has("Unknown"))
	assert.True(t, ix.Has("CreatePet"))
}

func TestTypeIndex_RequestBodyFirstWins(t *testing.T) {
	body, ok := ResolveRequestBodyType("CreatePet", petExports)
	assert.True(t, ok)
	assert.Equal(t, "Paths.CreatePet.RequestBody", body)

	_, ok = ResolveRequestBodyType("GetPet", petExports)
	assert.False(t, ok)
}

func TestTypeIndex_ResponseStatusSigil(t *testing.T) {
	assert.Equal(t, []string{
		"Paths.GetPet.Responses.$200",
		"Paths.GetPet.Responses.$404",
		"Paths.GetPet.Responses.Default",
	}, ResolveResponseTypes("GetPet", petExports))
	assert.Nil(t, ResolveResponseTypes("CreatePet", petExports))
}

func TestTypeIndex_ResponsesKeepInputOrderAndDuplicates(t *testing.T) {
	exports := []ExportType{
		{SchemaRef: "#/paths/Op/responses/500", Path: "Paths.Op.Responses.500"},
		{SchemaRef: "#/paths/Op/responses/200", Path: "Paths.Op.Responses.200"},
		{SchemaRef: "#/paths/Op/responses/200", Path: "Paths.Op.Responses.200"},
	}
	assert.Equal(t, []string{"Paths.Op.Responses.$500", "Paths.Op.Responses.$200", "Paths.Op.Responses.$200"},
		ResolveResponseTypes("Op", exports))
}

func TestWithStatusSigil(t *testing.T) {
	cases := map[string]string{
		"Paths.Op.Responses.200":     "Paths.Op.Responses.$200",
		"Paths.Op.Responses.Default": "Paths.Op.Responses.Default",
		"Paths.Op.Responses.2XX":     "Paths.Op.Responses.2XX",
		"Paths.Op.Responses.":        "Paths.Op.Responses.",
		"201":                        "$201",
	}
	for in, want := range cases {
		assert.Equal(t, want, withStatusSigil(in), in)
	}
}

func TestResolveParameterTypes_EmptyExports(t *testing.T) {
	assert.Empty(t, ResolveParameterTypes("Anything", nil))
}
