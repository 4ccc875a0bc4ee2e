package tsemitter

import (
	"bytes"
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveProjectNames(t *testing.T) {
	tests := []struct {
		pkg  string
		want ProjectNames
	}{
		{"@acme/my-api-sdk", ProjectNames{Project: "my-api", Underscored: "my_api", Camel: "myApi", Lower: "my_api", Upper: "MY_API"}},
		{"pets", ProjectNames{Project: "pets", Underscored: "pets", Camel: "pets", Lower: "pets", Upper: "PETS"}},
		{"pet-store-sdk-sdk", ProjectNames{Project: "pet-store-sdk", Underscored: "pet_store_sdk", Camel: "petStoreSdk", Lower: "pet_store_sdk", Upper: "PET_STORE_SDK"}},
		{"@org/PetStore-sdk", ProjectNames{Project: "PetStore", Underscored: "PetStore", Camel: "petStore", Lower: "petstore", Upper: "PETSTORE"}},
		{"@org/v2-api", ProjectNames{Project: "v2-api", Underscored: "v2_api", Camel: "v2Api", Lower: "v2_api", Upper: "V2_API"}},
	}
	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveProjectNames(tt.pkg))
		})
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"HTTP", "Server"}, splitWords("HTTPServer"))
	assert.Equal(t, []string{"pet", "Store", "api"}, splitWords("petStore_api"))
	assert.Empty(t, splitWords("--"))
}

func TestPatchPackageJSON(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		fields []jsonField
		want   string
	}{
		{
			name:   "replaces in place",
			in:     `{"name":"sdk","version":"0.0.0","main":"dist/index.js"}`,
			fields: []jsonField{{"name", "@acme/pets"}, {"version", "1.2.3"}},
			want:   "{\n  \"name\": \"@acme/pets\",\n  \"version\": \"1.2.3\",\n  \"main\": \"dist/index.js\"\n}\n",
		},
		{
			name:   "appends missing keys in order",
			in:     `{"main":"dist/index.js","scripts":{"build":"tsc"}}`,
			fields: []jsonField{{"name", "pets"}, {"version", "1.0.0"}, {"description", ""}},
			want:   "{\n  \"main\": \"dist/index.js\",\n  \"scripts\": {\n    \"build\": \"tsc\"\n  },\n  \"name\": \"pets\",\n  \"version\": \"1.0.0\",\n  \"description\": \"\"\n}\n",
		},
		{
			name:   "replaces non-string values",
			in:     `{"version":1}`,
			fields: []jsonField{{"version", "2.0.0"}},
			want:   "{\n  \"version\": \"2.0.0\"\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := patchPackageJSON([]byte(tt.in), tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
			assert.True(t, jsontext.Value(bytes.TrimSpace(out)).IsValid())
		})
	}
}

func TestPatchPackageJSON_Invalid(t *testing.T) {
	_, err := patchPackageJSON([]byte(`["not", "an", "object"]`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an object")

	_, err = patchPackageJSON([]byte(`{"name": `), []jsonField{{"name", "x"}})
	require.Error(t, err)
}
