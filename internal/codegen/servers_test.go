package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2sdk/internal/spec"
)

var labeledServers = []spec.Server{
	{URL: "http://localhost:3000/api", Description: "local_server"},
	{URL: "https://dev.example.com/v1", Description: "dev_server"},
	{URL: "https://stage.example.com", Description: "stage_server"},
	{URL: "https://api.example.com/v1/base", Description: "prod_server"},
	{URL: "https://other.example.com/x", Description: "mirror"},
}

func TestResolveServerEndpoints_Labels(t *testing.T) {
	e, err := ResolveServerEndpoints(labeledServers, ServerLabelIgnore)
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Server: "http://localhost:3000", Path: "/api"}, e.Local)
	assert.Equal(t, Endpoint{Server: "https://dev.example.com", Path: "/v1"}, e.Dev)
	assert.Equal(t, Endpoint{Server: "https://stage.example.com", Path: "/"}, e.Stage)
	assert.Equal(t, Endpoint{Server: "https://api.example.com", Path: "/v1/base"}, e.Prod)
}

func TestResolveServerEndpoints_UnmatchedPolicy(t *testing.T) {
	_, err := ResolveServerEndpoints(labeledServers, ServerLabelError)
	require.ErrorIs(t, err, ErrUnmatchedServer)
	var ue *UnmatchedServerError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "mirror", ue.Description)

	_, err = newRenderer(t, Options{OnUnmatchedServerLabel: ServerLabelError}).ServerEndpoints(labeledServers[:4])
	require.NoError(t, err)
}

func TestResolveServerEndpoints_RelativeAndRepeated(t *testing.T) {
	e, err := ResolveServerEndpoints([]spec.Server{
		{URL: "/relative/api", Description: "dev_server"},
		{URL: "https://first.example.com/a", Description: "prod_server"},
		{URL: "https://second.example.com/b", Description: "prod_server"},
	}, ServerLabelIgnore)
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Path: "/relative/api"}, e.Dev)
	assert.Equal(t, Endpoint{Server: "https://second.example.com", Path: "/b"}, e.Prod)
	assert.Equal(t, Endpoint{}, e.Local)
}

func TestServerEndpoints_Replacements(t *testing.T) {
	e, err := ResolveServerEndpoints(labeledServers, ServerLabelIgnore)
	require.NoError(t, err)
	out, err := Substitute("{@api_dev_server@}{@api_dev_path@} {@api_local_server@} {@api_stage_path@}", e.Replacements())
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example.com/v1 http://localhost:3000 /", out)

	out, err = Substitute("[{@api_prod_server@}]", ServerEndpoints{}.Replacements())
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
