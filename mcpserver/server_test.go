package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hevymcp "github.com/jamoski3112/hevy-mcp"
	"github.com/jamoski3112/hevy-mcp/testutil"
)

const workoutID = "123e4567-e89b-12d3-a456-426614174000"

func connect(t *testing.T, api *testutil.FakeAPI) *mcp.ClientSession {
	t.Helper()
	d := testutil.NewTestDispatcher(t, api)
	server, err := New(d, nil)
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Close()
		cancel()
	})
	return session
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestServer_Identity(t *testing.T) {
	session := connect(t, testutil.NewFakeAPI())
	init := session.InitializeResult()
	require.NotNil(t, init)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, Name, init.ServerInfo.Name)
	assert.Equal(t, Version, init.ServerInfo.Version)
}

func TestServer_ListTools(t *testing.T) {
	session := connect(t, testutil.NewFakeAPI())
	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 23)

	byName := make(map[string]*mcp.Tool, len(res.Tools))
	for _, tool := range res.Tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
		byName[tool.Name] = tool
	}

	single := byName["get_single_workout"]
	require.NotNil(t, single)
	schema, err := json.Marshal(single.InputSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"workoutId":{"type":"string","format":"uuid"}},"required":["workoutId"]}`, string(schema))
	require.NotNil(t, single.Annotations)
	assert.True(t, single.Annotations.ReadOnlyHint)

	del := byName["delete_workout"]
	require.NotNil(t, del)
	require.NotNil(t, del.Annotations)
	require.NotNil(t, del.Annotations.DestructiveHint)
	assert.True(t, *del.Annotations.DestructiveHint)
}

func TestServer_CallTool(t *testing.T) {
	api := testutil.NewFakeAPI().On("GET", "/workouts/count", testutil.Reply{Payload: json.RawMessage(`{"workout_count":12}`)})
	session := connect(t, api)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "get_workout_count"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"workout_count":12}`, text(t, res))
}

func TestServer_DisplayableErrors(t *testing.T) {
	api := testutil.NewFakeAPI().On("DELETE", "/workouts/"+workoutID, testutil.Reply{
		Err: &testutil.StatusError{Code: 404, Body: []byte(`{"error":"Workout not found"}`)},
	})
	session := connect(t, api)
	ctx := context.Background()

	tests := []struct {
		name string
		call *mcp.CallToolParams
		want string
	}{
		{
			name: "invalid arguments",
			call: &mcp.CallToolParams{Name: "get_single_workout", Arguments: map[string]any{"workoutId": "not-a-uuid"}},
			want: "Invalid arguments:",
		},
		{
			name: "remote rejection",
			call: &mcp.CallToolParams{Name: "delete_workout", Arguments: map[string]any{"workoutId": workoutID}},
			want: `API Error: 404 - {"error":"Workout not found"}`,
		},
		{
			name: "unknown tool",
			call: &mcp.CallToolParams{Name: "nonexistent_tool"},
			want: "Unknown tool: nonexistent_tool",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := session.CallTool(ctx, tt.call)
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.want)
		})
	}
	for _, req := range api.Requests() {
		assert.NotEqual(t, "/workouts/not-a-uuid", req.Path)
	}
}

func TestServer_TransportFailureIsProtocolError(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.Default = testutil.Reply{Err: errors.New("connection refused")}
	session := connect(t, api)

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "get_user_info"})
	require.Error(t, err)
}

func TestToMCPTool_Hints(t *testing.T) {
	tool, err := toMCPTool(hevymcp.Descriptor{Name: "create_workout", Description: "Create", InputSchema: hevymcp.Export(hevymcp.Object())})
	require.NoError(t, err)
	require.NotNil(t, tool.Annotations.DestructiveHint)
	assert.False(t, *tool.Annotations.DestructiveHint)
	assert.False(t, tool.Annotations.ReadOnlyHint)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(tool.InputSchema.(json.RawMessage)))
}
