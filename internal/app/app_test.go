package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"abilityctl/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
abilities:
  - id: chat-1
    provider: openai
    capabilityKey: chat
    name: Chat
    defaultParams:
      model: gpt-4o
executors:
  - id: e1
    type: openai-prod
`

func testConfig(t *testing.T, backend string) config.AbilityctlConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	cfg := config.GetDefaultConfig()
	cfg.Catalog.Path = path
	cfg.Invoker.BaseURL = backend
	cfg.InvocationLog.Sinks = nil
	return cfg
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.GetDefaultConfig(), "")
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, "1.2.3", NewConfig(config.GetDefaultConfig(), "1.2.3").Version)
}

func TestInitializeServices(t *testing.T) {
	svc, err := InitializeServices(context.Background(), testConfig(t, "http://localhost:1"))
	require.NoError(t, err)
	defer svc.Close()

	assert.NotNil(t, svc.Catalog)
	assert.NotNil(t, svc.Orchestrator)
	assert.NotNil(t, svc.Metrics)
	assert.Nil(t, svc.Credentials)

	abilities, err := svc.Catalog.ListAbilities(context.Background())
	require.NoError(t, err)
	assert.Len(t, abilities, 1)
}

func TestInitializeServices_Errors(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := InitializeServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to open catalog")

	cfg = testConfig(t, "")
	cfg.InvocationLog.Sinks = []string{"kafka"}
	_, err = InitializeServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to open invocation log")

	cfg = testConfig(t, "")
	cfg.Invoker.Credentials.TokenURL = "http://localhost:1/token"
	_, err = InitializeServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "credentials")
}

func TestApplication_InvokeThroughTools(t *testing.T) {
	var got map[string]interface{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoke/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer backend.Close()

	a, err := NewApplication(context.Background(), NewConfig(testConfig(t, backend.URL), "test"))
	require.NoError(t, err)
	defer a.Close()

	result, err := a.Tools().Call(context.Background(), "ability_invoke", map[string]interface{}{
		"ability_id":  "chat-1",
		"form_values": map[string]interface{}{"prompt": "hello"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "hi there")

	assert.Equal(t, "e1", got["executor_id"])
	assert.Equal(t, "chat", got["family"])
	payload, ok := got["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", payload["model"])
	assert.Equal(t, "hello", payload["prompt"])
}

func TestRunMCP_UnknownTransport(t *testing.T) {
	a, err := NewApplication(context.Background(), NewConfig(testConfig(t, ""), "test"))
	require.NoError(t, err)
	defer a.Close()

	err = a.RunMCP(context.Background(), "websocket", "localhost", 0)
	assert.ErrorContains(t, err, "unknown MCP transport")
}
