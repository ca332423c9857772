package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolCaller runs ability tools and returns their decoded JSON results.
type ToolCaller interface {
	CallToolJSON(ctx context.Context, name string, args map[string]interface{}) (interface{}, error)
	Close() error
}

// LocalCaller runs tools in-process through a dispatch function.
type LocalCaller func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)

func (f LocalCaller) CallToolJSON(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	result, err := f(ctx, name, args)
	if err != nil {
		return nil, err
	}
	return DecodeResult(result)
}

func (f LocalCaller) Close() error { return nil }

// CLIClient calls the ability tools of a remote `abilityctl mcp --transport sse`
// server.
type CLIClient struct {
	endpoint string
	client   client.MCPClient
	timeout  time.Duration
}

// NewCLIClient creates a client for an SSE endpoint such as
// http://localhost:8091/sse.
func NewCLIClient(endpoint string) *CLIClient {
	return &CLIClient{
		endpoint: endpoint,
		timeout:  30 * time.Second,
	}
}

// WithTimeout sets the per-call timeout.
func (c *CLIClient) WithTimeout(d time.Duration) *CLIClient {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Connect establishes the SSE session.
func (c *CLIClient) Connect(ctx context.Context) error {
	sseClient, err := client.NewSSEMCPClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %w", err)
	}

	if err := sseClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start SSE client: %w", err)
	}
	c.client = sseClient

	if err := c.initialize(ctx); err != nil {
		c.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}
	return nil
}

// CallTool executes a tool and returns the raw result.
func (c *CLIClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return result, nil
}

// CallToolJSON executes a tool and decodes its text content as JSON.
func (c *CLIClient) CallToolJSON(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	result, err := c.CallTool(ctx, name, args)
	if err != nil {
		return nil, err
	}

	return DecodeResult(result)
}

// DecodeResult turns a tool result into its decoded JSON value. A
// tool-level error becomes a Go error carrying the tool's message; text
// that is not JSON is returned as a string.
func DecodeResult(result *mcp.CallToolResult) (interface{}, error) {
	var texts []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			texts = append(texts, textContent.Text)
		}
	}
	text := strings.Join(texts, "\n")
	if result.IsError {
		return nil, fmt.Errorf("%s", text)
	}

	var out interface{}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return text, nil
	}
	return out, nil
}

// Close closes the connection.
func (c *CLIClient) Close() error {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	return nil
}

func (c *CLIClient) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "abilityctl-cli",
		Version: "1.0.0",
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Initialize(timeoutCtx, req)
	return err
}
