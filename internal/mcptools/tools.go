// Package mcptools exposes the engine as MCP tools so agents can list,
// resolve, build and invoke abilities.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/catalog"
	"abilityctl/internal/comfyui"
	"abilityctl/internal/invoke"
	"abilityctl/internal/schema"
	"abilityctl/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AbilityTools implements the ability_* and workflow_* tools.
type AbilityTools struct {
	catalog catalog.Store
	orch    *invoke.Orchestrator
}

// NewAbilityTools creates the tool set.
func NewAbilityTools(store catalog.Store, orch *invoke.Orchestrator) *AbilityTools {
	return &AbilityTools{catalog: store, orch: orch}
}

// Tools returns the tool definitions.
func (at *AbilityTools) Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("ability_list",
			mcp.WithDescription("List catalog abilities"),
			mcp.WithString("provider",
				mcp.Description("Only list abilities of this provider"),
			),
		),
		mcp.NewTool("ability_resolve",
			mcp.WithDescription("Resolve the eligible executors of an ability in priority order"),
			mcp.WithString("ability_id",
				mcp.Required(),
				mcp.Description("Ability ID"),
			),
		),
		mcp.NewTool("ability_schema",
			mcp.WithDescription("Describe the input fields, defaults and configuration issues of an ability"),
			mcp.WithString("ability_id",
				mcp.Required(),
				mcp.Description("Ability ID"),
			),
		),
		mcp.NewTool("ability_build_request",
			append([]mcp.ToolOption{mcp.WithDescription("Build the provider request of an ability without calling the provider")}, invocationParams()...)...,
		),
		mcp.NewTool("workflow_validate_mapping",
			mcp.WithDescription("Validate a workflow input/output node mapping against its graph"),
			mcp.WithString("graph",
				mcp.Required(),
				mcp.Description("Workflow graph document as JSON"),
			),
			mcp.WithString("input_node_map",
				mcp.Description("JSON array of {field,node_id,input_key,value_type}"),
			),
			mcp.WithString("output_node_ids",
				mcp.Description("Comma separated output node IDs"),
			),
		),
		mcp.NewTool("ability_invoke",
			append([]mcp.ToolOption{mcp.WithDescription("Invoke an ability and return the normalized result")}, invocationParams()...)...,
		),
	}
}

func invocationParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("ability_id",
			mcp.Required(),
			mcp.Description("Ability ID"),
		),
		mcp.WithString("executor_id",
			mcp.Description("Explicit executor, must be eligible"),
		),
		mcp.WithObject("form_values",
			mcp.Description("Input field values keyed by field name"),
		),
		mcp.WithString("override",
			mcp.Description("Ad-hoc JSON object merged over defaults"),
		),
		mcp.WithString("image_url",
			mcp.Description("Input image URL"),
		),
		mcp.WithBoolean("submit_only",
			mcp.Description("Submit workflow tasks without waiting for output"),
		),
	}
}

func (at *AbilityTools) handlers() map[string]server.ToolHandlerFunc {
	return map[string]server.ToolHandlerFunc{
		"ability_list":              at.HandleList,
		"ability_resolve":           at.HandleResolve,
		"ability_schema":            at.HandleSchema,
		"ability_build_request":     at.HandleBuildRequest,
		"workflow_validate_mapping": at.HandleValidateMapping,
		"ability_invoke":            at.HandleInvoke,
	}
}

// Register adds every tool to an MCP server.
func (at *AbilityTools) Register(s *server.MCPServer) {
	handlers := at.handlers()
	for _, tool := range at.Tools() {
		s.AddTool(tool, handlers[tool.Name])
	}
	logging.Debug("MCPTools", "Registered %d tools", len(handlers))
}

// Call runs a tool in-process, bypassing any transport.
func (at *AbilityTools) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h, ok := at.handlers()[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return h(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
}

// HandleList handles the ability_list tool call
func (at *AbilityTools) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abilities, err := at.catalog.ListAbilities(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list abilities: %v", err)), nil
	}
	provider := strings.ToLower(strings.TrimSpace(req.GetString("provider", "")))

	type entry struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		Provider      string          `json:"provider"`
		CapabilityKey string          `json:"capability_key"`
		AbilityType   api.AbilityType `json:"ability_type"`
	}
	out := []entry{}
	for _, a := range abilities {
		if provider != "" && strings.ToLower(a.Provider) != provider {
			continue
		}
		out = append(out, entry{a.ID, a.Name, a.Provider, a.CapabilityKey, a.AbilityType})
	}
	return jsonResult(map[string]interface{}{"abilities": out, "total": len(out)})
}

// HandleResolve handles the ability_resolve tool call
func (at *AbilityTools) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("ability_id")
	if err != nil {
		return mcp.NewToolResultError("ability_id is required"), nil
	}
	_, _, res, err := at.orch.Resolve(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"executor_ids": res.IDs(),
		"hints":        res.Hints,
		"decision":     res.Decision,
		"pinned_id":    res.PinnedID,
	})
}

// HandleSchema handles the ability_schema tool call
func (at *AbilityTools) HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("ability_id")
	if err != nil {
		return mcp.NewToolResultError("ability_id is required"), nil
	}
	ability, err := at.catalog.GetAbility(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := schema.Parse(ability.InputSchema)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"fields":   fields,
		"defaults": schema.Defaults(fields),
		"issues":   schema.DetectIssues(ability),
	})
}

// HandleBuildRequest handles the ability_build_request tool call
func (at *AbilityTools) HandleBuildRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := invocationRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, _, built, err := at.orch.BuildRequest(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(built)
}

// HandleValidateMapping handles the workflow_validate_mapping tool call
func (at *AbilityTools) HandleValidateMapping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graph, err := req.RequireString("graph")
	if err != nil {
		return mcp.NewToolResultError("graph is required"), nil
	}
	args := req.GetArguments()
	inputMap, err := jsonArg(args["input_node_map"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("input_node_map: %v", err)), nil
	}
	inputs, outputs := comfyui.MappingFromMetadata(map[string]interface{}{
		api.MetaInputNodeMap:  inputMap,
		api.MetaOutputNodeIDs: args["output_node_ids"],
	})

	issues := comfyui.ValidateMapping(graph, inputs, outputs)
	if issues == nil {
		issues = []string{}
	}
	return jsonResult(map[string]interface{}{"valid": len(issues) == 0, "issues": issues})
}

// HandleInvoke handles the ability_invoke tool call
func (at *AbilityTools) HandleInvoke(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := invocationRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := at.orch.Invoke(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invocation failed: %v", err)), nil
	}
	return jsonResult(out)
}

func invocationRequest(req mcp.CallToolRequest) (invoke.Request, error) {
	id, err := req.RequireString("ability_id")
	if err != nil {
		return invoke.Request{}, fmt.Errorf("ability_id is required")
	}
	in := invoke.Request{
		AbilityID:  id,
		ExecutorID: req.GetString("executor_id", ""),
		Override:   req.GetString("override", ""),
		ImageURL:   req.GetString("image_url", ""),
		SubmitOnly: req.GetBool("submit_only", false),
	}
	values, err := jsonArg(req.GetArguments()["form_values"])
	if err != nil {
		return invoke.Request{}, fmt.Errorf("form_values: %v", err)
	}
	if m, ok := values.(map[string]interface{}); ok {
		in.FormValues = m
	}
	return in, nil
}

// jsonArg accepts either a decoded value or its JSON text.
func jsonArg(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return v, nil
	}
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
