package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"abilityctl/internal/api"
	"abilityctl/internal/comfyui"
	"abilityctl/internal/invocationlog"
	"abilityctl/internal/invoke"
	"abilityctl/internal/provider"
	"abilityctl/internal/routing"
	"abilityctl/internal/schema"

	"github.com/go-chi/chi/v5"
)

// ResolveRequest resolves either a catalog ability or an inline one.
type ResolveRequest struct {
	AbilityID string         `json:"ability_id,omitempty"`
	Ability   *api.Ability   `json:"ability,omitempty"`
	Executors []api.Executor `json:"executors,omitempty"`
}

// SchemaRequest carries an input schema document.
type SchemaRequest struct {
	Schema interface{} `json:"schema"`
}

// SchemaResponse is the parsed field list with its defaults.
type SchemaResponse struct {
	Fields   []schema.Field         `json:"fields"`
	Defaults map[string]interface{} `json:"defaults"`
}

// BuildRequest builds a provider request without calling the provider.
type BuildRequest struct {
	invoke.Request
	// Ability builds for an inline ability instead of a catalog one.
	Ability *api.Ability `json:"ability,omitempty"`
}

// WorkflowValidateRequest validates a node mapping against a graph.
type WorkflowValidateRequest struct {
	Graph         interface{}            `json:"graph"`
	InputNodeMap  []comfyui.InputMapItem `json:"input_node_map"`
	OutputNodeIDs []string               `json:"output_node_ids"`
}

// WorkflowValidateResponse lists the graph nodes and mapping issues.
type WorkflowValidateResponse struct {
	Nodes  []comfyui.Node `json:"nodes"`
	Issues []string       `json:"issues"`
	Valid  bool           `json:"valid"`
}

// NormalizeRequest normalizes a raw provider response.
type NormalizeRequest struct {
	Provider string          `json:"provider"`
	Family   provider.Family `json:"family,omitempty"`
	Raw      interface{}     `json:"raw"`
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// handleResolve
// @Summary Resolve executors
// @Description Returns the eligible executors of an ability in priority order.
// @Tags resolution
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "ability and executors"
// @Success 200 {object} APIResponse{data=routing.Resolution}
// @Failure 400 {object} APIResponse
// @Router /v1/resolve [post]
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if req.Ability == nil {
		if req.AbilityID == "" {
			failure(w, r, api.NewValidationError("ability", "ability or ability_id is required"))
			return
		}
		_, _, res, err := s.orch.Resolve(r.Context(), req.AbilityID)
		if err != nil {
			failure(w, r, err)
			return
		}
		success(w, r, "resolved", res)
		return
	}
	executors := req.Executors
	if executors == nil {
		list, err := s.catalog.ListExecutors(r.Context())
		if err != nil {
			failure(w, r, err)
			return
		}
		executors = list
	}
	success(w, r, "resolved", routing.Resolve(req.Ability, executors))
}

// handleSchemaParse
// @Summary Parse input schema
// @Tags schema
// @Accept json
// @Produce json
// @Param request body SchemaRequest true "schema document"
// @Success 200 {object} APIResponse{data=SchemaResponse}
// @Router /v1/schema/parse [post]
func (s *Server) handleSchemaParse(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	fields, err := schema.Parse(req.Schema)
	if err != nil {
		failure(w, r, err)
		return
	}
	if fields == nil {
		fields = []schema.Field{}
	}
	success(w, r, "parsed", SchemaResponse{Fields: fields, Defaults: schema.Defaults(fields)})
}

// handleBuild
// @Summary Build provider request
// @Description Runs resolution, schema conversion and the provider builder without calling the provider.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body BuildRequest true "invocation input"
// @Success 200 {object} APIResponse{data=provider.Request}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /v1/requests/build [post]
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	if req.Ability != nil {
		in, err := invoke.PrepareInput(req.Ability, req.ExecutorID, req.Request)
		if err != nil {
			failure(w, r, err)
			return
		}
		built, err := s.orch.Registry().Build(in)
		if err != nil {
			failure(w, r, err)
			return
		}
		success(w, r, "built", built)
		return
	}

	_, _, built, err := s.orch.BuildRequest(r.Context(), req.Request)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, r, "built", built)
}

// handleWorkflowValidate
// @Summary Validate workflow node mapping
// @Tags workflows
// @Accept json
// @Produce json
// @Param request body WorkflowValidateRequest true "graph and mapping"
// @Success 200 {object} APIResponse{data=WorkflowValidateResponse}
// @Router /v1/workflows/validate [post]
func (s *Server) handleWorkflowValidate(w http.ResponseWriter, r *http.Request) {
	var req WorkflowValidateRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	resp := WorkflowValidateResponse{
		Nodes:  []comfyui.Node{},
		Issues: comfyui.ValidateMapping(req.Graph, req.InputNodeMap, req.OutputNodeIDs),
	}
	if g, err := comfyui.ParseGraphDocument(req.Graph); err == nil {
		resp.Nodes = g.Nodes
	}
	if resp.Issues == nil {
		resp.Issues = []string{}
	}
	resp.Valid = len(resp.Issues) == 0
	success(w, r, "validated", resp)
}

// handleNormalize
// @Summary Normalize provider result
// @Tags results
// @Accept json
// @Produce json
// @Param request body NormalizeRequest true "raw provider response"
// @Success 200 {object} APIResponse{data=api.InvocationResult}
// @Router /v1/results/normalize [post]
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	raw := req.Raw
	var result api.InvocationResult
	if req.Family != "" {
		result = s.orch.Registry().NormalizeFamily(req.Family, req.Provider, raw)
	} else {
		result = s.orch.Registry().Normalize(req.Provider, raw)
	}
	success(w, r, "normalized", result)
}

// handleListAbilities
// @Summary List abilities
// @Tags abilities
// @Produce json
// @Success 200 {object} APIResponse{data=[]api.Ability}
// @Router /v1/abilities [get]
func (s *Server) handleListAbilities(w http.ResponseWriter, r *http.Request) {
	abilities, err := s.catalog.ListAbilities(r.Context())
	if err != nil {
		failure(w, r, err)
		return
	}
	if abilities == nil {
		abilities = []api.Ability{}
	}
	success(w, r, "ok", abilities)
}

// handleAbilityExecutors
// @Summary Eligible executors of an ability
// @Tags abilities
// @Produce json
// @Param id path string true "ability id"
// @Success 200 {object} APIResponse{data=routing.Resolution}
// @Failure 404 {object} APIResponse
// @Router /v1/abilities/{id}/executors [get]
func (s *Server) handleAbilityExecutors(w http.ResponseWriter, r *http.Request) {
	_, _, res, err := s.orch.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failure(w, r, err)
		return
	}
	if res.Executors == nil {
		res.Executors = []api.Executor{}
	}
	success(w, r, "ok", res)
}

// handleAbilityIssues
// @Summary Configuration issues of an ability
// @Tags abilities
// @Produce json
// @Param id path string true "ability id"
// @Success 200 {object} APIResponse{data=[]string}
// @Failure 404 {object} APIResponse
// @Router /v1/abilities/{id}/issues [get]
func (s *Server) handleAbilityIssues(w http.ResponseWriter, r *http.Request) {
	ability, err := s.catalog.GetAbility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failure(w, r, err)
		return
	}
	issues := schema.DetectIssues(ability)
	if issues == nil {
		issues = []string{}
	}
	success(w, r, "ok", issues)
}

// handleAbilityInvocations
// @Summary Recent invocations of an ability
// @Tags abilities
// @Produce json
// @Param id path string true "ability id"
// @Param limit query int false "maximum number of records"
// @Success 200 {object} APIResponse{data=[]invocationlog.Record}
// @Failure 404 {object} APIResponse
// @Failure 501 {object} APIResponse
// @Router /v1/abilities/{id}/invocations [get]
func (s *Server) handleAbilityInvocations(w http.ResponseWriter, r *http.Request) {
	ability, err := s.catalog.GetAbility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failure(w, r, err)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			failure(w, r, api.NewValidationError("limit", "limit must be an integer"))
			return
		}
	}
	records, err := s.orch.RecentInvocations(r.Context(), ability.ID, limit)
	if err != nil {
		failure(w, r, err)
		return
	}
	if records == nil {
		records = []invocationlog.Record{}
	}
	success(w, r, "ok", records)
}

// handleInvoke
// @Summary Invoke an ability
// @Tags abilities
// @Accept json
// @Produce json
// @Param id path string true "ability id"
// @Param request body invoke.Request true "invocation input"
// @Success 200 {object} APIResponse{data=invoke.Outcome}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Failure 504 {object} APIResponse
// @Router /v1/abilities/{id}/invoke [post]
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req invoke.Request
	if err := decode(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.AbilityID = chi.URLParam(r, "id")

	out, err := s.orch.Invoke(r.Context(), req)
	if err != nil {
		failure(w, r, err)
		return
	}
	success(w, r, out.Result.Summary(), out)
}
