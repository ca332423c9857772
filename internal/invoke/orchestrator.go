package invoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"abilityctl/internal/api"
	"abilityctl/internal/catalog"
	"abilityctl/internal/config"
	"abilityctl/internal/invocationlog"
	"abilityctl/internal/metrics"
	"abilityctl/internal/provider"
	"abilityctl/internal/routing"
	"abilityctl/internal/schema"
	"abilityctl/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "abilityctl/internal/invoke"

// Request is one invocation as submitted by a caller.
type Request struct {
	AbilityID string `json:"ability_id"`
	// ExecutorID is an explicit executor choice. It must be one of the
	// resolved candidates.
	ExecutorID  string                 `json:"executor_id,omitempty"`
	FormValues  map[string]interface{} `json:"form_values,omitempty"`
	Override    string                 `json:"override,omitempty"`
	ImageURL    string                 `json:"image_url,omitempty"`
	ImageBase64 string                 `json:"image_base64,omitempty"`
	SubmitOnly  bool                   `json:"submit_only,omitempty"`
}

// Outcome is the result of a completed invocation.
type Outcome struct {
	InvocationID string               `json:"invocation_id"`
	Executor     api.Executor         `json:"executor"`
	Family       provider.Family      `json:"family"`
	Result       api.InvocationResult `json:"result"`
	Duration     time.Duration        `json:"duration"`
}

// Config wires the orchestrator's collaborators. Sink and Metrics are
// optional.
type Config struct {
	Catalog  catalog.Store
	Registry *provider.Registry
	Invoker  Invoker
	Sink     invocationlog.Sink
	Metrics  *metrics.Recorder
	Timeouts map[string]time.Duration
}

// Orchestrator runs invocations. It keeps no per-call state and is safe for
// concurrent use when its collaborators are.
type Orchestrator struct {
	catalog  catalog.Store
	registry *provider.Registry
	invoker  Invoker
	sink     invocationlog.Sink
	metrics  *metrics.Recorder
	timeouts map[string]time.Duration
	tracer   trace.Tracer
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	sink := cfg.Sink
	if sink == nil {
		sink = invocationlog.Discard
	}
	registry := cfg.Registry
	if registry == nil {
		registry = provider.NewRegistry(nil)
	}
	return &Orchestrator{
		catalog:  cfg.Catalog,
		registry: registry,
		invoker:  cfg.Invoker,
		sink:     sink,
		metrics:  cfg.Metrics,
		timeouts: cfg.Timeouts,
		tracer:   otel.Tracer(tracerName),
	}
}

// Timeout returns the call timeout of a family.
func (o *Orchestrator) Timeout(family provider.Family) time.Duration {
	return config.InvokerConfig{Timeouts: o.timeouts}.Timeout(string(family))
}

// Registry returns the adapter registry in use.
func (o *Orchestrator) Registry() *provider.Registry {
	return o.registry
}

// Resolve loads an ability and its eligible executors.
func (o *Orchestrator) Resolve(ctx context.Context, abilityID string) (*api.Ability, []api.Executor, routing.Resolution, error) {
	ability, err := o.catalog.GetAbility(ctx, abilityID)
	if err != nil {
		return nil, nil, routing.Resolution{}, err
	}
	executors, err := o.catalog.ListExecutors(ctx)
	if err != nil {
		return nil, nil, routing.Resolution{}, err
	}
	res := routing.Resolve(ability, executors)
	if len(res.Executors) == 0 {
		o.metrics.ResolutionEmpty(routing.NormalizeToken(ability.Provider))
	}
	return ability, executors, res, nil
}

// BuildRequest runs every step before the provider call and returns the
// built request together with the chosen executor.
func (o *Orchestrator) BuildRequest(ctx context.Context, req Request) (*api.Ability, api.Executor, *provider.Request, error) {
	ability, executors, res, err := o.Resolve(ctx, req.AbilityID)
	if err != nil {
		return nil, api.Executor{}, nil, err
	}
	executor, err := ChooseExecutor(ability, executors, res, req.ExecutorID)
	if err != nil {
		return ability, api.Executor{}, nil, err
	}

	in, err := PrepareInput(ability, executor.ID, req)
	if err != nil {
		return ability, executor, nil, err
	}
	built, err := o.registry.Build(in)
	if err != nil {
		return ability, executor, nil, err
	}
	return ability, executor, built, nil
}

// Invoke runs one invocation. Validation and resolution failures return
// before any provider call and are not logged as invocations.
func (o *Orchestrator) Invoke(ctx context.Context, req Request) (*Outcome, error) {
	if o.invoker == nil {
		return nil, fmt.Errorf("no provider invoker configured")
	}

	ctx, span := o.tracer.Start(ctx, "invoke.ability",
		trace.WithAttributes(attribute.String("ability.id", req.AbilityID)))
	defer span.End()

	ability, executor, built, err := o.BuildRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("ability.provider", ability.Provider),
		attribute.String("executor.id", executor.ID),
		attribute.String("provider.family", string(built.Family)),
	)

	timeout := o.Timeout(built.Family)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	start := time.Now()
	raw, callErr := o.invoker.Call(callCtx, built)
	if callErr == nil && callCtx.Err() != nil {
		callErr = callCtx.Err()
	}
	cancel()
	duration := time.Since(start)

	if callErr != nil && !api.IsTimeout(callErr) {
		switch {
		case errors.Is(callErr, context.DeadlineExceeded):
			callErr = &api.ProviderError{Provider: built.Provider, Timeout: true, Message: fmt.Sprintf("no response within %s", timeout), Err: callErr}
		case errors.Is(callErr, context.Canceled):
			callErr = &api.ProviderError{Provider: built.Provider, Timeout: true, Message: "call cancelled", Err: callErr}
		}
	}

	var result *api.InvocationResult
	if callErr == nil {
		normalized := o.registry.NormalizeFamily(built.Family, built.Provider, raw)
		result = &normalized
	}

	entry := invocationlog.NewEntry(ability.Context(), executor.ID, string(built.Family), result, callErr, duration)
	o.metrics.ObserveInvocation(string(built.Family), string(entry.Outcome), duration)
	if err := o.sink.Write(ctx, entry); err != nil {
		logging.Warn("Invoke", "Failed to write invocation log %s: %v", entry.ID, err)
	}

	if callErr != nil {
		span.RecordError(callErr)
		span.SetStatus(codes.Error, callErr.Error())
		logging.Error("Invoke", callErr, "Ability %s on executor %s failed", ability.ID, executor.ID)
		return nil, callErr
	}

	logging.Info("Invoke", "Ability %s on executor %s: %s (%s)", ability.ID, executor.ID, result.Summary(), duration.Round(time.Millisecond))
	return &Outcome{
		InvocationID: entry.ID,
		Executor:     executor,
		Family:       built.Family,
		Result:       *result,
		Duration:     duration,
	}, nil
}

// Recent invocation listing bounds.
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 200
)

// RecentInvocations returns the newest logged invocations of an ability.
// It fails with invocationlog.ErrNotQueryable when no configured sink keeps
// records.
func (o *Orchestrator) RecentInvocations(ctx context.Context, abilityID string, limit int) ([]invocationlog.Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return invocationlog.Recent(ctx, o.sink, abilityID, limit)
}

// ChooseExecutor picks the executor for one invocation. An explicit choice
// must be a known executor and among the candidates. Without a choice the first candidate wins.
// With no candidates and fallback enabled, the pinned executor is used when
// it exists; otherwise ErrNoEligibleExecutor is returned.
func ChooseExecutor(ability *api.Ability, executors []api.Executor, res routing.Resolution, explicit string) (api.Executor, error) {
	candidates := res.Executors
	if len(candidates) == 0 && res.Decision.FallbackToDefault && ability != nil {
		if pinned, ok := api.FindExecutor(executors, ability.ExecutorID); ok {
			logging.Debug("Invoke", "Ability %s has no eligible executor, falling back to pinned %s", ability.ID, pinned.ID)
			candidates = []api.Executor{pinned}
		}
	}
	if len(candidates) == 0 {
		id := ""
		if ability != nil {
			id = ability.ID
		}
		return api.Executor{}, fmt.Errorf("%w for ability %s", api.ErrNoEligibleExecutor, id)
	}
	if explicit == "" {
		return candidates[0], nil
	}
	if e, ok := api.FindExecutor(candidates, explicit); ok {
		return e, nil
	}
	if _, ok := api.FindExecutor(executors, explicit); !ok {
		return api.Executor{}, fmt.Errorf("%w: %s", api.ErrExecutorNotFound, explicit)
	}
	return api.Executor{}, api.NewValidationError("executor_id", "executor %s is not eligible for this ability", explicit)
}

// PrepareInput parses the ability schema, converts the form values and
// checks required fields, returning the builder input for executorID.
// Required fields may be satisfied by any layer the builder merges.
func PrepareInput(ability *api.Ability, executorID string, req Request) (provider.BuildInput, error) {
	if ability == nil {
		return provider.BuildInput{}, api.NewValidationError("ability", "ability is required")
	}
	fields, err := schema.Parse(ability.InputSchema)
	if err != nil {
		return provider.BuildInput{}, err
	}
	values := schema.ConvertValues(fields, req.FormValues)
	defaults := schema.ConvertValues(fields, schema.Defaults(fields))
	if err := checkRequired(fields, values, defaults, ability, req); err != nil {
		return provider.BuildInput{}, err
	}
	return provider.BuildInput{
		Ability:        ability,
		ExecutorID:     executorID,
		SchemaDefaults: defaults,
		SchemaValues:   values,
		Override:       req.Override,
		ImageURL:       req.ImageURL,
		ImageBase64:    req.ImageBase64,
		SubmitOnly:     req.SubmitOnly,
	}, nil
}

// checkRequired reports required schema fields with no value in the form,
// the ability defaults, the schema defaults, the override or the image
// inputs.
func checkRequired(fields []schema.Field, values, defaults map[string]interface{}, ability *api.Ability, req Request) error {
	override, err := provider.ParseOverride(req.Override)
	if err != nil {
		return err
	}
	images := map[string]interface{}{}
	if req.ImageURL != "" || req.ImageBase64 != "" {
		for _, k := range []string{"image", "image_url", "image_base64", "imageList"} {
			images[k] = true
		}
	}
	missing := schema.RequiredMissing(fields, values, ability.DefaultParams, defaults, override, images)
	if len(missing) == 0 {
		return nil
	}
	errs := make(api.ValidationErrors, 0, len(missing))
	for _, name := range missing {
		errs = append(errs, api.NewValidationError(name, "is required"))
	}
	return errs
}
