package routing

import (
	"abilityctl/internal/api"
	"abilityctl/pkg/logging"
)

// Resolution is the outcome of resolving one ability against the executor
// list. An empty Executors slice is a valid outcome.
type Resolution struct {
	Executors []api.Executor `json:"executors"`
	Decision  Decision       `json:"decision"`
	Hints     []string       `json:"hints"`
	// PinnedID is the ability's pinned executor when it exists in the list.
	PinnedID string `json:"pinned_id,omitempty"`
}

// IDs returns the candidate executor ids in order.
func (r Resolution) IDs() []string {
	ids := make([]string, len(r.Executors))
	for i, e := range r.Executors {
		ids[i] = e.ID
	}
	return ids
}

// ResolveExecutors returns the eligible executors for ability in priority
// order.
func ResolveExecutors(ability *api.Ability, executors []api.Executor) []api.Executor {
	return Resolve(ability, executors).Executors
}

// Resolve filters and orders executors for ability:
//
//  1. hints are the normalized provider plus any executor_type(s) /
//     executor_tag(s) metadata values;
//  2. an executor matches when its normalized type matches any hint;
//  3. required tags keep only executors whose tags are a superset;
//  4. a pinned executor present in the list goes first, ahead of the other
//     matches, before the tag filter and allow-list apply;
//  5. otherwise a non-empty allow-list intersects the tag-filtered matches.
func Resolve(ability *api.Ability, executors []api.Executor) Resolution {
	if ability == nil {
		return Resolution{Decision: Decision{Policy: PolicyAuto, FallbackToDefault: true}}
	}

	meta := ability.ParsedMetadata()
	hints := abilityHints(ability, meta)
	decision := ParseDecision(meta)

	var matched []api.Executor
	for _, e := range executors {
		if MatchesAny(NormalizeToken(e.Type), hints) {
			matched = append(matched, e)
		}
	}

	res := Resolution{Decision: decision, Hints: hints}

	if pinned, ok := api.FindExecutor(executors, ability.ExecutorID); ok {
		res.PinnedID = pinned.ID
		combined := make([]api.Executor, 0, len(matched)+1)
		combined = append(combined, pinned)
		for _, e := range matched {
			if e.ID != pinned.ID {
				combined = append(combined, e)
			}
		}
		res.Executors = filterAllowed(filterByTags(combined, decision.RequiredTags), decision)
	} else {
		res.Executors = filterAllowed(filterByTags(matched, decision.RequiredTags), decision)
	}

	logging.Debug("Resolver", "Ability %s: %d of %d executors eligible (hints %v, policy %s)",
		ability.ID, len(res.Executors), len(executors), hints, decision.Policy)
	return res
}

// abilityHints builds the hint set for an ability, falling back to the
// normalized provider when metadata contributes nothing usable.
func abilityHints(ability *api.Ability, meta api.AbilityMetadata) []string {
	var hints []string
	seen := map[string]struct{}{}
	add := func(v interface{}) {
		for _, tok := range NormalizeTokens(v) {
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				hints = append(hints, tok)
			}
		}
	}
	add(ability.Provider)
	for _, h := range meta.ExecutorHints {
		add(h)
	}
	if len(hints) == 0 {
		if p := NormalizeToken(ability.Provider); p != "" {
			hints = []string{p}
		}
	}
	return hints
}

// ExecutorTags returns the normalized tag set declared in an executor's
// config.
func ExecutorTags(e api.Executor) []string {
	return NormalizeTokens(api.ParseExecutorConfig(e.Config).Tags)
}

func filterByTags(candidates []api.Executor, required []string) []api.Executor {
	if len(required) == 0 {
		return candidates
	}
	var out []api.Executor
	for _, e := range candidates {
		have := tokenSet(ExecutorTags(e))
		ok := true
		for _, tag := range required {
			if _, found := have[tag]; !found {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func filterAllowed(candidates []api.Executor, d Decision) []api.Executor {
	if len(d.AllowedExecutorIDs) == 0 {
		return candidates
	}
	var out []api.Executor
	for _, e := range candidates {
		if d.allows(e.ID) {
			out = append(out, e)
		}
	}
	return out
}
