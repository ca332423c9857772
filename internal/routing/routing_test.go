package routing

import (
	"testing"

	"abilityctl/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTokens(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{"nil", nil, nil},
		{"single word", " Baidu ", []string{"baidu"}},
		{"words joined", "My Tag", []string{"my-tag"}},
		{"underscores", "round__robin node", []string{"round-robin-node"}},
		{"comma and semicolon", "gpu:4090, region:hz;GPU:4090", []string{"gpu:4090", "region:hz"}},
		{"list of scalars", []interface{}{"A", 3, true, nil}, []string{"a", "3", "true"}},
		{"string slice", []string{"x y", ""}, []string{"x-y"}},
		{"number", 42, []string{"42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTokens(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		executorType string
		hint         string
		want         bool
	}{
		{"baidu", "baidu", true},
		{"baidu-prod", "baidu", true},
		{"cn-baidu", "baidu", true},
		{"cn-baidu-prod", "baidu", true},
		{"paint", "ai", false},
		{"baiduprod", "baidu", false},
		{"kie", "baidu", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.executorType+"/"+tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.executorType, tt.hint))
		})
	}
}

func TestParseDecision(t *testing.T) {
	d := ParseDecision(api.ParseAbilityMetadata(nil))
	assert.Equal(t, PolicyAuto, d.Policy)
	assert.True(t, d.FallbackToDefault)
	assert.Empty(t, d.RequiredTags)

	d = ParseDecision(api.ParseAbilityMetadata(map[string]interface{}{
		"routing_policy":      "ROUND_ROBIN",
		"required_tags":       "GPU 4090",
		"fallback_to_default": false,
	}))
	assert.Equal(t, PolicyRoundRobin, d.Policy)
	assert.Equal(t, []string{"gpu-4090"}, d.RequiredTags)
	assert.False(t, d.FallbackToDefault)

	assert.Equal(t, PolicyAuto, ParsePolicy("fastest"))
}

func ids(executors []api.Executor) []string {
	out := make([]string, len(executors))
	for i, e := range executors {
		out[i] = e.ID
	}
	return out
}

func TestResolve_ProviderOnly(t *testing.T) {
	ability := &api.Ability{ID: "a1", Provider: "baidu"}
	executors := []api.Executor{
		{ID: "e1", Type: "baidu-prod"},
		{ID: "e2", Type: "kie"},
	}

	got := ResolveExecutors(ability, executors)

	require.Len(t, got, 1)
	assert.Equal(t, "baidu-prod", got[0].Type)
}

func TestResolve_RequiredTags(t *testing.T) {
	ability := &api.Ability{
		ID:       "a2",
		Provider: "comfyui",
		Metadata: map[string]interface{}{"required_tags": []interface{}{"gpu:4090"}},
	}
	executors := []api.Executor{
		{ID: "e1", Type: "comfyui", Config: map[string]interface{}{"tags": "gpu:4090,region:hz"}},
		{ID: "e2", Type: "comfyui", Config: map[string]interface{}{"tags": "gpu:3090"}},
	}

	assert.Equal(t, []string{"e1"}, ids(ResolveExecutors(ability, executors)))
}

func TestResolve_MetadataHints(t *testing.T) {
	ability := &api.Ability{
		ID:       "a3",
		Provider: "Image Hub",
		Metadata: map[string]interface{}{
			"executor_types": []interface{}{"comfyui"},
			"executor_tag":   "render",
		},
	}
	executors := []api.Executor{
		{ID: "e1", Type: "ComfyUI-GPU"},
		{ID: "e2", Type: "render_farm"},
		{ID: "e3", Type: "image-hub"},
		{ID: "e4", Type: "openai"},
	}

	res := Resolve(ability, executors)

	assert.Equal(t, []string{"image-hub", "render", "comfyui"}, res.Hints)
	assert.Equal(t, []string{"e1", "e2", "e3"}, res.IDs())
}

func TestResolve_PinnedFirst(t *testing.T) {
	ability := &api.Ability{ID: "a4", Provider: "kie", ExecutorID: "pinned"}
	executors := []api.Executor{
		{ID: "k1", Type: "kie"},
		{ID: "k2", Type: "kie-backup"},
		{ID: "pinned", Type: "kie-main"},
		{ID: "other", Type: "baidu"},
	}

	res := Resolve(ability, executors)

	assert.Equal(t, []string{"pinned", "k1", "k2"}, res.IDs())
	assert.Equal(t, "pinned", res.PinnedID)
}

func TestResolve_PinnedOutsideHintsStillFirst(t *testing.T) {
	ability := &api.Ability{ID: "a5", Provider: "kie", ExecutorID: "x"}
	executors := []api.Executor{
		{ID: "k1", Type: "kie"},
		{ID: "x", Type: "custom"},
	}

	assert.Equal(t, []string{"x", "k1"}, ids(ResolveExecutors(ability, executors)))
}

func TestResolve_PinnedMissingFallsThrough(t *testing.T) {
	ability := &api.Ability{ID: "a6", Provider: "kie", ExecutorID: "gone"}
	executors := []api.Executor{{ID: "k1", Type: "kie"}}

	res := Resolve(ability, executors)

	assert.Equal(t, []string{"k1"}, res.IDs())
	assert.Empty(t, res.PinnedID)
}

func TestResolve_AllowList(t *testing.T) {
	executors := []api.Executor{
		{ID: "k1", Type: "kie"},
		{ID: "k2", Type: "kie"},
		{ID: "k3", Type: "kie"},
	}

	t.Run("without pin", func(t *testing.T) {
		ability := &api.Ability{
			ID:       "a7",
			Provider: "kie",
			Metadata: map[string]interface{}{"allowed_executor_ids": []interface{}{"k3", "k2"}},
		}
		assert.Equal(t, []string{"k2", "k3"}, ids(ResolveExecutors(ability, executors)))
	})

	t.Run("pin excluded by allow-list", func(t *testing.T) {
		ability := &api.Ability{
			ID:         "a8",
			Provider:   "kie",
			ExecutorID: "k1",
			Metadata:   map[string]interface{}{"allowed_executor_ids": "k2"},
		}
		assert.Equal(t, []string{"k2"}, ids(ResolveExecutors(ability, executors)))
	})

	t.Run("pin kept by allow-list", func(t *testing.T) {
		ability := &api.Ability{
			ID:         "a9",
			Provider:   "kie",
			ExecutorID: "k3",
			Metadata:   map[string]interface{}{"allowed_executor_ids": "k1,k3"},
		}
		assert.Equal(t, []string{"k3", "k1"}, ids(ResolveExecutors(ability, executors)))
	})
}

func TestResolve_TagFilterIsMonotonic(t *testing.T) {
	executors := []api.Executor{
		{ID: "e1", Type: "comfyui", Config: map[string]interface{}{"tags": []interface{}{"gpu", "hz", "fast"}}},
		{ID: "e2", Type: "comfyui", Config: map[string]interface{}{"tag": "gpu"}},
		{ID: "e3", Type: "comfyui", Config: map[string]interface{}{"tags": "gpu;hz"}},
		{ID: "e4", Type: "comfyui"},
	}

	tagSets := [][]interface{}{
		{},
		{"gpu"},
		{"gpu", "hz"},
		{"gpu", "hz", "fast"},
		{"gpu", "hz", "fast", "missing"},
	}

	prev := len(executors) + 1
	for _, tags := range tagSets {
		ability := &api.Ability{
			ID:       "m",
			Provider: "comfyui",
			Metadata: map[string]interface{}{"required_tags": tags},
		}
		n := len(ResolveExecutors(ability, executors))
		assert.LessOrEqual(t, n, prev, "tags %v", tags)
		prev = n
	}
	assert.Equal(t, 0, prev)
}

func TestResolve_NilAbilityAndNoMatches(t *testing.T) {
	assert.Empty(t, ResolveExecutors(nil, []api.Executor{{ID: "e1", Type: "kie"}}))

	res := Resolve(&api.Ability{ID: "a", Provider: "volcengine"}, []api.Executor{{ID: "e1", Type: "kie"}})
	assert.Empty(t, res.Executors)
	assert.True(t, res.Decision.FallbackToDefault)
}
