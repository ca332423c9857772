package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbilityMetadata(t *testing.T) {
	meta := map[string]interface{}{
		"routing_policy":       "weight",
		"allowed_executor_ids": "e1, e2",
		"required_tags":        []interface{}{"GPU:4090"},
		"fallback_to_default":  "false",
		"executor_types":       []interface{}{"comfyui"},
		"executor_type":        "comfy",
		"workflow_key":         "flux_txt2img",
		"requires_image_input": true,
		"custom":               "kept",
	}

	got := ParseAbilityMetadata(meta)

	assert.Equal(t, "weight", got.RoutingPolicy)
	assert.Equal(t, []string{"e1", "e2"}, got.AllowedExecutorIDs)
	assert.Equal(t, []interface{}{"GPU:4090"}, got.RequiredTags)
	require.NotNil(t, got.FallbackToDefault)
	assert.False(t, *got.FallbackToDefault)
	assert.Equal(t, []interface{}{"comfy", []interface{}{"comfyui"}}, got.ExecutorHints)
	assert.Equal(t, "flux_txt2img", got.WorkflowKey)
	assert.True(t, got.RequiresImageInput)
	assert.Equal(t, map[string]interface{}{"custom": "kept"}, got.Extras)
}

func TestParseAbilityMetadata_Empty(t *testing.T) {
	got := ParseAbilityMetadata(nil)
	assert.Nil(t, got.FallbackToDefault)
	assert.Empty(t, got.ExecutorHints)
	assert.Empty(t, got.Extras)
}

func TestParseExecutorConfig(t *testing.T) {
	got := ParseExecutorConfig(map[string]interface{}{
		"tags":     "gpu:4090,region:hz",
		"endpoint": "http://node",
	})
	assert.Equal(t, "gpu:4090,region:hz", got.Tags)
	assert.Equal(t, map[string]interface{}{"endpoint": "http://node"}, got.Extras)

	single := ParseExecutorConfig(map[string]interface{}{"tag": "cpu"})
	assert.Equal(t, "cpu", single.Tags)
}

func TestResolvePricing(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   Pricing
		wantOK bool
	}{
		{"number", 0.2, Pricing{Amount: 0.2}, true},
		{"numeric string", "1.5", Pricing{Amount: 1.5}, true},
		{"map price", map[string]interface{}{"price": 3, "currency": "cny", "unit": "call"}, Pricing{Amount: 3, Currency: "CNY", Unit: "call"}, true},
		{"map unit_price", map[string]interface{}{"unit_price": "0.04"}, Pricing{Amount: 0.04}, true},
		{"map without price", map[string]interface{}{"currency": "usd"}, Pricing{}, false},
		{"nil", nil, Pricing{}, false},
		{"text", "free", Pricing{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolvePricing(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvocationResultPreviewPrecedence(t *testing.T) {
	r := InvocationResult{ImageBase64: "b64", StoredURL: "s3://x", ImageURL: "http://p"}
	kind, ref := r.Preview()
	assert.Equal(t, PreviewBase64, kind)
	assert.Equal(t, "b64", ref)

	r.ImageBase64 = ""
	kind, ref = r.Preview()
	assert.Equal(t, PreviewStored, kind)
	assert.Equal(t, "s3://x", ref)

	r.StoredURL = ""
	kind, _ = r.Preview()
	assert.Equal(t, PreviewURL, kind)
}

func TestInvocationResultSummary(t *testing.T) {
	assert.Equal(t, NoPreviewMessage, InvocationResult{Provider: "kie"}.Summary())
	assert.Equal(t, "task t1 waiting", InvocationResult{TaskID: "t1", State: "waiting"}.Summary())
	assert.Equal(t, "hello", InvocationResult{Text: "hello"}.Summary())
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("build: %w", ValidationErrors{{Field: "prompt", Message: "prompt is required"}})
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("other")))

	timeout := fmt.Errorf("invoke: %w", &ProviderError{Provider: "comfyui", Timeout: true, Message: "deadline exceeded"})
	assert.True(t, IsTimeout(timeout))
	assert.Contains(t, timeout.Error(), "timeout")

	generic := &ProviderError{Provider: "kie", StatusCode: 502}
	assert.Equal(t, "provider kie: status 502: request failed", generic.Error())
}
