package schema

import (
	"testing"

	"abilityctl/internal/api"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
  "fields": [
    {"name": "prompt", "label_zh": "提示词", "label_en": "Prompt", "type": "textarea", "required": true,
     "description": "描述画面", "description_en": "Describe the scene"},
    {"name": "size", "label": "Size", "label_en": "size", "type": "select",
     "options": ["1024x1024", {"value": "512x512", "label": "Small"}, {"label": "broken"}, {"value": ""}],
     "allow_custom_value": true, "defaultValue": "1024x1024"},
    {"name": "steps", "type": "number", "default": 20},
    {"name": "hd", "type": "switch", "default": {"nested": true}},
    {"name": "", "type": "text"},
    {"type": "text"},
    {"name": "style", "type": "dropdown", "component": "select", "allowCustomValue": "true"},
    {"name": "mode", "type": "text", "component": "radio", "placeholder_zh": "模式", "placeholder": "mode"},
    {"name": "prompt", "type": "text"}
  ]
}`

func TestParse(t *testing.T) {
	fields, err := Parse(sampleSchema)
	require.NoError(t, err)

	want := []Field{
		{
			Name: "prompt", Label: "提示词 (Prompt)", Type: TypeTextarea, Required: true,
			Description: "描述画面 (Describe the scene)",
		},
		{
			Name: "size", Label: "Size", Type: TypeSelect,
			Options: []Option{
				{Label: "1024x1024", Value: "1024x1024"},
				{Label: "Small", Value: "512x512"},
			},
			AllowCustomValue: true, DefaultValue: "1024x1024",
		},
		{Name: "steps", Label: "steps", Type: TypeNumber, DefaultValue: float64(20)},
		{Name: "hd", Label: "hd", Type: TypeSwitch},
		{Name: "style", Label: "style", Type: TypeText, Component: ComponentSelect, AllowCustomValue: true},
		{Name: "mode", Label: "mode", Type: TypeText, Placeholder: "模式"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first, err := Parse(sampleSchema)
	require.NoError(t, err)
	second, err := Parse(sampleSchema)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second parse differs (-first +second):\n%s", diff)
	}
}

func TestParse_DocumentShapes(t *testing.T) {
	fields, err := Parse(nil)
	assert.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = Parse("   ")
	assert.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = Parse(map[string]interface{}{
		"fields": []interface{}{map[string]interface{}{"name": "q"}},
	})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, TypeText, fields[0].Type)

	fields, err = Parse([]byte(`[{"name":"a"},{"name":"b","type":"image"}]`))
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	fields, err = Parse(map[string]interface{}{"fields": "nope"})
	assert.NoError(t, err)
	assert.Empty(t, fields)

	_, err = Parse(`{"fields": [`)
	require.Error(t, err)
	assert.True(t, api.IsValidationError(err))

	_, err = Parse(`"just text"`)
	assert.True(t, api.IsValidationError(err))
}

func TestFormatValue(t *testing.T) {
	sw := Field{Name: "hd", Type: TypeSwitch}
	txt := Field{Name: "prompt", Type: TypeText}
	num := Field{Name: "steps", Type: TypeNumber}

	assert.Equal(t, true, FormatValue(sw, "true"))
	assert.Equal(t, true, FormatValue(sw, "TRUE"))
	assert.Equal(t, false, FormatValue(sw, "yes"))
	assert.Equal(t, true, FormatValue(sw, true))
	assert.Equal(t, false, FormatValue(sw, nil))

	assert.Equal(t, "", FormatValue(txt, nil))
	assert.Equal(t, "hello", FormatValue(txt, "hello"))
	assert.Equal(t, "20", FormatValue(num, float64(20)))
	assert.Equal(t, "0.5", FormatValue(num, 0.5))
	assert.Equal(t, "false", FormatValue(txt, false))
	assert.Equal(t, `{"a":1}`, FormatValue(txt, map[string]interface{}{"a": 1}))
}

func TestConvertValue(t *testing.T) {
	num := Field{Name: "steps", Type: TypeNumber}
	sw := Field{Name: "hd", Type: TypeSwitch}
	txt := Field{Name: "prompt", Type: TypeText}

	_, ok := ConvertValue(txt, "")
	assert.False(t, ok)
	_, ok = ConvertValue(txt, nil)
	assert.False(t, ok)

	v, ok := ConvertValue(num, "12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = ConvertValue(num, "abc")
	assert.False(t, ok)

	v, ok = ConvertValue(sw, true)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = ConvertValue(sw, "false")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = ConvertValue(txt, "keep me")
	assert.True(t, ok)
	assert.Equal(t, "keep me", v)
}

func TestFormatConvertRoundTrip(t *testing.T) {
	tests := []struct {
		field Field
		value interface{}
	}{
		{Field{Type: TypeSwitch}, true},
		{Field{Type: TypeSwitch}, false},
		{Field{Type: TypeNumber}, float64(3)},
		{Field{Type: TypeNumber}, -0.25},
		{Field{Type: TypeText}, "a cat"},
		{Field{Type: TypeTextarea}, "line1\nline2"},
		{Field{Type: TypeSelect}, "512x512"},
	}
	for _, tt := range tests {
		got, ok := ConvertValue(tt.field, FormatValue(tt.field, tt.value))
		require.True(t, ok, "%v", tt.value)
		assert.Equal(t, tt.value, got)
	}
}

func TestConvertValuesAndDefaults(t *testing.T) {
	fields, err := Parse(sampleSchema)
	require.NoError(t, err)

	got := ConvertValues(fields, map[string]interface{}{
		"prompt":  "a cat",
		"steps":   "30",
		"hd":      "true",
		"size":    "",
		"unknown": "x",
	})
	assert.Equal(t, map[string]interface{}{"prompt": "a cat", "steps": float64(30), "hd": true}, got)

	assert.Equal(t, map[string]interface{}{"size": "1024x1024", "steps": float64(20)}, Defaults(fields))

	assert.Equal(t, []string{"prompt"}, RequiredMissing(fields, map[string]interface{}{"prompt": " "}))
	assert.Empty(t, RequiredMissing(fields, nil, map[string]interface{}{"prompt": "x"}))
}

func TestDetectIssues(t *testing.T) {
	bare := &api.Ability{ID: "a1"}
	assert.Equal(t, []string{IssueNoFields, IssueNoMetadata, IssueNoDefaultParams, IssueNoPricing}, DetectIssues(bare))

	complete := &api.Ability{
		ID:            "a2",
		InputSchema:   sampleSchema,
		DefaultParams: map[string]interface{}{"steps": 20},
		Metadata:      map[string]interface{}{"pricing": map[string]interface{}{"price": 0.1}},
	}
	assert.Empty(t, DetectIssues(complete))

	broken := &api.Ability{
		ID:            "a3",
		InputSchema:   "{",
		DefaultParams: map[string]interface{}{"x": 1},
		Metadata:      map[string]interface{}{"pricing": "free"},
	}
	assert.Equal(t, []string{IssueInvalidSchema, IssueNoPricing}, DetectIssues(broken))

	assert.Nil(t, DetectIssues(nil))
}
