package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputFormatTable, false},
		{"table", OutputFormatTable, false},
		{"JSON", OutputFormatJSON, false},
		{"yaml", OutputFormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_JSONAndYAML(t *testing.T) {
	value := map[string]interface{}{"id": "a1", "count": 2}

	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatJSON, Out: &buf}
	require.NoError(t, p.Print(value))
	assert.JSONEq(t, `{"id":"a1","count":2}`, buf.String())

	buf.Reset()
	p.Format = OutputFormatYAML
	require.NoError(t, p.Print(value))
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "a1", decoded["id"])
	assert.Equal(t, 2, decoded["count"])
}

func TestPrinter_TableFromArray(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatTable, Out: &buf}
	items := []map[string]interface{}{
		{"id": "a1", "name": "Upscale", "provider": "baidu"},
		{"id": "a2", "name": "Chat", "provider": "openai"},
	}
	require.NoError(t, p.Print(items))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "PROVIDER")
	assert.Contains(t, out, "Upscale")
	assert.Contains(t, out, "openai")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("ID")), bytes.Index(buf.Bytes(), []byte("PROVIDER")))
}

func TestPrinter_EmptyAndKeyValue(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatTable, Out: &buf}
	require.NoError(t, p.Print([]interface{}{}))
	assert.Contains(t, buf.String(), "No items found")

	buf.Reset()
	require.NoError(t, p.Print(map[string]interface{}{"model": "gpt-4o", "stream": false}))
	assert.Contains(t, buf.String(), "PROPERTY")
	assert.Contains(t, buf.String(), "gpt-4o")
}

func TestPrinter_TableStructuredRows(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatJSON, Out: &buf}
	require.NoError(t, p.Table([]string{"Key", "Type"}, [][]interface{}{{"prompt", "textarea"}}))
	assert.JSONEq(t, `[{"key":"prompt","type":"textarea"}]`, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.LessOrEqual(t, len([]rune(Truncate("图片放大处理流程说明", 8))), 8)
}
