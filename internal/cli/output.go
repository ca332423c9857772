package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"abilityctl/internal/color"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use table, json or yaml)", s)
	}
}

// maxCellWidth keeps wide schema descriptions from wrapping the table.
const maxCellWidth = 40

// Printer writes command results in the selected format.
type Printer struct {
	Format OutputFormat
	Out    io.Writer
}

// NewPrinter returns a printer writing to stdout.
func NewPrinter(format OutputFormat) *Printer {
	return &Printer{Format: format, Out: os.Stdout}
}

// Print renders any JSON-serializable value. Tables are derived from the
// value's JSON form: arrays of objects become rows, objects become
// key/value pairs.
func (p *Printer) Print(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch p.Format {
	case OutputFormatJSON:
		var buf strings.Builder
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = io.WriteString(p.Out, buf.String())
		return err
	case OutputFormatYAML:
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = p.Out.Write(out)
		return err
	case OutputFormatTable, "":
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return p.table(generic)
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

// Table renders explicit rows. In json and yaml mode the rows are emitted
// as a list of objects keyed by the lower-cased headers.
func (p *Printer) Table(headers []string, rows [][]interface{}) error {
	if p.Format == OutputFormatJSON || p.Format == OutputFormatYAML {
		items := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]interface{}, len(headers))
			for i, h := range headers {
				if i < len(row) {
					item[strings.ToLower(h)] = row[i]
				}
			}
			items = append(items, item)
		}
		return p.Print(items)
	}

	if len(rows) == 0 {
		fmt.Fprintln(p.Out, text.FgYellow.Sprint("No items found"))
		return nil
	}

	t := p.newWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = text.FgHiCyan.Sprint(strings.ToUpper(h))
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			col := ""
			if i < len(headers) {
				col = headers[i]
			}
			r[i] = formatCellValue(col, cell)
		}
		t.AppendRow(r)
	}
	t.Render()
	return nil
}

func (p *Printer) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.Out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (p *Printer) table(data interface{}) error {
	switch d := data.(type) {
	case []interface{}:
		return p.tableFromArray(d)
	case map[string]interface{}:
		return p.keyValueTable(d)
	case nil:
		fmt.Fprintln(p.Out, text.FgYellow.Sprint("No results"))
		return nil
	default:
		fmt.Fprintln(p.Out, d)
		return nil
	}
}

func (p *Printer) tableFromArray(data []interface{}) error {
	if len(data) == 0 {
		fmt.Fprintln(p.Out, text.FgYellow.Sprint("No items found"))
		return nil
	}

	first, ok := data[0].(map[string]interface{})
	if !ok {
		for _, item := range data {
			fmt.Fprintf(p.Out, "  • %v\n", item)
		}
		return nil
	}

	columns := columnsFor(first)
	rows := make([][]interface{}, 0, len(data))
	for _, item := range data {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = m[col]
		}
		rows = append(rows, row)
	}
	return p.Table(columns, rows)
}

func (p *Printer) keyValueTable(data map[string]interface{}) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := p.newWriter()
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("PROPERTY"), text.FgHiCyan.Sprint("VALUE")})
	for _, k := range keys {
		t.AppendRow(table.Row{color.KeyStyle.Render(k), formatCellValue(k, data[k])})
	}
	t.Render()
	return nil
}

// priorityColumns orders well-known fields of abilities, executors,
// schema fields and graph nodes ahead of the rest.
var priorityColumns = []string{
	"id", "name", "key", "node_id", "provider", "status", "type", "class_type",
	"ability_type", "capability_key", "label", "required", "default_value", "message",
}

func columnsFor(sample map[string]interface{}) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, col := range priorityColumns {
		if _, ok := sample[col]; ok {
			columns = append(columns, col)
			seen[col] = true
		}
	}

	var rest []string
	for k := range sample {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if len(columns) >= 6 {
			break
		}
		columns = append(columns, k)
	}
	return columns
}

func formatCellValue(column string, value interface{}) interface{} {
	if value == nil {
		return text.FgHiBlack.Sprint("-")
	}

	switch strings.ToLower(column) {
	case "status", "state", "outcome":
		return color.Status(fmt.Sprintf("%v", value))
	}

	switch v := value.(type) {
	case bool:
		if v {
			return text.FgGreen.Sprint("yes")
		}
		return text.FgHiBlack.Sprint("no")
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return Truncate(string(data), maxCellWidth)
	default:
		return Truncate(fmt.Sprintf("%v", v), maxCellWidth)
	}
}

// Truncate shortens s to at most width terminal cells, marking the cut
// with an ellipsis. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
