package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// OutputFormatTable renders a kubectl-style plain table.
	OutputFormatTable OutputFormat = "table"
	// OutputFormatWide renders the table with additional columns.
	OutputFormatWide OutputFormat = "wide"
	// OutputFormatJSON renders indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML renders YAML.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatTemplate renders through a user-supplied Go template
	// with the sprig function set.
	OutputFormatTemplate OutputFormat = "template"
)

// ValidateOutputFormat checks that format is one of the supported
// values.
func ValidateOutputFormat(format OutputFormat) error {
	switch format {
	case OutputFormatTable, OutputFormatWide, OutputFormatJSON, OutputFormatYAML, OutputFormatTemplate:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, wide, json, yaml, template)", format)
	}
}

// Printer renders command results in the configured format.
type Printer struct {
	// Format selects the rendering.
	Format OutputFormat

	// NoHeaders suppresses the header row in table output.
	NoHeaders bool

	// Template is the template text for OutputFormatTemplate.
	Template string

	// Out receives the rendered output.
	Out io.Writer
}

// IsTable reports whether the printer renders tabular output.
func (p *Printer) IsTable() bool {
	return p.Format == OutputFormatTable || p.Format == OutputFormatWide
}

// Wide reports whether additional columns should be included.
func (p *Printer) Wide() bool {
	return p.Format == OutputFormatWide
}

// PrintStructured renders data as JSON, YAML or through the template,
// depending on the configured format. Table formats are not handled
// here; callers build tables with PrintTable.
func (p *Printer) PrintStructured(data any) error {
	switch p.Format {
	case OutputFormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render JSON: %w", err)
		}
		fmt.Fprintln(p.Out, string(out))
		return nil
	case OutputFormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to render YAML: %w", err)
		}
		fmt.Fprint(p.Out, string(out))
		return nil
	case OutputFormatTemplate:
		return p.printTemplate(data)
	default:
		return fmt.Errorf("format %q does not render structured data", p.Format)
	}
}

// printTemplate executes the user-supplied template against data. The
// sprig function set is available, so expressions like
// {{ .email | upper }} or {{ .items | toJson }} work.
func (p *Printer) printTemplate(data any) error {
	if p.Template == "" {
		return fmt.Errorf("output format template requires --template")
	}
	tmpl, err := template.New("output").Funcs(sprig.FuncMap()).Parse(p.Template)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	// Round-trip through JSON so templates address fields by their wire
	// names rather than Go struct fields.
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode template data: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to decode template data: %w", err)
	}

	if err := tmpl.Execute(p.Out, generic); err != nil {
		return fmt.Errorf("template execution failed: %w", err)
	}
	fmt.Fprintln(p.Out)
	return nil
}

// PrintTable renders headers and rows through the plain table writer.
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	w := NewPlainTableWriter(p.Out)
	w.SetHeaders(headers)
	w.SetNoHeaders(p.NoHeaders)
	for _, row := range rows {
		w.AppendRow(row)
	}
	w.Render()
}

// Cell helpers shared by the command implementations.

// Dash substitutes "-" for empty cell values.
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatTime renders a timestamp as "2006-01-02 15:04:05", or "-" for
// the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatBool renders a boolean as Yes/No.
func FormatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Truncate shortens long cell values for table display.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// TitleCase renders an enum-ish value ("sub_plant") for display
// ("Sub Plant").
func TitleCase(s string) string {
	if s == "" {
		return "-"
	}
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
