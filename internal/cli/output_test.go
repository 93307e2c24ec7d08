package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarops/pkg/solar"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []OutputFormat{OutputFormatTable, OutputFormatWide, OutputFormatJSON, OutputFormatYAML, OutputFormatTemplate} {
		assert.NoError(t, ValidateOutputFormat(format))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatJSON, Out: &buf}

	require.NoError(t, p.PrintStructured(solar.User{ID: 3, Email: "op@plant.example"}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "op@plant.example", decoded["email"])
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatYAML, Out: &buf}

	require.NoError(t, p.PrintStructured(map[string]string{"status": "active"}))
	assert.Equal(t, "status: active\n", buf.String())
}

func TestPrinterTemplateUsesSprig(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{
		Format:   OutputFormatTemplate,
		Template: `{{ .email | upper }}`,
		Out:      &buf,
	}

	require.NoError(t, p.PrintStructured(solar.User{ID: 3, Email: "op@plant.example"}))
	assert.Equal(t, "OP@PLANT.EXAMPLE\n", buf.String())
}

func TestPrinterTemplateRequiresTemplate(t *testing.T) {
	p := &Printer{Format: OutputFormatTemplate, Out: &bytes.Buffer{}}
	assert.Error(t, p.PrintStructured(struct{}{}))
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatTable, Out: &buf}

	p.PrintTable([]string{"id", "email"}, [][]string{
		{"1", "op@plant.example"},
		{"2", "admin@plant.example"},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "ID")
	assert.Contains(t, string(lines[0]), "EMAIL")
	assert.Contains(t, string(lines[1]), "op@plant.example")
}

func TestPrinterTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputFormatTable, NoHeaders: true, Out: &buf}

	p.PrintTable([]string{"id"}, [][]string{{"1"}})
	assert.Equal(t, "1\n", buf.String())
}

func TestCellHelpers(t *testing.T) {
	assert.Equal(t, "-", Dash(""))
	assert.Equal(t, "x", Dash("x"))

	assert.Equal(t, "-", FormatTime(time.Time{}))
	assert.NotEqual(t, "-", FormatTime(time.Now()))

	assert.Equal(t, "Yes", FormatBool(true))
	assert.Equal(t, "No", FormatBool(false))

	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "long te...", Truncate("long text that keeps going", 10))

	assert.Equal(t, "Sub Plant", TitleCase("sub_plant"))
	assert.Equal(t, "-", TitleCase(""))
}
