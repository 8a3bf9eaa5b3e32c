package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONExporterBasic(t *testing.T) {
	out, err := NewJSONExporter().ExportToString(twoByTwoTable())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(2), decoded["n_rows"])
	assert.Equal(t, float64(2), decoded["n_cols"])
	cells, ok := decoded["cells"].([]any)
	require.True(t, ok)
	assert.Len(t, cells, 4)
	assert.NotContains(t, decoded, "meta")
}

func TestJSONExporterIncludesMetadataWhenRequested(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = true
	table := twoByTwoTable()
	table.Meta = map[string]any{"detector_version": "1.0"}

	out, err := NewJSONExporterWithOptions(opts).ExportToString(table)
	require.NoError(t, err)
	assert.Contains(t, out, "detector_version")
}

func TestJSONExporterPrettyPrint(t *testing.T) {
	opts := DefaultOptions()
	opts.PrettyPrint = true
	out, err := NewJSONExporterWithOptions(opts).ExportToString(twoByTwoTable())
	require.NoError(t, err)
	assert.Contains(t, out, "\n  ")
}

func TestJSONExporterContentType(t *testing.T) {
	e := NewJSONExporter()
	assert.Equal(t, "application/json", e.ContentType())
	assert.Equal(t, ".json", e.FileExtension())
}
