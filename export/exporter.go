// Package export converts extracted tables into downstream file formats.
package export

import (
	"bytes"
	"io"

	"github.com/go-tabular/tabular"
)

// TableExporter renders a tabular.Table into some target format.
type TableExporter interface {
	// Export writes t to w in the format this exporter implements.
	Export(t *tabular.Table, w io.Writer) error
	// ExportToString is a convenience wrapper around Export for formats that
	// produce text output.
	ExportToString(t *tabular.Table) (string, error)
	// ContentType returns the MIME type of the exported format.
	ContentType() string
	// FileExtension returns the recommended file extension, including the dot.
	FileExtension() string
}

// Options controls shared export behavior across formats.
type Options struct {
	// FillPolicy controls how spanning cells project across the covered
	// matrix positions for formats that need a dense grid (CSV, Markdown).
	FillPolicy tabular.FillPolicy
	// Delimiter is the field delimiter for CSV export.
	Delimiter string
	// PrettyPrint formats JSON output for readability.
	PrettyPrint bool
	// IncludeMetadata includes Table.Meta in formats that support it.
	IncludeMetadata bool
}

// DefaultOptions returns the default export configuration.
func DefaultOptions() Options {
	return Options{
		FillPolicy: tabular.FillRepeat,
		Delimiter:  ",",
	}
}

func exportToString(e TableExporter, t *tabular.Table) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(t, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
