package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-tabular/tabular"
)

// MarkdownExporter renders a table's dense matrix projection as a GitHub-
// flavored Markdown pipe table, treating the first row as the header.
type MarkdownExporter struct {
	options Options
}

// NewMarkdownExporter creates a Markdown exporter with default options.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{options: DefaultOptions()}
}

// NewMarkdownExporterWithOptions creates a Markdown exporter with the given options.
func NewMarkdownExporterWithOptions(opts Options) *MarkdownExporter {
	return &MarkdownExporter{options: opts}
}

func (e *MarkdownExporter) Export(t *tabular.Table, w io.Writer) error {
	matrix := t.AsMatrix(e.options.FillPolicy)
	if len(matrix) == 0 {
		return nil
	}

	writeRow := func(row []string) error {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = escapePipe(v)
		}
		_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
		return err
	}

	if err := writeRow(matrix[0]); err != nil {
		return err
	}
	separator := make([]string, t.NCols)
	for i := range separator {
		separator[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(separator, " | ")); err != nil {
		return err
	}
	for _, row := range matrix[1:] {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func escapePipe(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\\", "\\\\"), "|", "\\|")
}

func (e *MarkdownExporter) ExportToString(t *tabular.Table) (string, error) {
	return exportToString(e, t)
}

func (e *MarkdownExporter) ContentType() string { return "text/markdown" }

func (e *MarkdownExporter) FileExtension() string { return ".md" }
