package export

import (
	"fmt"
	"html"
	"io"
	"sort"

	"github.com/go-tabular/tabular"
)

// HTMLExporter renders a table as an HTML <table>, using rowspan/colspan
// attributes for merged cells rather than repeating text into every covered
// position.
type HTMLExporter struct {
	options      Options
	InlineStyles bool
}

// NewHTMLExporter creates an HTML exporter with default options.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{options: DefaultOptions()}
}

// NewHTMLExporterWithOptions creates an HTML exporter with the given options.
func NewHTMLExporterWithOptions(opts Options, inlineStyles bool) *HTMLExporter {
	return &HTMLExporter{options: opts, InlineStyles: inlineStyles}
}

func (e *HTMLExporter) Export(t *tabular.Table, w io.Writer) error {
	cellsByRow := make(map[int][]tabular.Cell)
	for _, c := range t.Cells {
		cellsByRow[c.Row] = append(cellsByRow[c.Row], c)
	}

	style := ""
	if e.InlineStyles {
		style = ` style="border-collapse:collapse"`
	}
	cellStyle := ""
	if e.InlineStyles {
		cellStyle = ` style="border:1px solid #888;padding:4px"`
	}

	if _, err := fmt.Fprintf(w, "<table%s>\n", style); err != nil {
		return err
	}
	for row := 0; row < t.NRows; row++ {
		rowCells := cellsByRow[row]
		sort.Slice(rowCells, func(i, j int) bool { return rowCells[i].Col < rowCells[j].Col })
		if _, err := fmt.Fprint(w, "  <tr>\n"); err != nil {
			return err
		}
		for _, cell := range rowCells {
			attrs := ""
			if cell.RowSpan > 1 {
				attrs += fmt.Sprintf(` rowspan="%d"`, cell.RowSpan)
			}
			if cell.ColSpan > 1 {
				attrs += fmt.Sprintf(` colspan="%d"`, cell.ColSpan)
			}
			if _, err := fmt.Fprintf(w, "    <td%s%s>%s</td>\n", attrs, cellStyle, html.EscapeString(cell.Text)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "  </tr>\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "</table>\n")
	return err
}

func (e *HTMLExporter) ExportToString(t *tabular.Table) (string, error) {
	return exportToString(e, t)
}

func (e *HTMLExporter) ContentType() string { return "text/html" }

func (e *HTMLExporter) FileExtension() string { return ".html" }
