package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/go-tabular/tabular"
)

// JSONExporter renders a structured dump of a table's cells and metadata.
type JSONExporter struct {
	options Options
}

// NewJSONExporter creates a JSON exporter with default options.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{options: DefaultOptions()}
}

// NewJSONExporterWithOptions creates a JSON exporter with the given options.
func NewJSONExporterWithOptions(opts Options) *JSONExporter {
	return &JSONExporter{options: opts}
}

type jsonCell struct {
	Text       string  `json:"text"`
	Row        int     `json:"row"`
	Col        int     `json:"col"`
	RowSpan    int     `json:"row_span"`
	ColSpan    int     `json:"col_span"`
	Confidence float64 `json:"confidence"`
}

type jsonTable struct {
	Pages      []int          `json:"pages"`
	NRows      int            `json:"n_rows"`
	NCols      int            `json:"n_cols"`
	Cells      []jsonCell     `json:"cells"`
	Confidence float64        `json:"confidence"`
	Meta       map[string]any `json:"meta,omitempty"`
}

func (e *JSONExporter) Export(t *tabular.Table, w io.Writer) error {
	cells := make([]jsonCell, len(t.Cells))
	for i, c := range t.Cells {
		cells[i] = jsonCell{
			Text:       c.Text,
			Row:        c.Row,
			Col:        c.Col,
			RowSpan:    c.RowSpan,
			ColSpan:    c.ColSpan,
			Confidence: c.Confidence,
		}
	}
	out := jsonTable{
		Pages:      t.Pages,
		NRows:      t.NRows,
		NCols:      t.NCols,
		Cells:      cells,
		Confidence: t.Confidence,
	}
	if e.options.IncludeMetadata {
		out.Meta = t.Meta
	}

	encoder := json.NewEncoder(w)
	if e.options.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(out); err != nil {
		return errors.Wrap(err, "encode json table")
	}
	return nil
}

func (e *JSONExporter) ExportToString(t *tabular.Table) (string, error) {
	return exportToString(e, t)
}

func (e *JSONExporter) ContentType() string { return "application/json" }

func (e *JSONExporter) FileExtension() string { return ".json" }
