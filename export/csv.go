package export

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/go-tabular/tabular"
)

// CSVExporter renders a table's dense matrix projection as CSV.
type CSVExporter struct {
	options Options
}

// NewCSVExporter creates a CSV exporter with default options.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{options: DefaultOptions()}
}

// NewCSVExporterWithOptions creates a CSV exporter with the given options.
func NewCSVExporterWithOptions(opts Options) *CSVExporter {
	return &CSVExporter{options: opts}
}

func (e *CSVExporter) Export(t *tabular.Table, w io.Writer) error {
	writer := csv.NewWriter(w)
	if len(e.options.Delimiter) > 0 {
		writer.Comma = rune(e.options.Delimiter[0])
	}

	matrix := t.AsMatrix(e.options.FillPolicy)
	for _, row := range matrix {
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "flush csv writer")
	}
	return nil
}

func (e *CSVExporter) ExportToString(t *tabular.Table) (string, error) {
	return exportToString(e, t)
}

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) FileExtension() string {
	if e.options.Delimiter == "\t" {
		return ".tsv"
	}
	return ".csv"
}
