package tabular

import (
	"math"
	"sort"
	"strings"
)

// Glyph is a single rendered character, as delivered by the PDF reader
// collaborator: position, text, font size, and rendering angle in degrees.
type Glyph struct {
	BBox BBox
	Text string
	Size float64
	Angle float64
}

// Word is a run of glyphs grouped by x-proximity and baseline continuity.
type Word struct {
	BBox BBox
	Text string
}

// GroupGlyphsIntoWords groups consecutive, same-line glyphs into words,
// breaking on whitespace-only glyph text or a horizontal gap wider than a
// fraction of the local glyph height.
func GroupGlyphsIntoWords(glyphs []Glyph) []Word {
	if len(glyphs) == 0 {
		return nil
	}
	var words []Word
	var current []Glyph

	flush := func() {
		if len(current) == 0 {
			return
		}
		bbox := current[0].BBox
		var text strings.Builder
		for _, g := range current {
			bbox = bbox.Union(g.BBox)
			text.WriteString(g.Text)
		}
		words = append(words, Word{BBox: bbox, Text: text.String()})
		current = current[:0]
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) == "" {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := current[len(current)-1]
			gap := g.BBox.X0 - prev.BBox.X1
			avgHeight := (prev.BBox.Height() + g.BBox.Height()) / 2
			sameLine := math.Abs(g.BBox.CenterY()-prev.BBox.CenterY()) <= avgHeight*0.5
			if !sameLine || gap > avgHeight*0.35 {
				flush()
			}
		}
		current = append(current, g)
	}
	flush()
	return words
}

// DetectedRegion is a candidate table region proposed by a Detector.
type DetectedRegion struct {
	Page            int // 1-based
	BBox            BBox
	Rulings         []BBox
	GlyphBoxes      []BBox
	Confidence      float64
	DetectorVersion string
}

// GridStructure is the row/column lattice inferred for one region: the
// snapped edge coordinates plus which interior edges are backed by a visible
// ruling. Boundary lattices are stored as flat bitsets, row-major.
type GridStructure struct {
	RowEdges []float64
	ColEdges []float64
	Epsilon  float64

	nRows, nCols int
	// verticalBoundaries[r][i] (i in [0,nCols-1)): a ruling covers column
	// edge i+1 (between columns i and i+1) across the full height of row r.
	verticalBoundaries bitset
	// horizontalBoundaries[j][c] (j in [0,nRows-1)): a ruling covers row
	// edge j+1 (between rows j and j+1) across the full width of column c.
	horizontalBoundaries bitset
}

func newGridStructure(rowEdges, colEdges []float64, epsilon float64) *GridStructure {
	nRows := len(rowEdges) - 1
	nCols := len(colEdges) - 1
	g := &GridStructure{
		RowEdges: rowEdges,
		ColEdges: colEdges,
		Epsilon:  epsilon,
		nRows:    nRows,
		nCols:    nCols,
	}
	vCount := nRows * maxInt(0, nCols-1)
	hCount := maxInt(0, nRows-1) * nCols
	g.verticalBoundaries = newBitset(vCount)
	g.horizontalBoundaries = newBitset(hCount)
	return g
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NRows returns the number of grid rows.
func (g *GridStructure) NRows() int { return g.nRows }

// NCols returns the number of grid columns.
func (g *GridStructure) NCols() int { return g.nCols }

// VerticalBoundary reports whether a ruling backs the edge between columns i
// and i+1, for the full span of row r.
func (g *GridStructure) VerticalBoundary(row, i int) bool {
	return g.verticalBoundaries.get(row*maxInt(0, g.nCols-1) + i)
}

func (g *GridStructure) setVerticalBoundary(row, i int, v bool) {
	g.verticalBoundaries.set(row*maxInt(0, g.nCols-1)+i, v)
}

// HorizontalBoundary reports whether a ruling backs the edge between rows j
// and j+1, for the full span of column c.
func (g *GridStructure) HorizontalBoundary(j, c int) bool {
	return g.horizontalBoundaries.get(j*g.nCols + c)
}

func (g *GridStructure) setHorizontalBoundary(j, c int, v bool) {
	g.horizontalBoundaries.set(j*g.nCols+c, v)
}

// HasVerticalLines reports whether any vertical boundary anywhere is set.
func (g *GridStructure) HasVerticalLines() bool { return g.verticalBoundaries.any() }

// HasHorizontalLines reports whether any horizontal boundary anywhere is set.
func (g *GridStructure) HasHorizontalLines() bool { return g.horizontalBoundaries.any() }

// CellBBox returns the grid rectangle for an unmerged (row, col) position.
func (g *GridStructure) CellBBox(row, col int) BBox {
	return BBox{g.ColEdges[col], g.RowEdges[row], g.ColEdges[col+1], g.RowEdges[row+1]}
}

// CandidateCell is the pre-merge content assigned to a single grid bucket.
type CandidateCell struct {
	Row, Col int
	Text     string
	BBox     BBox
}

// Cell is a final, immutable output cell after merge resolution.
type Cell struct {
	Text       string
	BBox       BBox
	Row, Col   int
	RowSpan    int
	ColSpan    int
	Confidence float64
}

// Table is a stitched or single-region table.
type Table struct {
	Pages      []int // ordered set of 1-based page numbers
	Cells      []Cell
	NRows      int
	NCols      int
	Title      *string
	Confidence float64
	Meta       map[string]any
	Units      string
	PageSize   *[2]float64
}

// SortCells puts cells into canonical (row, col) lexicographic order.
func (t *Table) SortCells() {
	sort.Slice(t.Cells, func(i, j int) bool {
		if t.Cells[i].Row != t.Cells[j].Row {
			return t.Cells[i].Row < t.Cells[j].Row
		}
		return t.Cells[i].Col < t.Cells[j].Col
	})
}

// fillKind tags a FillPolicy's variant.
type fillKind int

const (
	fillRepeat fillKind = iota
	fillEmpty
	fillSentinel
	fillValue
)

// FillPolicy controls how a spanning cell's text is projected across the
// matrix positions it covers, for consumers (exporters, debug tooling) that
// need a dense [][]string rather than a sparse cell list.
type FillPolicy struct {
	kind  fillKind
	value string
}

// FillRepeat repeats a spanning cell's text into every position it covers.
var FillRepeat = FillPolicy{kind: fillRepeat}

// FillEmptyPolicy leaves non-anchor positions of a span blank.
var FillEmptyPolicy = FillPolicy{kind: fillEmpty}

// FillSentinel fills non-anchor positions of a span with a fixed marker string.
func FillSentinel(marker string) FillPolicy { return FillPolicy{kind: fillSentinel, value: marker} }

// FillValue fills non-anchor positions of a span with an arbitrary literal value.
func FillValue(value string) FillPolicy { return FillPolicy{kind: fillValue, value: value} }

// ParseFillPolicy parses a configuration string into a FillPolicy, the
// boundary-crossing point where raw strings become a tagged variant.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch s {
	case "repeat":
		return FillRepeat, nil
	case "empty":
		return FillEmptyPolicy, nil
	case "sentinel":
		return FillSentinel("<MERGED>"), nil
	default:
		return FillPolicy{}, &ConfigError{Field: "fill_policy", Value: s}
	}
}

// AsMatrix projects the table's cells into a dense n_rows x n_cols matrix.
// Every position is anchored with its owning cell's text at the cell's own
// (row, col); positions covered by a span but not the anchor are filled per
// policy.
func (t *Table) AsMatrix(policy FillPolicy) [][]string {
	matrix := make([][]string, t.NRows)
	fillerText := ""
	switch policy.kind {
	case fillSentinel, fillValue:
		fillerText = policy.value
	}
	for r := range matrix {
		matrix[r] = make([]string, t.NCols)
		for c := range matrix[r] {
			matrix[r][c] = fillerText
		}
	}
	for _, cell := range t.Cells {
		for r := cell.Row; r < cell.Row+cell.RowSpan && r < t.NRows; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan && c < t.NCols; c++ {
				if policy.kind == fillRepeat {
					matrix[r][c] = cell.Text
				}
			}
		}
		if cell.Row < t.NRows && cell.Col < t.NCols {
			matrix[cell.Row][cell.Col] = cell.Text
		}
	}
	return matrix
}

// DocResult is the top-level output of Extract: every stitched table found
// in the document, plus processing stats and soft-anomaly warnings.
type DocResult struct {
	Tables   []Table
	Stats    map[string]any
	Warnings []string
}

// AsMatrices projects every table in the document with the given fill policy.
func (d *DocResult) AsMatrices(policy FillPolicy) [][][]string {
	out := make([][][]string, len(d.Tables))
	for i := range d.Tables {
		out[i] = d.Tables[i].AsMatrix(policy)
	}
	return out
}
