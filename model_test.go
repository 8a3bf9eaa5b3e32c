package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func glyph(x0, y0, x1, y1 float64, text string) Glyph {
	return Glyph{BBox: NewBBox(x0, y0, x1, y1), Text: text, Size: 10}
}

func TestGroupGlyphsIntoWordsBreaksOnWhitespace(t *testing.T) {
	glyphs := []Glyph{
		glyph(0, 0, 5, 10, "H"),
		glyph(5, 0, 10, 10, "i"),
		glyph(10, 0, 15, 10, " "),
		glyph(15, 0, 20, 10, "Y"),
		glyph(20, 0, 25, 10, "o"),
		glyph(25, 0, 30, 10, "u"),
	}
	words := GroupGlyphsIntoWords(glyphs)
	assert.Len(t, words, 2)
	assert.Equal(t, "Hi", words[0].Text)
	assert.Equal(t, "You", words[1].Text)
}

func TestGroupGlyphsIntoWordsBreaksOnGap(t *testing.T) {
	glyphs := []Glyph{
		glyph(0, 0, 5, 10, "A"),
		glyph(5, 0, 10, 10, "B"),
		glyph(50, 0, 55, 10, "C"),
	}
	words := GroupGlyphsIntoWords(glyphs)
	assert.Len(t, words, 2)
	assert.Equal(t, "AB", words[0].Text)
	assert.Equal(t, "C", words[1].Text)
}

func TestGroupGlyphsIntoWordsEmpty(t *testing.T) {
	assert.Nil(t, GroupGlyphsIntoWords(nil))
}

func TestGridStructureBoundaries(t *testing.T) {
	g := newGridStructure([]float64{0, 10, 20, 30}, []float64{0, 10, 20}, 1.0)
	assert.Equal(t, 3, g.NRows())
	assert.Equal(t, 2, g.NCols())
	assert.False(t, g.HasVerticalLines())
	assert.False(t, g.HasHorizontalLines())

	g.setVerticalBoundary(1, 0, true)
	assert.True(t, g.VerticalBoundary(1, 0))
	assert.False(t, g.VerticalBoundary(0, 0))
	assert.True(t, g.HasVerticalLines())

	g.setHorizontalBoundary(1, 1, true)
	assert.True(t, g.HorizontalBoundary(1, 1))
	assert.True(t, g.HasHorizontalLines())
}

func TestGridStructureCellBBox(t *testing.T) {
	g := newGridStructure([]float64{0, 10, 20}, []float64{0, 5, 15}, 1.0)
	b := g.CellBBox(0, 1)
	assert.Equal(t, NewBBox(5, 0, 15, 10), b)
}

func TestSortCells(t *testing.T) {
	table := Table{Cells: []Cell{
		{Row: 1, Col: 0, Text: "c"},
		{Row: 0, Col: 1, Text: "b"},
		{Row: 0, Col: 0, Text: "a"},
	}}
	table.SortCells()
	assert.Equal(t, "a", table.Cells[0].Text)
	assert.Equal(t, "b", table.Cells[1].Text)
	assert.Equal(t, "c", table.Cells[2].Text)
}

func TestParseFillPolicy(t *testing.T) {
	p, err := ParseFillPolicy("repeat")
	assert.NoError(t, err)
	assert.Equal(t, FillRepeat, p)

	p, err = ParseFillPolicy("empty")
	assert.NoError(t, err)
	assert.Equal(t, FillEmptyPolicy, p)

	_, err = ParseFillPolicy("sentinel")
	assert.NoError(t, err)

	_, err = ParseFillPolicy("bogus")
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAsMatrixRepeatFillsSpan(t *testing.T) {
	table := Table{
		NRows: 2,
		NCols: 2,
		Cells: []Cell{
			{Text: "merged", Row: 0, Col: 0, RowSpan: 2, ColSpan: 2},
		},
	}
	matrix := table.AsMatrix(FillRepeat)
	assert.Equal(t, "merged", matrix[0][0])
	assert.Equal(t, "merged", matrix[0][1])
	assert.Equal(t, "merged", matrix[1][0])
	assert.Equal(t, "merged", matrix[1][1])
}

func TestAsMatrixEmptyLeavesSpanBlank(t *testing.T) {
	table := Table{
		NRows: 2,
		NCols: 2,
		Cells: []Cell{
			{Text: "merged", Row: 0, Col: 0, RowSpan: 2, ColSpan: 2},
		},
	}
	matrix := table.AsMatrix(FillEmptyPolicy)
	assert.Equal(t, "merged", matrix[0][0])
	assert.Equal(t, "", matrix[0][1])
	assert.Equal(t, "", matrix[1][0])
	assert.Equal(t, "", matrix[1][1])
}

func TestAsMatrixSentinelFillsSpan(t *testing.T) {
	table := Table{
		NRows: 1,
		NCols: 2,
		Cells: []Cell{
			{Text: "merged", Row: 0, Col: 0, RowSpan: 1, ColSpan: 2},
		},
	}
	policy, err := ParseFillPolicy("sentinel")
	assert.NoError(t, err)
	matrix := table.AsMatrix(policy)
	assert.Equal(t, "merged", matrix[0][0])
	assert.Equal(t, "<MERGED>", matrix[0][1])
}

func TestAsMatrixAnchorAlwaysWinsOverPriorFill(t *testing.T) {
	table := Table{
		NRows: 1,
		NCols: 2,
		Cells: []Cell{
			{Text: "a", Row: 0, Col: 0, RowSpan: 1, ColSpan: 1},
			{Text: "b", Row: 0, Col: 1, RowSpan: 1, ColSpan: 1},
		},
	}
	matrix := table.AsMatrix(FillRepeat)
	assert.Equal(t, []string{"a", "b"}, matrix[0])
}

func TestAsMatricesAppliesPolicyToEveryTable(t *testing.T) {
	doc := DocResult{Tables: []Table{
		{NRows: 1, NCols: 1, Cells: []Cell{{Text: "x", RowSpan: 1, ColSpan: 1}}},
		{NRows: 1, NCols: 1, Cells: []Cell{{Text: "y", RowSpan: 1, ColSpan: 1}}},
	}}
	matrices := doc.AsMatrices(FillRepeat)
	assert.Len(t, matrices, 2)
	assert.Equal(t, "x", matrices[0][0][0])
	assert.Equal(t, "y", matrices[1][0][0])
}
