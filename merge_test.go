package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyMergesNoCandidatesProducesEmptyUnitCells(t *testing.T) {
	grid := newGridStructure([]float64{0, 10, 20}, []float64{0, 10, 20}, 0.5)
	cells := ApplyMerges(grid, nil)
	assert.Len(t, cells, 4)
	for _, c := range cells {
		assert.Equal(t, 1, c.RowSpan)
		assert.Equal(t, 1, c.ColSpan)
		assert.Equal(t, "", c.Text)
	}
}

func TestApplyMergesExpandsColumnsOnTextOverrun(t *testing.T) {
	grid := newGridStructure([]float64{0, 10, 20}, []float64{0, 10, 20, 30}, 0.5)
	candidates := []CandidateCell{
		{Row: 0, Col: 0, Text: "AB", BBox: NewBBox(0, 2, 15, 8)},
		{Row: 0, Col: 2, Text: "C", BBox: NewBBox(22, 2, 28, 8)},
	}
	cells := ApplyMerges(grid, candidates)
	assert.Len(t, cells, 5)

	var merged *Cell
	for i := range cells {
		if cells[i].Text == "AB" {
			merged = &cells[i]
		}
	}
	if assert.NotNil(t, merged) {
		assert.Equal(t, 0, merged.Row)
		assert.Equal(t, 0, merged.Col)
		assert.Equal(t, 1, merged.RowSpan)
		assert.Equal(t, 2, merged.ColSpan)
	}
}

func TestExpandColumnsBlockedByNonEmptyNeighbor(t *testing.T) {
	grid := newGridStructure([]float64{0, 10}, []float64{0, 10, 20, 30}, 0.5)
	candidate := CandidateCell{Row: 0, Col: 0, Text: "AB", BBox: NewBBox(0, 2, 25, 8)}
	neighbor := CandidateCell{Row: 0, Col: 1, Text: "X", BBox: NewBBox(10, 2, 20, 8)}
	candidateMap := map[gridPos]CandidateCell{
		{0, 0}: candidate,
		{0, 1}: neighbor,
	}
	colStart, colEnd := expandColumns(grid, candidateMap, candidate, false)
	assert.Equal(t, 0, colStart)
	assert.Equal(t, 0, colEnd, "a non-empty neighbor must block expansion even when text overruns the cell")
}

func TestExpandColumnsRespectsVerticalRuling(t *testing.T) {
	grid := newGridStructure([]float64{0, 10}, []float64{0, 10, 20}, 0.5)
	grid.setVerticalBoundary(0, 0, true)
	candidate := CandidateCell{Row: 0, Col: 0, Text: "AB", BBox: NewBBox(0, 2, 9, 8)}
	candidateMap := map[gridPos]CandidateCell{{0, 0}: candidate}
	colStart, colEnd := expandColumns(grid, candidateMap, candidate, true)
	assert.Equal(t, 0, colStart)
	assert.Equal(t, 0, colEnd, "a present ruling blocks expansion when the candidate's text does not overrun it")
}

func TestExpandRowsAcrossResolvedColumnRange(t *testing.T) {
	grid := newGridStructure([]float64{0, 10, 20}, []float64{0, 10}, 0.5)
	candidate := CandidateCell{Row: 0, Col: 0, Text: "tall", BBox: NewBBox(0, 0, 10, 18)}
	candidateMap := map[gridPos]CandidateCell{{0, 0}: candidate}
	rowStart, rowEnd := expandRows(grid, candidateMap, candidate, 0, 0, false)
	assert.Equal(t, 0, rowStart)
	assert.Equal(t, 1, rowEnd)
}
