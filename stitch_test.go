package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headerTable(page int, header, data []string) Table {
	cells := []Cell{
		{Text: header[0], Row: 0, Col: 0, RowSpan: 1, ColSpan: 1, BBox: NewBBox(0, 0, 50, 10)},
		{Text: header[1], Row: 0, Col: 1, RowSpan: 1, ColSpan: 1, BBox: NewBBox(50, 0, 100, 10)},
		{Text: data[0], Row: 1, Col: 0, RowSpan: 1, ColSpan: 1, BBox: NewBBox(0, 10, 50, 20)},
		{Text: data[1], Row: 1, Col: 1, RowSpan: 1, ColSpan: 1, BBox: NewBBox(50, 10, 100, 20)},
	}
	return Table{
		Pages:      []int{page},
		Cells:      cells,
		NRows:      2,
		NCols:      2,
		Confidence: 1.0,
	}
}

func TestParseStitchAggressiveness(t *testing.T) {
	assert.Equal(t, StitchLow, ParseStitchAggressiveness("low"))
	assert.Equal(t, StitchHigh, ParseStitchAggressiveness("high"))
	assert.Equal(t, StitchMedium, ParseStitchAggressiveness("med"))
	assert.Equal(t, StitchMedium, ParseStitchAggressiveness("garbage"))
}

func TestStitchTablesJoinsMatchingHeaderAndWidth(t *testing.T) {
	a := headerTable(1, []string{"Name", "Age"}, []string{"Alice", "30"})
	b := headerTable(2, []string{"Name", "Age"}, []string{"Bob", "40"})

	stitched := StitchTables([]Table{a, b}, StitchMedium)
	if assert.Len(t, stitched, 1) {
		merged := stitched[0]
		assert.Equal(t, []int{1, 2}, merged.Pages)
		assert.Equal(t, 3, merged.NRows, "b's repeated header row should be dropped")
		assert.Len(t, merged.Cells, 6)
	}
}

func TestStitchTablesKeepsDifferentColumnCountsSeparate(t *testing.T) {
	a := headerTable(1, []string{"Name", "Age"}, []string{"Alice", "30"})
	b := a
	b.Pages = []int{2}
	b.NCols = 3

	stitched := StitchTables([]Table{a, b}, StitchMedium)
	assert.Len(t, stitched, 2)
}

func TestStitchTablesKeepsMismatchedHeadersSeparate(t *testing.T) {
	a := headerTable(1, []string{"Name", "Age"}, []string{"Alice", "30"})
	b := headerTable(2, []string{"Product", "Price"}, []string{"Widget", "9.99"})

	stitched := StitchTables([]Table{a, b}, StitchMedium)
	assert.Len(t, stitched, 2)
}

func TestStitchTablesOrdersByMinPage(t *testing.T) {
	a := headerTable(5, []string{"X", "Y"}, []string{"1", "2"})
	b := headerTable(1, []string{"P", "Q"}, []string{"3", "4"})

	stitched := StitchTables([]Table{a, b}, StitchMedium)
	assert.Len(t, stitched, 2)
	assert.Equal(t, []int{1}, stitched[0].Pages)
	assert.Equal(t, []int{5}, stitched[1].Pages)
}

func TestShouldJoinRejectsWidthMismatch(t *testing.T) {
	a := headerTable(1, []string{"Name", "Age"}, []string{"Alice", "30"})
	b := headerTable(2, []string{"Name", "Age"}, []string{"Bob", "40"})
	for i := range b.Cells {
		b.Cells[i].BBox.X1 *= 3
	}
	assert.False(t, shouldJoin(a, b, StitchMedium.tolerance()))
}

func TestMergeMetaPrefersFirstOnKeyCollision(t *testing.T) {
	first := map[string]any{"a": 1, "shared": "first"}
	second := map[string]any{"b": 2, "shared": "second"}
	merged := mergeMeta(first, second)
	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, 2, merged["b"])
	assert.Equal(t, "first", merged["shared"])
}

func TestUnionSortedPagesDeduplicatesAndSorts(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, unionSortedPages([]int{3, 1}, []int{1, 2}))
}
