package tabular

import (
	"math"
	"sort"
	"strings"
)

// StitchAggressiveness tunes how readily adjacent tables are joined across
// a page break.
type StitchAggressiveness int

const (
	StitchLow StitchAggressiveness = iota
	StitchMedium
	StitchHigh
)

// ParseStitchAggressiveness parses a configuration string, falling back to
// StitchMedium for anything unrecognized.
func ParseStitchAggressiveness(s string) StitchAggressiveness {
	switch s {
	case "low":
		return StitchLow
	case "high":
		return StitchHigh
	default:
		return StitchMedium
	}
}

func (a StitchAggressiveness) tolerance() float64 {
	switch a {
	case StitchLow:
		return 0.01
	case StitchHigh:
		return 0.025
	default:
		return 0.015
	}
}

// StitchTables sorts tables by (min(pages), pages) and folds left, merging
// each table into its predecessor whenever shouldJoin holds.
func StitchTables(tables []Table, aggressiveness StitchAggressiveness) []Table {
	if len(tables) == 0 {
		return nil
	}
	tolerance := aggressiveness.tolerance()

	ordered := make([]Table, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		return tableSortKeyLess(ordered[i], ordered[j])
	})

	stitched := make([]Table, 0, len(ordered))
	for _, t := range ordered {
		t.SortCells()
		if len(stitched) == 0 {
			stitched = append(stitched, t)
			continue
		}
		last := stitched[len(stitched)-1]
		if shouldJoin(last, t, tolerance) {
			stitched[len(stitched)-1] = mergeTables(last, t)
		} else {
			stitched = append(stitched, t)
		}
	}
	return stitched
}

// tableSortKeyLess orders by (min(pages), pages) with pages compared
// element-wise, a stable total order over the mixed int/tuple sort key.
func tableSortKeyLess(a, b Table) bool {
	aMin, bMin := minPage(a.Pages), minPage(b.Pages)
	if aMin != bMin {
		return aMin < bMin
	}
	return comparePages(a.Pages, b.Pages) < 0
}

func minPage(pages []int) int {
	if len(pages) == 0 {
		return 0
	}
	m := pages[0]
	for _, p := range pages[1:] {
		if p < m {
			m = p
		}
	}
	return m
}

func comparePages(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

func shouldJoin(first, second Table, tolerance float64) bool {
	if first.NCols != second.NCols {
		return false
	}
	widthA, widthB := tableWidth(first), tableWidth(second)
	if widthA <= 0 || widthB <= 0 {
		return false
	}
	maxWidth := math.Max(widthA, widthB)
	if math.Abs(widthA-widthB)/maxWidth > tolerance {
		return false
	}
	return rowSignatureEqual(rowSignature(first, 0), rowSignature(second, 0))
}

func tableWidth(t Table) float64 {
	if len(t.Cells) == 0 {
		return 0
	}
	x0, x1 := t.Cells[0].BBox.X0, t.Cells[0].BBox.X1
	for _, c := range t.Cells[1:] {
		if c.BBox.X0 < x0 {
			x0 = c.BBox.X0
		}
		if c.BBox.X1 > x1 {
			x1 = c.BBox.X1
		}
	}
	return x1 - x0
}

func rowSignature(t Table, row int) []string {
	var rowCells []Cell
	for _, c := range t.Cells {
		if c.Row == row {
			rowCells = append(rowCells, c)
		}
	}
	sort.Slice(rowCells, func(i, j int) bool { return rowCells[i].Col < rowCells[j].Col })
	sig := make([]string, len(rowCells))
	for i, c := range rowCells {
		sig[i] = strings.TrimSpace(c.Text)
	}
	return sig
}

func rowSignatureEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeTables joins B onto A, dropping B's row 0 when it repeats A's header.
func mergeTables(first, second Table) Table {
	dropRows := 0
	if rowSignatureEqual(rowSignature(first, 0), rowSignature(second, 0)) {
		dropRows = 1
	}
	offset := first.NRows

	cells := make([]Cell, len(first.Cells), len(first.Cells)+len(second.Cells))
	copy(cells, first.Cells)
	for _, c := range second.Cells {
		if c.Row < dropRows {
			continue
		}
		shifted := c
		shifted.Row = c.Row - dropRows + offset
		cells = append(cells, shifted)
	}

	merged := Table{
		Pages:      unionSortedPages(first.Pages, second.Pages),
		Cells:      cells,
		NRows:      first.NRows + second.NRows - dropRows,
		NCols:      first.NCols,
		Title:      firstNonNilTitle(first.Title, second.Title),
		Confidence: math.Min(first.Confidence, second.Confidence),
		Meta:       mergeMeta(first.Meta, second.Meta),
		Units:      first.Units,
		PageSize:   firstNonNilPageSize(first.PageSize, second.PageSize),
	}
	merged.SortCells()
	return merged
}

func unionSortedPages(a, b []int) []int {
	set := make(map[int]struct{}, len(a)+len(b))
	for _, p := range a {
		set[p] = struct{}{}
	}
	for _, p := range b {
		set[p] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func firstNonNilTitle(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func firstNonNilPageSize(a, b *[2]float64) *[2]float64 {
	if a != nil {
		return a
	}
	return b
}

func mergeMeta(first, second map[string]any) map[string]any {
	merged := make(map[string]any, len(first)+len(second))
	for k, v := range second {
		merged[k] = v
	}
	for k, v := range first {
		merged[k] = v
	}
	return merged
}
