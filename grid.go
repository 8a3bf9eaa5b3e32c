package tabular

import (
	"math"
	"sort"
	"strings"
)

// BuildGrid infers the row/column lattice for a region from its words and
// rulings, then buckets each word into the (row, col) it falls in.
func BuildGrid(words []Word, regionBBox BBox, rulings []BBox, epsilon float64) (*GridStructure, []CandidateCell) {
	rowCenters := make([]float64, len(words))
	colCenters := make([]float64, len(words))
	for i, w := range words {
		rowCenters[i] = w.BBox.CenterY()
		colCenters[i] = w.BBox.CenterX()
	}
	snappedRows := SnapValues(rowCenters, epsilon)
	snappedCols := SnapValues(colCenters, epsilon)

	rowEdges := CentersToEdges(snappedRows, regionBBox.Y0, regionBBox.Y1)
	colEdges := CentersToEdges(snappedCols, regionBBox.X0, regionBBox.X1)

	grid := newGridStructure(rowEdges, colEdges, epsilon)

	verticalLines, horizontalLines := classifyRulings(rulings)
	markBoundaries(grid, verticalLines, horizontalLines)

	candidates := bucketWords(grid, words, epsilon)
	return grid, candidates
}

// classifyRulings splits rulings into vertical and horizontal by comparing
// their horizontal and vertical extents; a tie resolves to vertical.
func classifyRulings(rulings []BBox) (vertical, horizontal []BBox) {
	for _, r := range rulings {
		width := math.Abs(r.X1 - r.X0)
		height := math.Abs(r.Y1 - r.Y0)
		if width <= height {
			vertical = append(vertical, r)
		} else {
			horizontal = append(horizontal, r)
		}
	}
	return
}

func markBoundaries(grid *GridStructure, verticalLines, horizontalLines []BBox) {
	nRows, nCols := grid.NRows(), grid.NCols()
	for r := 0; r < nRows; r++ {
		rowLow, rowHigh := grid.RowEdges[r], grid.RowEdges[r+1]
		for i := 1; i < nCols; i++ {
			x := grid.ColEdges[i]
			present := false
			for _, line := range verticalLines {
				if lineCoversVertical(line, x, rowLow, rowHigh, grid.Epsilon) {
					present = true
					break
				}
			}
			grid.setVerticalBoundary(r, i-1, present)
		}
	}
	for j := 1; j < nRows; j++ {
		y := grid.RowEdges[j]
		for c := 0; c < nCols; c++ {
			colLow, colHigh := grid.ColEdges[c], grid.ColEdges[c+1]
			present := false
			for _, line := range horizontalLines {
				if lineCoversHorizontal(line, y, colLow, colHigh, grid.Epsilon) {
					present = true
					break
				}
			}
			grid.setHorizontalBoundary(j-1, c, present)
		}
	}
}

func lineCoversVertical(line BBox, x, y0, y1, epsilon float64) bool {
	lx0, lx1 := math.Min(line.X0, line.X1), math.Max(line.X0, line.X1)
	if !(lx0-epsilon <= x && x <= lx1+epsilon) {
		return false
	}
	coverLow := math.Min(line.Y0, line.Y1) - epsilon
	coverHigh := math.Max(line.Y0, line.Y1) + epsilon
	return coverLow <= y0 && coverHigh >= y1
}

func lineCoversHorizontal(line BBox, y, x0, x1, epsilon float64) bool {
	ly0, ly1 := math.Min(line.Y0, line.Y1), math.Max(line.Y0, line.Y1)
	if !(ly0-epsilon <= y && y <= ly1+epsilon) {
		return false
	}
	coverLow := math.Min(line.X0, line.X1) - epsilon
	coverHigh := math.Max(line.X0, line.X1) + epsilon
	return coverLow <= x0 && coverHigh >= x1
}

type bucketKey struct{ row, col int }

type wordBucket struct {
	bbox    BBox
	hasBBox bool
	parts   []positionedText
}

type positionedText struct {
	centerX float64
	text    string
}

// bucketWords assigns each word to the (row, col) its center falls in and
// merges same-bucket words into one CandidateCell, preserving first-seen
// bucket order.
func bucketWords(grid *GridStructure, words []Word, epsilon float64) []CandidateCell {
	buckets := make(map[bucketKey]*wordBucket)
	var order []bucketKey

	for _, w := range words {
		cx, cy := w.BBox.CenterX(), w.BBox.CenterY()
		row := locateEdge(grid.RowEdges, cy, epsilon)
		col := locateEdge(grid.ColEdges, cx, epsilon)
		key := bucketKey{row, col}

		b, ok := buckets[key]
		if !ok {
			b = &wordBucket{}
			buckets[key] = b
			order = append(order, key)
		}
		if !b.hasBBox {
			b.bbox = w.BBox
			b.hasBBox = true
		} else {
			b.bbox = b.bbox.Union(w.BBox)
		}
		b.parts = append(b.parts, positionedText{centerX: cx, text: w.Text})
	}

	candidates := make([]CandidateCell, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sort.Slice(b.parts, func(i, j int) bool { return b.parts[i].centerX < b.parts[j].centerX })
		texts := make([]string, len(b.parts))
		for i, p := range b.parts {
			texts[i] = p.text
		}
		candidates = append(candidates, CandidateCell{
			Row:  key.row,
			Col:  key.col,
			Text: strings.TrimSpace(strings.Join(texts, " ")),
			BBox: b.bbox,
		})
	}
	return candidates
}

// locateEdge clamps value into [edges[0]-epsilon, edges[last]+epsilon] and
// returns the index of the interval containing it; ties pick the lower
// index. A correctly built grid always has such an interval — reaching the
// fallback indicates an invariant violation upstream, so it panics rather
// than silently returning a guessed midpoint.
func locateEdge(edges []float64, value, epsilon float64) int {
	if len(edges) < 2 {
		return 0
	}
	clamped := value
	if clamped < edges[0]-epsilon {
		clamped = edges[0] - epsilon
	}
	last := len(edges) - 1
	if clamped > edges[last]+epsilon {
		clamped = edges[last] + epsilon
	}
	for i := 0; i < last; i++ {
		if edges[i]-epsilon <= clamped && clamped <= edges[i+1]+epsilon {
			return i
		}
	}
	panic("tabular: locateEdge: clamped value fell outside every interval; grid invariant violated")
}
