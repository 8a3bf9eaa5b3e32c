package tabular

import (
	"strings"
)

type gridPos struct{ row, col int }

// ApplyMerges walks the grid row-major, expanding each candidate cell into
// its full row/column span and emitting unit cells for buckets with no
// candidate text.
func ApplyMerges(grid *GridStructure, candidates []CandidateCell) []Cell {
	candidateMap := make(map[gridPos]CandidateCell, len(candidates))
	for _, c := range candidates {
		candidateMap[gridPos{c.Row, c.Col}] = c
	}

	hasVLines := grid.HasVerticalLines()
	hasHLines := grid.HasHorizontalLines()

	nRows, nCols := grid.NRows(), grid.NCols()
	consumed := make([][]bool, nRows)
	for i := range consumed {
		consumed[i] = make([]bool, nCols)
	}

	cells := make([]Cell, 0, nRows*nCols)

	for row := 0; row < nRows; row++ {
		for col := 0; col < nCols; col++ {
			if consumed[row][col] {
				continue
			}
			candidate, hasCandidate := candidateMap[gridPos{row, col}]

			var text string
			var bbox BBox
			var rowStart, rowEnd, colStart, colEnd int

			if hasCandidate {
				text = candidate.Text
				colStart, colEnd = expandColumns(grid, candidateMap, candidate, hasVLines)
				rowStart, rowEnd = expandRows(grid, candidateMap, candidate, colStart, colEnd, hasHLines)
				bbox = grid.CellBBox(rowStart, colStart).Union(grid.CellBBox(rowEnd, colEnd)).Union(candidate.BBox)
			} else {
				rowStart, rowEnd, colStart, colEnd = row, row, col, col
				bbox = grid.CellBBox(row, col)
			}

			for r := rowStart; r <= rowEnd; r++ {
				for c := colStart; c <= colEnd; c++ {
					consumed[r][c] = true
				}
			}

			cells = append(cells, Cell{
				Text:       text,
				BBox:       bbox,
				Row:        rowStart,
				Col:        colStart,
				RowSpan:    rowEnd - rowStart + 1,
				ColSpan:    colEnd - colStart + 1,
				Confidence: 1.0,
			})
		}
	}
	return cells
}

// expandColumns grows candidate X's column span left and right across its
// own row, gated by rulings where present and by text overrun otherwise;
// a non-empty neighbor always blocks expansion.
func expandColumns(grid *GridStructure, candidateMap map[gridPos]CandidateCell, candidate CandidateCell, hasVerticalLines bool) (int, int) {
	row := candidate.Row
	colStart, colEnd := candidate.Col, candidate.Col

	for colStart > 0 {
		boundaryIndex := colStart - 1
		boundaryPresent := grid.VerticalBoundary(row, boundaryIndex)
		reaches := candidate.BBox.X0 <= grid.ColEdges[colStart]+grid.Epsilon
		if boundaryPresent && !reaches {
			break
		}
		if !hasVerticalLines && !reaches {
			break
		}
		if neighborNonEmpty(candidateMap, row, row, colStart-1, colStart-1) {
			break
		}
		colStart--
	}

	for colEnd+1 < grid.NCols() {
		boundaryIndex := colEnd
		boundaryPresent := grid.VerticalBoundary(row, boundaryIndex)
		reaches := candidate.BBox.X1 >= grid.ColEdges[colEnd+1]-grid.Epsilon
		if boundaryPresent && !reaches {
			break
		}
		if !hasVerticalLines && !reaches {
			break
		}
		if neighborNonEmpty(candidateMap, row, row, colEnd+1, colEnd+1) {
			break
		}
		colEnd++
	}
	return colStart, colEnd
}

// expandRows grows candidate X's row span up and down across the already
// resolved [colStart, colEnd] range.
func expandRows(grid *GridStructure, candidateMap map[gridPos]CandidateCell, candidate CandidateCell, colStart, colEnd int, hasHorizontalLines bool) (int, int) {
	rowStart, rowEnd := candidate.Row, candidate.Row

	for rowStart > 0 {
		boundaryIndex := rowStart - 1
		boundaryPresent := anyHorizontalBoundary(grid, boundaryIndex, colStart, colEnd)
		reaches := candidate.BBox.Y0 <= grid.RowEdges[rowStart]+grid.Epsilon
		if boundaryPresent && !reaches {
			break
		}
		if !hasHorizontalLines && !reaches {
			break
		}
		if neighborNonEmpty(candidateMap, rowStart-1, rowStart-1, colStart, colEnd) {
			break
		}
		rowStart--
	}

	for rowEnd+1 < grid.NRows() {
		boundaryIndex := rowEnd
		boundaryPresent := anyHorizontalBoundary(grid, boundaryIndex, colStart, colEnd)
		reaches := candidate.BBox.Y1 >= grid.RowEdges[rowEnd+1]-grid.Epsilon
		if boundaryPresent && !reaches {
			break
		}
		if !hasHorizontalLines && !reaches {
			break
		}
		if neighborNonEmpty(candidateMap, rowEnd+1, rowEnd+1, colStart, colEnd) {
			break
		}
		rowEnd++
	}
	return rowStart, rowEnd
}

func anyHorizontalBoundary(grid *GridStructure, boundaryIndex, colStart, colEnd int) bool {
	for c := colStart; c <= colEnd; c++ {
		if grid.HorizontalBoundary(boundaryIndex, c) {
			return true
		}
	}
	return false
}

func neighborNonEmpty(candidateMap map[gridPos]CandidateCell, rowLo, rowHi, colLo, colHi int) bool {
	for r := rowLo; r <= rowHi; r++ {
		for c := colLo; c <= colHi; c++ {
			if cand, ok := candidateMap[gridPos{r, c}]; ok && strings.TrimSpace(cand.Text) != "" {
				return true
			}
		}
	}
	return false
}
