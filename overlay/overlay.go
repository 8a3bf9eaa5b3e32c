// Package overlay renders a self-contained HTML/SVG visualization of a
// table's inferred cells over its source page, for diagnosing detector and
// grid-builder behavior.
package overlay

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-tabular/tabular"
)

// Options configures the overlay renderer.
type Options struct {
	// Detector names the detector that produced the table, for the legend.
	Detector string
	// Epsilon is the snapping tolerance used to build the table's grid, for the legend.
	Epsilon float64
	// Scale multiplies every coordinate, for zooming the rendered SVG.
	Scale float64
}

// Render returns a self-contained HTML document with an inline SVG overlay
// of t's cells. Cell rectangles and labels are y-flipped for display (page
// height minus y); the legend box is placed in display space.
func Render(t *tabular.Table, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1.0
	}

	width, height := pageDimensions(t)
	svgWidth := width * scale
	svgHeight := height * scale

	var elements strings.Builder
	for _, cell := range t.Cells {
		x0, y0, x1, y1 := cell.BBox.X0, cell.BBox.Y0, cell.BBox.X1, cell.BBox.Y1
		fmt.Fprintf(&elements,
			`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="rgba(0,128,255,0.15)" stroke="rgba(0,128,255,0.7)"/>`,
			x0*scale, (height-y1)*scale, (x1-x0)*scale, (y1-y0)*scale)
		fmt.Fprintf(&elements,
			`<text x="%.2f" y="%.2f" font-size="10" fill="#003366">%s</text>`,
			(x0+2)*scale, (height-y0-2)*scale, html.EscapeString(cell.Text))
	}

	legend := fmt.Sprintf(
		`<g transform="translate(10,%.2f)">`+
			`<rect width="260" height="50" fill="white" stroke="#999"/>`+
			`<text x="10" y="20" font-size="12">Detector: %s</text>`+
			`<text x="10" y="35" font-size="12">Cells: %d</text>`+
			`<text x="10" y="48" font-size="12">Epsilon: %.2f</text>`+
			`</g>`,
		svgHeight-60, html.EscapeString(opts.Detector), len(t.Cells), opts.Epsilon)

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.2f" height="%.2f" viewBox="0 0 %.2f %.2f">%s%s</svg>`,
		svgWidth, svgHeight, svgWidth, svgHeight, elements.String(), legend)

	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Table Overlay</title>" +
		"<style>body{background:#f9f9f9;font-family:monospace;}</style></head><body>" +
		svg + "</body></html>"
}

func pageDimensions(t *tabular.Table) (float64, float64) {
	if t.PageSize != nil {
		return t.PageSize[0], t.PageSize[1]
	}
	var maxX, maxY float64
	for _, c := range t.Cells {
		if c.BBox.X1 > maxX {
			maxX = c.BBox.X1
		}
		if c.BBox.Y1 > maxY {
			maxY = c.BBox.Y1
		}
	}
	return maxX, maxY
}
