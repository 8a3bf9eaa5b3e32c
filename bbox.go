package tabular

import (
	"math"

	"github.com/paulmach/orb"
)

// BBox is an axis-aligned rectangle in PDF points, with y growing downward
// from the page top (the overlay renderer flips this for SVG display only).
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox builds a BBox, normalizing corners so X0<=X1 and Y0<=Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func (b BBox) bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.X0, b.Y0}, Max: orb.Point{b.X1, b.Y1}}
}

func boundToBBox(bound orb.Bound) BBox {
	return BBox{bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y()}
}

// Width returns x1-x0.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns y1-y0.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal midpoint.
func (b BBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical midpoint.
func (b BBox) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Area returns the rectangle's area, clamped to zero for degenerate boxes.
func (b BBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w * h
}

// Expand grows the box by padding on every side.
func (b BBox) Expand(padding float64) BBox {
	return BBox{b.X0 - padding, b.Y0 - padding, b.X1 + padding, b.Y1 + padding}
}

// Intersects reports whether the two boxes share any area or edge.
func (b BBox) Intersects(o BBox) bool {
	return b.bound().Intersects(o.bound())
}

// Union returns the smallest box covering both b and o.
func (b BBox) Union(o BBox) BBox {
	return boundToBBox(b.bound().Union(o.bound()))
}

// intersection returns the overlapping rectangle of b and o, if any.
func (b BBox) intersection(o BBox) (BBox, bool) {
	x0 := math.Max(b.X0, o.X0)
	y0 := math.Max(b.Y0, o.Y0)
	x1 := math.Min(b.X1, o.X1)
	y1 := math.Min(b.Y1, o.Y1)
	if x1 <= x0 || y1 <= y0 {
		return BBox{}, false
	}
	return BBox{x0, y0, x1, y1}, true
}

// MergeBoxes returns the axis-aligned union of every box, regardless of
// whether they are contiguous — matching a union's overall envelope.
func MergeBoxes(boxes []BBox) BBox {
	if len(boxes) == 0 {
		return BBox{}
	}
	result := boxes[0]
	for _, b := range boxes[1:] {
		result = result.Union(b)
	}
	return result
}

// IoU returns the intersection-over-union of two boxes, or 0 if they don't overlap.
func IoU(a, b BBox) float64 {
	inter, ok := a.intersection(b)
	if !ok {
		return 0
	}
	interArea := inter.Area()
	unionArea := a.Area() + b.Area() - interArea
	if unionArea == 0 {
		return 0
	}
	return interArea / unionArea
}
