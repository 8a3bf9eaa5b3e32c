package tabular

import (
	"math"
	"sort"
)

// SnapEpsilon derives an adaptive snapping tolerance from a set of glyph or
// word heights. Tolerance scales with typography but never collapses to
// zero for a page of uniform font size.
func SnapEpsilon(heights []float64) float64 {
	if len(heights) == 0 {
		return 1.0
	}
	median := medianOf(heights)
	mad := medianAbsoluteDeviation(heights, median)
	if mad == 0 {
		mad = median * 0.1
	}
	return math.Max(0.5, mad*0.8)
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func medianAbsoluteDeviation(values []float64, median float64) float64 {
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	return medianOf(deviations)
}

// SnapValues sorts values ascending and fuses any run of neighbors within
// epsilon into their running mean, producing a sorted slice where
// consecutive elements differ by more than epsilon.
func SnapValues(values []float64, epsilon float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	snapped := []float64{sorted[0]}
	for _, v := range sorted[1:] {
		last := snapped[len(snapped)-1]
		if math.Abs(v-last) <= epsilon {
			snapped[len(snapped)-1] = (last + v) / 2
		} else {
			snapped = append(snapped, v)
		}
	}
	return snapped
}

// CentersToEdges brackets a sorted list of centers with lo/hi and inserts a
// midpoint between each consecutive pair, producing len(centers)+1 edges
// (or [lo, hi] when centers is empty).
func CentersToEdges(centers []float64, lo, hi float64) []float64 {
	if len(centers) == 0 {
		return []float64{lo, hi}
	}
	sorted := append([]float64(nil), centers...)
	sort.Float64s(sorted)
	edges := make([]float64, 0, len(sorted)+2)
	edges = append(edges, lo)
	for i := 0; i+1 < len(sorted); i++ {
		edges = append(edges, (sorted[i]+sorted[i+1])/2)
	}
	edges = append(edges, hi)
	return edges
}

// RotatedPage is a page rotation bucketed to a multiple of 90 degrees, used to
// translate glyph and ruling geometry back into canonical orientation.
type RotatedPage struct {
	AngleRadians  float64
	Width, Height float64
}

var rotationBuckets = [4]float64{0, 90, 180, 270}

// RotationFromChars buckets every angle to the nearest multiple of 90 degrees
// by minimum circular distance and takes the dominant bucket as the page's
// rotation.
func RotationFromChars(angles []float64, width, height float64) RotatedPage {
	counts := map[float64]int{0: 0, 90: 0, 180: 0, 270: 0}
	for _, a := range angles {
		counts[nearestBucket(a)]++
	}
	dominant := 0.0
	best := -1
	for _, bucket := range rotationBuckets {
		if counts[bucket] > best {
			best = counts[bucket]
			dominant = bucket
		}
	}
	return RotatedPage{AngleRadians: dominant * math.Pi / 180, Width: width, Height: height}
}

func nearestBucket(angle float64) float64 {
	normalized := math.Mod(angle, 360)
	if normalized < 0 {
		normalized += 360
	}
	best := rotationBuckets[0]
	bestDist := circularDistance(normalized, best)
	for _, bucket := range rotationBuckets[1:] {
		d := circularDistance(normalized, bucket)
		if d < bestDist {
			bestDist = d
			best = bucket
		}
	}
	return best
}

func circularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// quadrant returns how many quarter-turns this rotation represents, in [0,4).
func (p RotatedPage) quadrant() int {
	degrees := p.AngleRadians * 180 / math.Pi
	q := int(math.Round(degrees/90)) % 4
	if q < 0 {
		q += 4
	}
	return q
}

// UnrotatePoint maps a point back to canonical orientation about the page
// center. The angle is always a multiple of pi/2, so this is axis swaps and
// sign flips rather than a general trig transform.
func (p RotatedPage) UnrotatePoint(x, y float64) (float64, float64) {
	q := p.quadrant()
	if q == 0 {
		return x, y
	}
	cx, cy := p.Width/2, p.Height/2
	x0, y0 := x-cx, y-cy
	var xr, yr float64
	switch q {
	case 1:
		xr, yr = y0, -x0
	case 2:
		xr, yr = -x0, -y0
	case 3:
		xr, yr = -y0, x0
	}
	return xr + cx, yr + cy
}

// UnrotateBBox maps a box back to canonical orientation, re-deriving a valid
// axis-aligned box from the rotated corners.
func (p RotatedPage) UnrotateBBox(b BBox) BBox {
	if p.quadrant() == 0 {
		return b
	}
	x0, y0 := p.UnrotatePoint(b.X0, b.Y0)
	x1, y1 := p.UnrotatePoint(b.X0, b.Y1)
	x2, y2 := p.UnrotatePoint(b.X1, b.Y0)
	x3, y3 := p.UnrotatePoint(b.X1, b.Y1)
	xs := [4]float64{x0, x1, x2, x3}
	ys := [4]float64{y0, y1, y2, y3}
	return NewBBox(minOf(xs[:]), minOf(ys[:]), maxOf(xs[:]), maxOf(ys[:]))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
