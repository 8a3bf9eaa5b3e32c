package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapEpsilonEmpty(t *testing.T) {
	assert.Equal(t, 1.0, SnapEpsilon(nil))
}

func TestSnapEpsilonUniformHeights(t *testing.T) {
	eps := SnapEpsilon([]float64{10, 10, 10, 10})
	assert.Equal(t, 0.8, eps, "zero MAD should fall back to a fraction of the median")
}

func TestSnapEpsilonScalesWithSpread(t *testing.T) {
	tight := SnapEpsilon([]float64{10, 10, 10.1, 9.9})
	wide := SnapEpsilon([]float64{10, 14, 6, 18})
	assert.Less(t, tight, wide)
}

func TestSnapValuesFusesNeighbors(t *testing.T) {
	out := SnapValues([]float64{1.0, 1.02, 5.0, 5.01, 9.0}, 0.05)
	assert.Len(t, out, 3)
	assert.InDelta(t, 1.01, out[0], 1e-9)
	assert.InDelta(t, 5.005, out[1], 1e-9)
	assert.InDelta(t, 9.0, out[2], 1e-9)
}

func TestSnapValuesEmpty(t *testing.T) {
	assert.Nil(t, SnapValues(nil, 0.1))
}

func TestSnapValuesNoFusionWhenFarApart(t *testing.T) {
	out := SnapValues([]float64{1, 10, 100}, 0.5)
	assert.Equal(t, []float64{1, 10, 100}, out)
}

func TestCentersToEdgesEmpty(t *testing.T) {
	assert.Equal(t, []float64{0, 100}, CentersToEdges(nil, 0, 100))
}

func TestCentersToEdgesInsertsMidpoints(t *testing.T) {
	edges := CentersToEdges([]float64{10, 30, 50}, 0, 60)
	assert.Equal(t, []float64{0, 20, 40, 60}, edges)
}

func TestRotationFromCharsPicksDominantBucket(t *testing.T) {
	angles := []float64{88, 91, 90, 89, 270}
	rot := RotationFromChars(angles, 100, 200)
	assert.InDelta(t, 90.0, rot.AngleRadians*180/3.14159265358979, 1e-6)
}

func TestRotationFromCharsNoRotation(t *testing.T) {
	rot := RotationFromChars([]float64{0, 1, -1, 0}, 100, 200)
	assert.Equal(t, 0.0, rot.AngleRadians)
}

func TestUnrotatePointIdentityAtZero(t *testing.T) {
	rot := RotatedPage{AngleRadians: 0, Width: 100, Height: 200}
	x, y := rot.UnrotatePoint(12, 34)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 34.0, y)
}

func TestUnrotatePointNinetyDegrees(t *testing.T) {
	rot := RotatedPage{AngleRadians: 3.14159265358979 / 2, Width: 100, Height: 200}
	cx, cy := rot.Width/2, rot.Height/2
	x, y := rot.UnrotatePoint(cx, cy)
	assert.InDelta(t, cx, x, 1e-9)
	assert.InDelta(t, cy, y, 1e-9)
}

func TestUnrotateBBoxIdentityAtZero(t *testing.T) {
	rot := RotatedPage{AngleRadians: 0, Width: 100, Height: 200}
	b := NewBBox(1, 2, 3, 4)
	assert.Equal(t, b, rot.UnrotateBBox(b))
}

func TestUnrotateBBoxStaysAxisAligned(t *testing.T) {
	rot := RotatedPage{AngleRadians: 3.14159265358979 / 2, Width: 100, Height: 100}
	b := NewBBox(10, 10, 20, 30)
	out := rot.UnrotateBBox(b)
	assert.LessOrEqual(t, out.X0, out.X1)
	assert.LessOrEqual(t, out.Y0, out.Y1)
}
