package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterBoxesGroupsOverlapping(t *testing.T) {
	boxes := []BBox{
		NewBBox(0, 0, 10, 10),
		NewBBox(5, 5, 15, 15),
		NewBBox(100, 100, 110, 110),
	}
	clusters := clusterBoxes(boxes)
	assert.Len(t, clusters, 2)

	var sizes []int
	for _, c := range clusters {
		sizes = append(sizes, len(c))
	}
	assert.ElementsMatch(t, []int{2, 1}, sizes)
}

func TestClusterBoxesEmpty(t *testing.T) {
	assert.Empty(t, clusterBoxes(nil))
}

func TestToPageSet(t *testing.T) {
	assert.Nil(t, toPageSet(nil))
	set := toPageSet([]int{1, 3, 3})
	assert.Len(t, set, 2)
	_, ok := set[3]
	assert.True(t, ok)
}

func TestNewRegistryPreregistersPlumber(t *testing.T) {
	r := NewRegistry()
	d, err := r.Get("plumber")
	assert.NoError(t, err)
	assert.Equal(t, "plumber", d.Name())
}

func TestRegistryGetUnknownDetector(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	assert.Error(t, err)
	var notFound *DetectorNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

type versionedPlumber struct{ plumberDetector }

func (versionedPlumber) Version() string { return "2.0" }

func TestRegistryRegisterOverridesByName(t *testing.T) {
	r := NewRegistry()
	r.Register(versionedPlumber{})
	d, err := r.Get("plumber")
	assert.NoError(t, err)
	assert.Equal(t, "2.0", d.Version())
}

func TestDetectPageRegionsEmptyPageYieldsNoRegions(t *testing.T) {
	regions := detectPageRegions(1, PageData{Width: 100, Height: 100})
	assert.Empty(t, regions)
}

func TestDetectPageRegionsClustersNearbyGlyphs(t *testing.T) {
	page := PageData{
		Width:  200,
		Height: 200,
		Glyphs: []Glyph{
			glyph(0, 0, 8, 10, "A"),
			glyph(8, 0, 16, 10, "B"),
			glyph(150, 150, 158, 160, "Z"),
		},
	}
	regions := detectPageRegions(1, page)
	assert.Len(t, regions, 2)
	for _, r := range regions {
		assert.Equal(t, 1, r.Page)
		assert.Equal(t, 0.8, r.Confidence)
	}
}
