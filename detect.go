package tabular

import "sync"

// Source is the PDF reader collaborator the core pipeline depends on.
// pdfsource.Reader is the production implementation, backed by go-pdfium.
type Source interface {
	PageCount(path string) (int, error)
	Page(path string, index int) (PageData, error)
}

// PageData is everything the core needs from one page of a PDF document.
// Coordinates are in points, origin at the page's top-left, y increasing
// downward, exactly as declared (rotation is corrected once, by the
// orchestrator, not by the Source).
type PageData struct {
	Width, Height   float64
	RotationDegrees float64
	Glyphs          []Glyph
	Rulings         []BBox
}

// Detector proposes candidate table regions from a document's pages.
type Detector interface {
	Name() string
	Version() string
	Detect(source Source, path string, pages []int) ([]DetectedRegion, error)
}

// DetectorRegistry is a process-wide, concurrency-safe, memoizing map from
// detector name to instance. Registration is explicit Go code, never
// reflection-based plugin discovery.
type DetectorRegistry struct {
	mu        sync.RWMutex
	detectors map[string]Detector
}

// NewRegistry builds a registry pre-populated with the built-in "plumber" detector.
func NewRegistry() *DetectorRegistry {
	r := &DetectorRegistry{detectors: make(map[string]Detector)}
	r.Register(NewPlumberDetector())
	return r
}

// Register adds or replaces a detector under its own Name().
func (r *DetectorRegistry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors[d.Name()] = d
}

// Get returns the detector registered under name, or a DetectorNotFoundError.
func (r *DetectorRegistry) Get(name string) (Detector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.detectors[name]
	if !ok {
		return nil, &DetectorNotFoundError{Name: name}
	}
	return d, nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when
// ExtractOptions.Registry is nil.
func DefaultRegistry() *DetectorRegistry {
	return defaultRegistry
}

// plumberDetector clusters expanded glyph boxes into connected regions, the
// way a human eye groups nearby text into a table block before any ruling
// is consulted.
type plumberDetector struct{}

// NewPlumberDetector returns the reference detector implementation.
func NewPlumberDetector() Detector { return plumberDetector{} }

func (plumberDetector) Name() string    { return "plumber" }
func (plumberDetector) Version() string { return "1.0" }

func (d plumberDetector) Detect(source Source, path string, pages []int) ([]DetectedRegion, error) {
	pageCount, err := source.PageCount(path)
	if err != nil {
		return nil, err
	}
	selected := toPageSet(pages)

	var regions []DetectedRegion
	for index := 1; index <= pageCount; index++ {
		if selected != nil {
			if _, ok := selected[index]; !ok {
				continue
			}
		}
		page, err := source.Page(path, index-1)
		if err != nil {
			return nil, err
		}
		regions = append(regions, detectPageRegions(index, page)...)
	}
	return regions, nil
}

func detectPageRegions(pageNumber int, page PageData) []DetectedRegion {
	if len(page.Glyphs) == 0 {
		return nil
	}

	angles := make([]float64, len(page.Glyphs))
	sizes := make([]float64, len(page.Glyphs))
	for i, g := range page.Glyphs {
		angles[i] = g.Angle
		sizes[i] = g.Size
	}
	rot := RotationFromChars(angles, page.Width, page.Height)
	padding := SnapEpsilon(sizes) * 1.5

	expanded := make([]BBox, len(page.Glyphs))
	for i, g := range page.Glyphs {
		expanded[i] = g.BBox.Expand(padding)
	}

	var regions []DetectedRegion
	for _, cluster := range clusterBoxes(expanded) {
		clusterBoxes := make([]BBox, len(cluster))
		for i, idx := range cluster {
			clusterBoxes[i] = expanded[idx]
		}
		roughBBox := MergeBoxes(clusterBoxes)

		var regionGlyphBoxes []BBox
		for _, g := range page.Glyphs {
			if g.BBox.Intersects(roughBBox) {
				regionGlyphBoxes = append(regionGlyphBoxes, g.BBox)
			}
		}
		finalBBox := roughBBox
		if len(regionGlyphBoxes) > 0 {
			finalBBox = MergeBoxes(regionGlyphBoxes)
		}
		finalBBox = finalBBox.Expand(padding * 0.3)

		var regionRulings []BBox
		for _, ruling := range page.Rulings {
			normalized := rot.UnrotateBBox(ruling)
			if normalized.Intersects(finalBBox) {
				regionRulings = append(regionRulings, normalized)
			}
		}

		regions = append(regions, DetectedRegion{
			Page:            pageNumber,
			BBox:            finalBBox,
			Rulings:         regionRulings,
			GlyphBoxes:      regionGlyphBoxes,
			Confidence:      0.8,
			DetectorVersion: "1.0",
		})
	}
	return regions
}

// clusterBoxes groups boxes into connected components under pairwise
// intersection, the discrete analogue of taking a union's connected polygons.
func clusterBoxes(boxes []BBox) [][]int {
	n := len(boxes)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if boxes[i].Intersects(boxes[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], i)
	}
	clusters := make([][]int, len(order))
	for i, root := range order {
		clusters[i] = groups[root]
	}
	return clusters
}

func toPageSet(pages []int) map[int]struct{} {
	if len(pages) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	return set
}
