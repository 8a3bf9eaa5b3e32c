package tabular

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/go-tabular/tabular/internal/tlog"
)

// ExtractOptions configures a single Extract call.
type ExtractOptions struct {
	// Source is the PDF reader collaborator; production callers should pass
	// a pdfsource.NewReader(...).
	Source Source
	// Pages restricts detection to these 1-based page numbers; nil means all.
	Pages []int
	// Detector selects the detector by nil (default "plumber"), string name,
	// or a Detector value to use directly without going through a registry.
	Detector any
	// StitchAggressiveness tunes cross-page table joining.
	StitchAggressiveness StitchAggressiveness
	// Registry overrides the default process-wide detector registry.
	Registry *DetectorRegistry
}

// Extract runs the full geometry -> grid -> merge -> stitch pipeline over a
// document and returns every table found.
func Extract(path string, opts ExtractOptions) (*DocResult, error) {
	started := time.Now()
	if opts.Source == nil {
		return nil, errors.New("tabular: ExtractOptions.Source is required")
	}

	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	detector, err := resolveDetector(registry, opts.Detector)
	if err != nil {
		return nil, errors.Wrap(err, "resolve detector")
	}

	source := &canonicalSource{inner: opts.Source}
	pageFilter := normalizePages(opts.Pages)

	regions, err := detector.Detect(source, path, pageFilter)
	if err != nil {
		return nil, &DetectorError{Detector: detector.Name(), Cause: err}
	}
	tlog.Debug.Printf("detector %q proposed %d region(s)", detector.Name(), len(regions))

	pageCount, err := source.PageCount(path)
	if err != nil {
		return nil, errors.Wrap(err, "get page count")
	}

	var tables []Table
	var warnings []string

	pageCache := make(map[int]PageData)
	wordCache := make(map[int][]Word)

	for _, region := range regions {
		pageIndex := region.Page - 1
		if pageIndex < 0 || pageIndex >= pageCount {
			warnings = append(warnings, fmt.Sprintf("region on page %d is out of bounds", region.Page))
			continue
		}

		page, ok := pageCache[pageIndex]
		if !ok {
			page, err = source.Page(path, pageIndex)
			if err != nil {
				return nil, errors.Wrapf(err, "read page %d", region.Page)
			}
			pageCache[pageIndex] = page
			wordCache[pageIndex] = GroupGlyphsIntoWords(page.Glyphs)
		}
		words := wordCache[pageIndex]

		regionWords := wordsOverlapping(words, region.BBox)
		if len(regionWords) == 0 {
			warnings = append(warnings, fmt.Sprintf("region on page %d has no words", region.Page))
		}

		heights := make([]float64, 0, len(regionWords))
		for _, w := range regionWords {
			heights = append(heights, w.BBox.Height())
		}
		epsilon := SnapEpsilon(heights)

		grid, candidates := BuildGrid(regionWords, region.BBox, region.Rulings, epsilon)
		cells := ApplyMerges(grid, candidates)
		for i := range cells {
			cells[i].Confidence = region.Confidence
		}

		pageSize := [2]float64{page.Width, page.Height}
		table := Table{
			Pages:      []int{region.Page},
			Cells:      cells,
			NRows:      grid.NRows(),
			NCols:      grid.NCols(),
			Confidence: region.Confidence,
			Meta: map[string]any{
				"detector_version": region.DetectorVersion,
				"epsilon":          epsilon,
			},
			Units:    "pt",
			PageSize: &pageSize,
		}
		table.SortCells()
		tables = append(tables, table)

		tlog.Debug.Printf("page %d: region -> %dx%d grid, %d cell(s), epsilon=%.3f",
			region.Page, grid.NRows(), grid.NCols(), len(cells), epsilon)
	}

	stitched := StitchTables(tables, opts.StitchAggressiveness)

	stats := map[string]any{
		"detector":     detector.Name(),
		"regions":      len(regions),
		"raw_tables":   len(tables),
		"tables":       len(stitched),
		"warnings":     len(warnings),
		"elapsed_ms":   time.Since(started).Milliseconds(),
	}
	tlog.Stats.Printf("extract %s: %d region(s) -> %d table(s) in %dms",
		path, len(regions), len(stitched), time.Since(started).Milliseconds())

	return &DocResult{Tables: stitched, Stats: stats, Warnings: warnings}, nil
}

func resolveDetector(registry *DetectorRegistry, detector any) (Detector, error) {
	switch v := detector.(type) {
	case nil:
		return registry.Get("plumber")
	case string:
		return registry.Get(v)
	case Detector:
		return v, nil
	default:
		return nil, &ConfigError{Field: "detector", Value: fmt.Sprintf("%v", detector)}
	}
}

func normalizePages(pages []int) []int {
	if len(pages) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func wordsOverlapping(words []Word, region BBox) []Word {
	var out []Word
	for _, w := range words {
		if w.BBox.Intersects(region) {
			out = append(out, w)
		}
	}
	return out
}

// canonicalSource wraps a Source so every page's glyphs and rulings are
// rotated into canonical orientation exactly once, immediately on load, per
// the design rule that rotation correction must never be re-applied
// downstream. The rotation used is the same char-angle-derived bucket the
// detector itself would infer, so a region's geometry and the orchestrator's
// later re-read of the same page always agree.
type canonicalSource struct {
	inner Source
}

func (c *canonicalSource) PageCount(path string) (int, error) {
	return c.inner.PageCount(path)
}

func (c *canonicalSource) Page(path string, index int) (PageData, error) {
	page, err := c.inner.Page(path, index)
	if err != nil {
		return PageData{}, err
	}
	if len(page.Glyphs) == 0 {
		return page, nil
	}

	angles := make([]float64, len(page.Glyphs))
	for i, g := range page.Glyphs {
		angles[i] = g.Angle
	}
	rot := RotationFromChars(angles, page.Width, page.Height)
	bucketDegrees := rot.AngleRadians * 180 / math.Pi

	canonicalGlyphs := make([]Glyph, len(page.Glyphs))
	for i, g := range page.Glyphs {
		canonicalGlyphs[i] = Glyph{
			BBox:  rot.UnrotateBBox(g.BBox),
			Text:  g.Text,
			Size:  g.Size,
			Angle: g.Angle - bucketDegrees,
		}
	}
	canonicalRulings := make([]BBox, len(page.Rulings))
	for i, r := range page.Rulings {
		canonicalRulings[i] = rot.UnrotateBBox(r)
	}

	page.Glyphs = canonicalGlyphs
	page.Rulings = canonicalRulings
	return page, nil
}
