// Package pdfsource is the production tabular.Source implementation, backed
// by go-pdfium. It adapts pdfium's per-character and per-path-object API
// into the flat glyph/ruling contract the core extraction pipeline expects.
package pdfsource

import (
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"

	"github.com/go-tabular/tabular"
)

// Reader implements tabular.Source on top of a pooled pdfium instance.
type Reader struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
	timeout  time.Duration
}

// NewReader starts a single-instance webassembly pdfium pool and returns a
// Reader bound to it. Callers must call Close when finished.
func NewReader() (*Reader, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initialise pdfium")
	}

	timeout := 30 * time.Second
	instance, err := pool.GetInstance(timeout)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "get pdfium instance")
	}

	return &Reader{pool: pool, instance: instance, timeout: timeout}, nil
}

// Close releases the pdfium instance pool.
func (r *Reader) Close() error {
	return r.pool.Close()
}

// PageCount implements tabular.Source.
func (r *Reader) PageCount(path string) (int, error) {
	doc, err := r.openDocument(path)
	if err != nil {
		return 0, err
	}
	defer r.closeDocument(doc)

	count, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc,
	})
	if err != nil {
		return 0, errors.Wrap(err, "get page count")
	}
	return count.PageCount, nil
}

// Page implements tabular.Source, returning one page's glyphs and rulings in
// canonical top-left-origin point coordinates.
func (r *Reader) Page(path string, index int) (tabular.PageData, error) {
	doc, err := r.openDocument(path)
	if err != nil {
		return tabular.PageData{}, err
	}
	defer r.closeDocument(doc)

	pageResp, err := r.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: doc,
		Index:    index,
	})
	if err != nil {
		return tabular.PageData{}, errors.Wrapf(err, "load page %d", index)
	}
	page := pageResp.Page
	defer r.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: page})

	widthResp, err := r.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return tabular.PageData{}, errors.Wrap(err, "get page width")
	}
	heightResp, err := r.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return tabular.PageData{}, errors.Wrap(err, "get page height")
	}
	width := float64(widthResp.PageWidth)
	height := float64(heightResp.PageHeight)

	rotationDegrees := r.pageRotationDegrees(page)

	glyphs, err := r.extractGlyphs(page, height)
	if err != nil {
		return tabular.PageData{}, errors.Wrap(err, "extract glyphs")
	}

	rulings, err := r.extractRulings(page, height)
	if err != nil {
		// Non-fatal: a page with unreadable vector objects still yields text.
		rulings = nil
	}

	return tabular.PageData{
		Width:           width,
		Height:          height,
		RotationDegrees: rotationDegrees,
		Glyphs:          glyphs,
		Rulings:         rulings,
	}, nil
}

func (r *Reader) pageRotationDegrees(page references.FPDF_PAGE) float64 {
	rotation, err := r.instance.FPDFPage_GetRotation(&requests.FPDFPage_GetRotation{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return 0
	}
	return float64(rotation.PageRotation) * 90
}

func (r *Reader) openDocument(path string) (references.FPDF_DOCUMENT, error) {
	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return references.FPDF_DOCUMENT(""), errors.Wrap(err, "open PDF document")
	}
	return doc.Document, nil
}

func (r *Reader) closeDocument(doc references.FPDF_DOCUMENT) {
	r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc})
}

// extractGlyphs walks every character of the page's text layer, converting
// bottom-left pdfium coordinates into the core's top-left-origin convention.
func (r *Reader) extractGlyphs(page references.FPDF_PAGE, pageHeight float64) ([]tabular.Glyph, error) {
	textPageResp, err := r.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "load text page")
	}
	textPage := textPageResp.TextPage
	defer r.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{TextPage: textPage})

	countResp, err := r.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{TextPage: textPage})
	if err != nil {
		return nil, errors.Wrap(err, "count characters")
	}
	if countResp.Count == 0 {
		return nil, nil
	}

	glyphs := make([]tabular.Glyph, 0, countResp.Count)
	for i := 0; i < countResp.Count; i++ {
		unicodeResp, err := r.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeResp.Unicode == 0 {
			continue
		}

		boxResp, err := r.instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		bbox := tabular.NewBBox(
			boxResp.Left,
			pageHeight-boxResp.Top,
			boxResp.Right,
			pageHeight-boxResp.Bottom,
		)

		size := 12.0
		if sizeResp, err := r.instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			size = sizeResp.FontSize
		}

		angle := 0.0
		if angleResp, err := r.instance.FPDFText_GetCharAngle(&requests.FPDFText_GetCharAngle{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			angle = float64(angleResp.CharAngle) * 180 / 3.14159265358979
		}

		glyphs = append(glyphs, tabular.Glyph{
			BBox:  bbox,
			Text:  string(rune(unicodeResp.Unicode)),
			Size:  size,
			Angle: angle,
		})
	}
	return glyphs, nil
}
