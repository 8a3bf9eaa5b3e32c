package pdfsource

import (
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"

	"github.com/go-tabular/tabular"
)

// extractRulings walks the page's vector path objects and returns the
// bounding box of every one with at least two segments, converted to
// top-left-origin coordinates. The
// core treats stroked lines and filled rectangles identically, so no
// line/rectangle distinction is made here.
func (r *Reader) extractRulings(page references.FPDF_PAGE, pageHeight float64) ([]tabular.BBox, error) {
	countResp, err := r.instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, err
	}

	var rulings []tabular.BBox
	for i := 0; i < countResp.Count; i++ {
		objResp, err := r.instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page:  requests.Page{ByReference: &page},
			Index: i,
		})
		if err != nil {
			continue
		}

		typeResp, err := r.instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err != nil || typeResp.Type != enums.FPDF_PAGEOBJ_PATH {
			continue
		}

		boundsResp, err := r.instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{
			PageObject: objResp.PageObject,
		})
		if err != nil {
			continue
		}

		segCountResp, err := r.instance.FPDFPath_CountSegments(&requests.FPDFPath_CountSegments{
			PageObject: objResp.PageObject,
		})
		if err != nil || segCountResp.Count < 2 {
			continue
		}

		bbox := tabular.NewBBox(
			float64(boundsResp.Left),
			pageHeight-float64(boundsResp.Top),
			float64(boundsResp.Right),
			pageHeight-float64(boundsResp.Bottom),
		)
		rulings = append(rulings, bbox)
	}
	return rulings, nil
}
