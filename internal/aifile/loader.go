package aifile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// LoadPage reads a PDF-based .ai file and builds a geometry page from it:
// text runs with positions come from the PDF content, and the artboard
// media box becomes the page outline. If a sidecar geometry file
// (<path>.geometry.json) exists its paths and texts are merged in, which
// is how vector path data extracted upstream reaches the pipeline.
func LoadPage(path string) (*geometry.Page, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}
	if res := ValidateBuffer(buf, path, Options{}); !res.Valid {
		return nil, fmt.Errorf("invalid design file %s: %s", path, res.Errors[0])
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("design file %s has no pages", path)
	}

	page := &geometry.Page{}

	// First artboard only; multi-artboard files are processed per page upstream.
	w, h := dims[0].Width, dims[0].Height
	page.Paths = append(page.Paths, geometry.PathElement{
		D: fmt.Sprintf("M0 0 L%.2f 0 L%.2f %.2f L0 %.2f Z", w, w, h, h),
		Box: geometry.BoundingBox{
			X: 0, Y: 0, Width: w, Height: h,
		},
	})

	texts, err := extractTexts(path)
	if err != nil {
		// Text extraction failing on a dense vector file is common; the
		// shape-based classifiers still work without labels.
		slog.Warn("text extraction failed, continuing without labels",
			"file", path, "error", err)
	}
	page.Texts = append(page.Texts, texts...)

	if err := mergeSidecar(page, path+".geometry.json"); err != nil {
		return nil, err
	}

	slog.Debug("loaded design file",
		"file", path,
		"paths", len(page.Paths),
		"texts", len(page.Texts))
	return page, nil
}

// extractTexts pulls positioned text runs from the first page.
func extractTexts(path string) ([]geometry.TextElement, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF content: %w", err)
	}
	if r.NumPage() < 1 {
		return nil, nil
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("extracting text rows: %w", err)
	}

	var texts []geometry.TextElement
	for _, row := range rows {
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			texts = append(texts, geometry.TextElement{
				Content:  t.S,
				Position: geometry.Point{X: t.X, Y: t.Y},
			})
		}
	}
	return texts, nil
}

// mergeSidecar merges paths and texts from an optional JSON sidecar. The
// sidecar carries the vector geometry a PDF text extractor cannot see.
func mergeSidecar(page *geometry.Page, sidecarPath string) error {
	buf, err := os.ReadFile(sidecarPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading geometry sidecar: %w", err)
	}

	var side geometry.Page
	if err := json.Unmarshal(buf, &side); err != nil {
		return fmt.Errorf("parsing geometry sidecar %s: %w", sidecarPath, err)
	}

	if len(side.Paths) > 0 {
		// Sidecar geometry supersedes the synthesized artboard outline.
		page.Paths = side.Paths
	}
	page.Texts = append(page.Texts, side.Texts...)
	return nil
}

// LoadGeometryJSON reads a page directly from a geometry JSON file,
// bypassing PDF parsing entirely. Used for pre-extracted inputs.
func LoadGeometryJSON(path string) (*geometry.Page, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geometry file: %w", err)
	}
	var page geometry.Page
	if err := json.Unmarshal(buf, &page); err != nil {
		return nil, fmt.Errorf("parsing geometry file %s: %w", path, err)
	}
	return &page, nil
}
