package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/fukuro/internal/aifile"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
)

// loadPage reads a single input file into page geometry. JSON inputs are
// pre-extracted geometry; everything else goes through the design-file loader.
func loadPage(path string) (*geometry.Page, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return aifile.LoadGeometryJSON(path)
	}
	return aifile.LoadPage(path)
}

// loadPages reads all input files, aborting on the first unreadable file.
func loadPages(files []string) ([]geometry.Page, error) {
	pages := make([]geometry.Page, len(files))
	for i, path := range files {
		page, err := loadPage(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		pages[i] = *page
	}
	return pages, nil
}
