package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"ragdocai/internal/model"
)

// loadPDF extracts one segment per page. Pages without extractable text are
// skipped rather than emitted empty.
func loadPDF(path string) ([]model.Segment, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()

	var segments []model.Segment
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d failed: %w", pageNum, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		segments = append(segments, model.Segment{
			Text:     text,
			Source:   path,
			Position: pageNum,
		})
	}
	return segments, nil
}
