package loader

import (
	"fmt"
	"os"
	"unicode/utf8"

	"ragdocai/internal/model"
)

// loadTxt reads the whole file as one UTF-8 segment.
func loadTxt(path string) ([]model.Segment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file failed: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("file %s is not valid UTF-8", path)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return []model.Segment{{
		Text:     string(raw),
		Source:   path,
		Position: 1,
	}}, nil
}
