// Package loader turns an uploaded file into an ordered sequence of text
// segments. Dispatch is by file extension; loading failures are logged and
// degrade to an empty result so callers only have to handle "no content".
package loader

import (
	"log"
	"path/filepath"
	"strings"

	"ragdocai/internal/model"
)

// Supported reports whether the extension (with leading dot, any case) maps
// to a known document format.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".txt", ".docx":
		return true
	}
	return false
}

// Load reads the file at path and returns its segments in source order.
// Returns nil on any failure.
func Load(path string) []model.Segment {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		segments []model.Segment
		err      error
	)
	switch ext {
	case ".pdf":
		segments, err = loadPDF(path)
	case ".txt":
		segments, err = loadTxt(path)
	case ".docx":
		segments, err = loadDocx(path)
	default:
		log.Printf("loader: unsupported extension %q for %s", ext, path)
		return nil
	}
	if err != nil {
		log.Printf("loader: load %s failed: %v", path, err)
		return nil
	}
	return segments
}

// FullText concatenates segment texts with blank-line separators. The
// narration pipeline uses this instead of chunks.
func FullText(segments []model.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
