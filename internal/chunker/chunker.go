// Package chunker splits loaded segments into overlapping fixed-size chunks.
// It is a pure transform: no I/O, deterministic for a given input.
package chunker

import (
	"errors"
	"fmt"

	"ragdocai/internal/model"
)

const (
	// DefaultWindow is the chunk size in runes.
	DefaultWindow = 1000
	// DefaultOverlap is the number of runes shared by consecutive chunks.
	DefaultOverlap = 200
)

var ErrInvalidConfig = errors.New("chunker: window must be positive and greater than overlap")

// Split cuts each segment into rune windows of at most window runes, with
// consecutive windows of the same segment sharing overlap runes. Chunk order
// follows segment order and no trailing content is dropped. Chunk ids are
// deterministic (docID + segment position + rune offset) so re-ingesting the
// same document overwrites its old entries.
func Split(docID string, segments []model.Segment, window, overlap int) ([]model.Chunk, error) {
	if window <= 0 || overlap < 0 || overlap >= window {
		return nil, ErrInvalidConfig
	}

	step := window - overlap
	var chunks []model.Chunk
	for _, seg := range segments {
		runes := []rune(seg.Text)
		if len(runes) == 0 {
			continue
		}
		for start := 0; ; start += step {
			end := start + window
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, model.Chunk{
				ID:       fmt.Sprintf("%s:%d:%d", docID, seg.Position, start),
				Text:     string(runes[start:end]),
				Source:   seg.Source,
				Position: seg.Position,
				Offset:   start,
			})
			if end == len(runes) {
				break
			}
		}
	}
	return chunks, nil
}
