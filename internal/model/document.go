package model

import "time"

// Document records one uploaded file. The stored path carries a uuid prefix
// so repeated uploads of the same filename never collide on disk.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"size:256;not null" json:"filename"`
	StoredPath string    `gorm:"size:512;not null" json:"stored_path"`
	Extension  string    `gorm:"size:16;not null" json:"extension"`
	Collection string    `gorm:"size:128;not null;index" json:"collection"`
	CreatedAt  time.Time `json:"created_at"`
}

// Segment is one unit of loaded content (a PDF page, a text file, a DOCX
// paragraph run). Produced by the loader, consumed by the chunker and the
// narration pipeline.
type Segment struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Position int    `json:"position"` // page number or paragraph index, 1-based
}

// Chunk is a bounded text span cut from a segment. ID is deterministic
// (document uuid + rune offset) so re-ingesting the same document replaces
// entries instead of duplicating them.
type Chunk struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	Position int    `json:"position"`
	Offset   int    `json:"offset"` // rune offset within the source segment
}
