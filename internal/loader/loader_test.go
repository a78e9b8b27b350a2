package loader

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdocai/internal/model"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported(".pdf"))
	assert.True(t, Supported(".txt"))
	assert.True(t, Supported(".docx"))
	assert.True(t, Supported(".PDF"))
	assert.False(t, Supported(".doc"))
	assert.False(t, Supported(".md"))
	assert.False(t, Supported(""))
}

func TestLoad_Txt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("Paris is the capital of France."), 0o644))

	segments := Load(path)
	require.Len(t, segments, 1)
	assert.Equal(t, "Paris is the capital of France.", segments[0].Text)
	assert.Equal(t, path, segments[0].Source)
}

func TestLoad_TxtMissingFile(t *testing.T) {
	segments := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Nil(t, segments)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c"), 0o644))
	assert.Nil(t, Load(path))
}

// writeTestDocx builds a minimal docx container on disk.
func writeTestDocx(t *testing.T, dir string, paragraphs []string) string {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "sample.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoad_Docx(t *testing.T) {
	path := writeTestDocx(t, t.TempDir(), []string{"First paragraph.", "", "Second paragraph."})

	segments := Load(path)
	require.Len(t, segments, 2)
	assert.Equal(t, "First paragraph.", segments[0].Text)
	assert.Equal(t, "Second paragraph.", segments[1].Text)
	assert.Less(t, segments[0].Position, segments[1].Position)
}

func TestLoad_DocxNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a zip"), 0o644))
	assert.Nil(t, Load(path))
}

func TestFullText(t *testing.T) {
	segments := []model.Segment{
		{Text: "  one  ", Position: 0},
		{Text: "", Position: 1},
		{Text: "two", Position: 2},
	}
	assert.Equal(t, "one\n\ntwo", FullText(segments))
	assert.Equal(t, "", FullText(nil))
}
