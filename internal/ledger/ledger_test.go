package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdocai/internal/model"
)

func TestAppend_RecordsInOrder(t *testing.T) {
	l := New(t.TempDir())

	for i := 0; i < 5; i++ {
		l.Append("doc.txt", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	assert.Equal(t, 5, l.Len())
	pairs := l.All()
	require.Len(t, pairs, 5)
	for i, p := range pairs {
		assert.Equal(t, fmt.Sprintf("q%d", i), p.Question)
		assert.Equal(t, fmt.Sprintf("a%d", i), p.Answer)
		assert.Equal(t, "doc.txt", p.Document)
	}
}

func TestAppend_WritesPerDocumentFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	l.Append("report.pdf", "q1", "a1")
	l.Append("other.txt", "q2", "a2")
	l.Append("report.pdf", "q3", "a3")

	raw, err := os.ReadFile(filepath.Join(dir, "report.pdf_qa_history.json"))
	require.NoError(t, err)

	var pairs []model.QAPair
	require.NoError(t, json.Unmarshal(raw, &pairs))
	require.Len(t, pairs, 2)
	assert.Equal(t, "q1", pairs[0].Question)
	assert.Equal(t, "q3", pairs[1].Question)
}

func TestAppend_RewritesWholeFileEachTime(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	l.Append("doc.txt", "first", "1")
	l.Append("doc.txt", "second", "2")

	raw, err := os.ReadFile(l.HistoryPath("doc.txt"))
	require.NoError(t, err)
	var pairs []model.QAPair
	require.NoError(t, json.Unmarshal(raw, &pairs))
	assert.Len(t, pairs, 2)
}

func TestAppend_PersistFailureKeepsMemory(t *testing.T) {
	// A file where the history directory should be makes every write fail.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	l := New(blocked)
	pair := l.Append("doc.txt", "q", "a")

	assert.Equal(t, "q", pair.Question)
	assert.Equal(t, 1, l.Len())
	require.Len(t, l.All(), 1)
}

func TestHistoryPath_UsesBaseName(t *testing.T) {
	l := New("/data/history")
	assert.Equal(t, filepath.Join("/data/history", "doc.txt_qa_history.json"), l.HistoryPath("/uploads/doc.txt"))
}

func TestAll_ReturnsCopy(t *testing.T) {
	l := New(t.TempDir())
	l.Append("doc.txt", "q", "a")

	pairs := l.All()
	pairs[0].Answer = "mutated"
	assert.Equal(t, "a", l.All()[0].Answer)
}
