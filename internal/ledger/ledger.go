// Package ledger keeps the question/answer history for the running session.
// The in-memory list is authoritative; each append also rewrites the
// per-document history file, and a write failure is logged, never returned.
package ledger

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ragdocai/internal/model"
)

type Ledger struct {
	mu    sync.RWMutex
	dir   string
	pairs []model.QAPair
}

func New(dir string) *Ledger {
	return &Ledger{dir: dir}
}

// Append records the pair in memory and immediately rewrites the document's
// history file with every pair recorded for that document this session.
func (l *Ledger) Append(document, question, answer string) model.QAPair {
	pair := model.QAPair{
		Document:  document,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}

	l.mu.Lock()
	l.pairs = append(l.pairs, pair)
	docPairs := l.pairsForLocked(document)
	l.mu.Unlock()

	if err := l.writeHistory(document, docPairs); err != nil {
		log.Printf("ledger: persist history for %q failed: %v", document, err)
	}
	return pair
}

// All returns every pair of the session in append order.
func (l *Ledger) All() []model.QAPair {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.QAPair, len(l.pairs))
	copy(out, l.pairs)
	return out
}

// Len returns the number of recorded pairs.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pairs)
}

func (l *Ledger) pairsForLocked(document string) []model.QAPair {
	var out []model.QAPair
	for _, p := range l.pairs {
		if p.Document == document {
			out = append(out, p)
		}
	}
	return out
}

// HistoryPath returns the on-disk location of a document's history file.
func (l *Ledger) HistoryPath(document string) string {
	return filepath.Join(l.dir, filepath.Base(document)+"_qa_history.json")
}

func (l *Ledger) writeHistory(document string, pairs []model.QAPair) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.HistoryPath(document), payload, 0o644)
}
