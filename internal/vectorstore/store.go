// Package vectorstore holds embedded chunks for a named collection and
// answers k-nearest-neighbour queries by brute-force cosine similarity.
// Each collection persists as one JSON file under its storage directory;
// the in-memory copy is authoritative and file writes are best-effort.
package vectorstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"ragdocai/internal/model"
)

type Entry struct {
	Chunk  model.Chunk `json:"chunk"`
	Vector []float32   `json:"vector"`
}

type Result struct {
	Chunk model.Chunk `json:"chunk"`
	Score float32     `json:"score"`
}

type Index struct {
	mu         sync.RWMutex
	collection string
	path       string
	entries    []Entry
	byID       map[string]int
}

type collectionFile struct {
	Collection string  `json:"collection"`
	Entries    []Entry `json:"entries"`
}

// OpenOrCreate resolves the collection under dir, loading existing entries
// if the collection file is present. Opening the same collection twice
// yields the same logical entries. An unreadable or corrupt file is logged
// and treated as empty rather than failing startup.
func OpenOrCreate(collection, dir string) (*Index, error) {
	if collection == "" {
		return nil, errors.New("vectorstore: collection id is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir failed: %w", err)
	}

	ix := &Index{
		collection: collection,
		path:       filepath.Join(dir, collection+".json"),
		byID:       make(map[string]int),
	}

	raw, err := os.ReadFile(ix.path)
	if errors.Is(err, os.ErrNotExist) {
		return ix, nil
	}
	if err != nil {
		log.Printf("vectorstore: read collection %s failed, starting empty: %v", collection, err)
		return ix, nil
	}
	var stored collectionFile
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Printf("vectorstore: collection %s is corrupt, starting empty: %v", collection, err)
		return ix, nil
	}
	ix.entries = stored.Entries
	for i := range ix.entries {
		ix.byID[ix.entries[i].Chunk.ID] = i
	}
	return ix, nil
}

// Collection returns the collection id this index was opened with.
func (ix *Index) Collection() string { return ix.collection }

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Add appends (chunk, vector) pairs, replacing any entry that shares a chunk
// id. The collection file is rewritten afterwards; a write failure is logged
// and does not fail the call.
func (ix *Index) Add(chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("vectorstore: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	ix.mu.Lock()
	for i := range chunks {
		if len(vectors[i]) == 0 {
			continue
		}
		if pos, ok := ix.byID[chunks[i].ID]; ok {
			ix.entries[pos] = Entry{Chunk: chunks[i], Vector: vectors[i]}
			continue
		}
		ix.byID[chunks[i].ID] = len(ix.entries)
		ix.entries = append(ix.entries, Entry{Chunk: chunks[i], Vector: vectors[i]})
	}
	ix.mu.Unlock()

	if err := ix.persist(); err != nil {
		log.Printf("vectorstore: persist collection %s failed: %v", ix.collection, err)
	}
	return nil
}

// Search returns up to k entries ordered by descending cosine similarity to
// the query vector. Equal scores keep insertion order, earliest first, so
// results are deterministic for a fixed index state.
func (ix *Index) Search(query []float32, k int) []Result {
	if k <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.entries) == 0 {
		return nil
	}

	order := make([]int, len(ix.entries))
	scores := make([]float32, len(ix.entries))
	for i := range ix.entries {
		order[i] = i
		scores[i] = cosineSimilarity(query, ix.entries[i].Vector)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]Result, k)
	for i := 0; i < k; i++ {
		idx := order[i]
		results[i] = Result{Chunk: ix.entries[idx].Chunk, Score: scores[idx]}
	}
	return results
}

func (ix *Index) persist() error {
	ix.mu.RLock()
	payload, err := json.Marshal(collectionFile{
		Collection: ix.collection,
		Entries:    ix.entries,
	})
	ix.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal collection failed: %w", err)
	}

	tmp := ix.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write collection file failed: %w", err)
	}
	if err := os.Rename(tmp, ix.path); err != nil {
		return fmt.Errorf("replace collection file failed: %w", err)
	}
	return nil
}
