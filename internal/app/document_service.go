package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ragdocai/internal/ai"
	"ragdocai/internal/chunker"
	"ragdocai/internal/loader"
	"ragdocai/internal/model"
	"ragdocai/internal/repository"
	"ragdocai/internal/vectorstore"
)

// embeddingBatchSize keeps embedding requests under typical provider limits.
const embeddingBatchSize = 10

// ActiveDocument is the immutable snapshot of the currently indexed upload.
// A new upload publishes a fresh snapshot; readers holding the old one keep
// a consistent view.
type ActiveDocument struct {
	Filename   string
	StoredPath string
	Extension  string
	UID        string
	Index      *vectorstore.Index
}

// DocumentServiceConfig collects the fixed ingestion settings.
type DocumentServiceConfig struct {
	UploadDir    string
	IndexDir     string
	Collection   string
	ChunkSize    int
	ChunkOverlap int
}

// DocumentService owns the active-document state. All mutation goes through
// Upload under the write lock, so a query sees either the fully-old or the
// fully-new document, never a mix.
type DocumentService struct {
	mu     sync.RWMutex
	active *ActiveDocument

	llm     LLMClient
	embCfg  ai.EmbeddingConfig
	docRepo *repository.DocumentRepository // optional registry mirror
	cfg     DocumentServiceConfig
}

type UploadResult struct {
	Filename   string `json:"filename"`
	StoredPath string `json:"stored_path"`
	ChunkCount int    `json:"chunk_count"`
}

func NewDocumentService(llm LLMClient, embCfg ai.EmbeddingConfig, docRepo *repository.DocumentRepository, cfg DocumentServiceConfig) *DocumentService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultWindow
	}
	if cfg.ChunkOverlap <= 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = chunker.DefaultOverlap
	}
	return &DocumentService{
		llm:     llm,
		embCfg:  embCfg,
		docRepo: docRepo,
		cfg:     cfg,
	}
}

// Active returns the current document snapshot, or false when nothing has
// been uploaded yet.
func (s *DocumentService) Active() (*ActiveDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, false
	}
	return s.active, true
}

// Upload stores the file, loads and chunks it, embeds the chunks into the
// collection, and atomically swaps the active document. Nothing is committed
// to the index unless embedding produced at least one vector, so a cancelled
// or failed upload leaves the previous state intact.
func (s *DocumentService) Upload(ctx context.Context, filename string, src io.Reader) (*UploadResult, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, ErrInvalidInput
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !loader.Supported(ext) {
		return nil, ErrUnsupportedFileType
	}

	uid := uuid.New().String()
	storedPath, err := s.saveUpload(uid, filename, src)
	if err != nil {
		return nil, err
	}

	segments := loader.Load(storedPath)
	if len(segments) == 0 {
		return nil, ErrEmptyDocument
	}

	chunks, err := chunker.Split(uid, segments, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	index, err := vectorstore.OpenOrCreate(s.cfg.Collection, s.cfg.IndexDir)
	if err != nil {
		return nil, err
	}

	embedded, vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if err := index.Add(embedded, vectors); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active = &ActiveDocument{
		Filename:   filename,
		StoredPath: storedPath,
		Extension:  ext,
		UID:        uid,
		Index:      index,
	}
	s.mu.Unlock()

	if s.docRepo != nil {
		record := &model.Document{
			Filename:   filename,
			StoredPath: storedPath,
			Extension:  ext,
			Collection: s.cfg.Collection,
		}
		if err := s.docRepo.Create(record); err != nil {
			log.Printf("document registry write failed: %v", err)
		}
	}

	return &UploadResult{
		Filename:   filename,
		StoredPath: storedPath,
		ChunkCount: len(embedded),
	}, nil
}

// ListUploads returns the registry of past uploads for this collection.
func (s *DocumentService) ListUploads() ([]model.Document, error) {
	if s.docRepo == nil {
		return nil, nil
	}
	return s.docRepo.ListByCollection(s.cfg.Collection)
}

func (s *DocumentService) saveUpload(uid, filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir failed: %w", err)
	}
	storedPath := filepath.Join(s.cfg.UploadDir, uid+"_"+filename)
	dst, err := os.Create(storedPath)
	if err != nil {
		return "", fmt.Errorf("create upload file failed: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file failed: %w", err)
	}
	return storedPath, nil
}

// embedChunks embeds in batches, tolerating individual batch failures: a
// failed batch is logged and skipped, and the upload fails only when no
// batch succeeds or the context is cancelled.
func (s *DocumentService) embedChunks(ctx context.Context, chunks []model.Chunk) ([]model.Chunk, [][]float32, error) {
	var (
		embedded []model.Chunk
		vectors  [][]float32
		lastErr  error
	)
	for start := 0; start < len(chunks); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Text
		}

		batchVectors, err := s.llm.EmbedBatch(ctx, s.embCfg, texts)
		if err != nil {
			lastErr = err
			log.Printf("embed batch %d-%d failed: %v", start, end, err)
			if ctx.Err() != nil {
				return nil, nil, fmt.Errorf("%w: %w", ErrEmbeddingService, ctx.Err())
			}
			continue
		}
		if len(batchVectors) != len(batch) {
			lastErr = fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(batch), len(batchVectors))
			log.Printf("embed batch %d-%d: %v", start, end, lastErr)
			continue
		}
		embedded = append(embedded, batch...)
		vectors = append(vectors, batchVectors...)
	}
	if len(embedded) == 0 {
		return nil, nil, fmt.Errorf("%w: %w", ErrEmbeddingService, lastErr)
	}
	return embedded, vectors, nil
}
