package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ragdocai/internal/ai"
	"ragdocai/internal/ledger"
	"ragdocai/internal/model"
	"ragdocai/internal/vectorstore"
)

const defaultTopK = 3

// RAGService answers questions grounded in the active document: embed the
// query, retrieve the most similar chunks, build a grounded prompt, and
// record the exchange in the ledger.
type RAGService struct {
	docs    *DocumentService
	llm     LLMClient
	embCfg  ai.EmbeddingConfig
	chatCfg ai.ChatConfig
	history *ledger.Ledger

	publisher AsyncQAPublisher // optional
	histCache HistoryCache     // optional
	qaMirror  QAPairMirror     // optional

	topK        int
	callTimeout time.Duration
}

// AskResult carries the answer together with the chunks it was grounded on.
type AskResult struct {
	Answer  string               `json:"answer"`
	Sources []vectorstore.Result `json:"sources"`
}

func NewRAGService(
	docs *DocumentService,
	llm LLMClient,
	embCfg ai.EmbeddingConfig,
	chatCfg ai.ChatConfig,
	history *ledger.Ledger,
	publisher AsyncQAPublisher,
	histCache HistoryCache,
	qaMirror QAPairMirror,
	topK int,
	callTimeout time.Duration,
) *RAGService {
	if topK <= 0 {
		topK = defaultTopK
	}
	if callTimeout <= 0 {
		callTimeout = 90 * time.Second
	}
	return &RAGService{
		docs:        docs,
		llm:         llm,
		embCfg:      embCfg,
		chatCfg:     chatCfg,
		history:     history,
		publisher:   publisher,
		histCache:   histCache,
		qaMirror:    qaMirror,
		topK:        topK,
		callTimeout: callTimeout,
	}
}

// Ask runs the full retrieval-augmented answer flow for one question.
func (s *RAGService) Ask(ctx context.Context, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	active, ok := s.docs.Active()
	if !ok {
		return nil, ErrNoDocumentIndexed
	}

	results, err := s.retrieve(ctx, active, question)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoDocumentIndexed
	}

	answer, err := s.generate(ctx, question, results)
	if err != nil {
		return nil, err
	}

	pair := s.history.Append(active.Filename, question, answer)
	s.recordAside(ctx, pair)

	return &AskResult{Answer: answer, Sources: results}, nil
}

// retrieve embeds the question with the collection's embedding model and
// returns the top-k most similar chunks. The index is not mutated.
func (s *RAGService) retrieve(ctx context.Context, active *ActiveDocument, question string) ([]vectorstore.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	queryVec, err := s.llm.Embed(callCtx, s.embCfg, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingService, err)
	}
	return active.Index.Search(queryVec, s.topK), nil
}

func (s *RAGService) generate(ctx context.Context, question string, results []vectorstore.Result) (string, error) {
	var contextBlock strings.Builder
	for _, r := range results {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(r.Chunk.Text)
	}
	contextBlock.WriteString("\n---")

	systemContent := "You are a helpful assistant. Answer the user's question based only on the following context. If the context does not contain enough information, say so. Do not make up facts."
	userContent := "Context:" + contextBlock.String() + "\n\nQuestion: " + question + "\n\nAnswer:"

	messages := []ai.ChatMessage{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	answer, err := s.llm.Complete(callCtx, s.chatCfg, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationService, err)
	}
	return strings.TrimSpace(answer), nil
}

// recordAside runs the best-effort persistence paths: invalidate the cache
// and enqueue the MySQL mirror write. Failures are logged only; the ledger
// already holds the pair.
func (s *RAGService) recordAside(ctx context.Context, pair model.QAPair) {
	if s.histCache != nil {
		if err := s.histCache.DeleteHistory(ctx, pair.Document); err != nil {
			log.Printf("invalidate history cache failed: %v", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, pair); err != nil {
			log.Printf("enqueue qa pair failed: %v", err)
		}
	}
}

// History returns the session ledger when document is empty. For a named
// document it serves from the Redis cache, falling back to the MySQL mirror
// and finally to the session ledger; cache and mirror failures degrade, not
// fail.
func (s *RAGService) History(ctx context.Context, document string) []model.QAPair {
	if document == "" {
		return s.history.All()
	}

	if s.histCache != nil {
		pairs, hit, err := s.histCache.GetHistory(ctx, document)
		if err != nil {
			log.Printf("read history cache failed: %v", err)
		} else if hit {
			return pairs
		}
	}

	if s.qaMirror != nil {
		pairs, err := s.qaMirror.ListByDocument(document)
		if err != nil {
			log.Printf("read qa mirror failed: %v", err)
		} else if len(pairs) > 0 {
			if s.histCache != nil {
				if err := s.histCache.SetHistory(ctx, document, pairs); err != nil {
					log.Printf("fill history cache failed: %v", err)
				}
			}
			return pairs
		}
	}

	var out []model.QAPair
	for _, p := range s.history.All() {
		if p.Document == document {
			out = append(out, p)
		}
	}
	return out
}
