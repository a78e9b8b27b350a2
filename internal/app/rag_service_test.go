package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdocai/internal/ai"
	"ragdocai/internal/ledger"
)

// keywordEmbedder maps France-related text near [1,0] and everything else
// near [0,1], so retrieval is deterministic without a real model.
func keywordEmbedder() *fakeLLM {
	return &fakeLLM{
		embedFn: func(text string) ([]float32, error) {
			if strings.Contains(text, "France") || strings.Contains(text, "Paris") {
				return []float32{1, 0}, nil
			}
			return []float32{0, 1}, nil
		},
	}
}

func newTestRAGService(t *testing.T, llm *fakeLLM, topK int) (*RAGService, *DocumentService, *ledger.Ledger) {
	t.Helper()
	docs := newTestDocService(t, llm)
	history := ledger.New(t.TempDir())
	svc := NewRAGService(docs, llm, ai.EmbeddingConfig{Model: "emb"}, ai.ChatConfig{Model: "chat"}, history, nil, nil, nil, topK, 0)
	return svc, docs, history
}

func TestAsk_GroundedAnswerFromRelevantChunk(t *testing.T) {
	llm := keywordEmbedder()
	llm.completeFn = func(_ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].Role)
		// The grounded prompt must contain the retrieved chunk and the question.
		assert.Contains(t, messages[1].Content, "Paris is the capital of France.")
		assert.NotContains(t, messages[1].Content, "Berlin")
		assert.Contains(t, messages[1].Content, "What is the capital of France?")
		return "Paris", nil
	}

	svc, docs, history := newTestRAGService(t, llm, 1)

	payload := docxBytes(t, []string{
		"Paris is the capital of France.",
		"Berlin is the largest city of Germany.",
	})
	_, err := docs.Upload(context.Background(), "facts.docx", bytes.NewReader(payload))
	require.NoError(t, err)

	result, err := svc.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Contains(t, result.Sources[0].Chunk.Text, "Paris")

	// The exchange lands in the ledger and in the per-document history file.
	require.Equal(t, 1, history.Len())
	pair := history.All()[0]
	assert.Equal(t, "facts.docx", pair.Document)
	assert.Equal(t, "What is the capital of France?", pair.Question)
	assert.Equal(t, "Paris", pair.Answer)

	_, err = os.Stat(history.HistoryPath("facts.docx"))
	assert.NoError(t, err)
}

func TestAsk_BeforeAnyUpload(t *testing.T) {
	llm := keywordEmbedder()
	svc, _, history := newTestRAGService(t, llm, 3)

	_, err := svc.Ask(context.Background(), "anything?")
	assert.ErrorIs(t, err, ErrNoDocumentIndexed)
	assert.Equal(t, 0, history.Len())
	assert.Equal(t, 0, llm.completeCalls)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc, _, _ := newTestRAGService(t, keywordEmbedder(), 3)

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAsk_EmbeddingFailure(t *testing.T) {
	llm := keywordEmbedder()
	svc, docs, history := newTestRAGService(t, llm, 3)

	_, err := docs.Upload(context.Background(), "doc.txt", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)

	llm.embedFn = func(string) ([]float32, error) {
		return nil, errors.New("provider down")
	}
	_, err = svc.Ask(context.Background(), "What is the capital of France?")
	assert.ErrorIs(t, err, ErrEmbeddingService)
	assert.Equal(t, 0, history.Len())
}

func TestAsk_GenerationFailureNotRecorded(t *testing.T) {
	llm := keywordEmbedder()
	llm.completeFn = func(ai.ChatConfig, []ai.ChatMessage) (string, error) {
		return "", errors.New("model exploded")
	}
	svc, docs, history := newTestRAGService(t, llm, 3)

	_, err := docs.Upload(context.Background(), "doc.txt", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "What is the capital of France?")
	assert.ErrorIs(t, err, ErrGenerationService)
	assert.Equal(t, 0, history.Len())
}

func TestAsk_PublishesPairForMirroring(t *testing.T) {
	llm := keywordEmbedder()
	llm.completeFn = func(ai.ChatConfig, []ai.ChatMessage) (string, error) {
		return "Paris", nil
	}
	docs := newTestDocService(t, llm)
	history := ledger.New(t.TempDir())
	publisher := &recordingPublisher{}
	svc := NewRAGService(docs, llm, ai.EmbeddingConfig{}, ai.ChatConfig{}, history, publisher, nil, nil, 3, 0)

	_, err := docs.Upload(context.Background(), "doc.txt", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, publisher.pairs, 1)
	assert.Equal(t, "doc.txt", publisher.pairs[0].Document)
}

func TestAsk_PublishFailureDoesNotFailAnswer(t *testing.T) {
	llm := keywordEmbedder()
	llm.completeFn = func(ai.ChatConfig, []ai.ChatMessage) (string, error) {
		return "Paris", nil
	}
	docs := newTestDocService(t, llm)
	history := ledger.New(t.TempDir())
	publisher := &recordingPublisher{err: errors.New("broker gone")}
	svc := NewRAGService(docs, llm, ai.EmbeddingConfig{}, ai.ChatConfig{}, history, publisher, nil, nil, 3, 0)

	_, err := docs.Upload(context.Background(), "doc.txt", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)

	result, err := svc.Ask(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", result.Answer)
	assert.Equal(t, 1, history.Len())
}

func TestHistory_SessionWideAndPerDocument(t *testing.T) {
	llm := keywordEmbedder()
	llm.completeFn = func(ai.ChatConfig, []ai.ChatMessage) (string, error) {
		return "Paris", nil
	}
	svc, docs, _ := newTestRAGService(t, llm, 3)

	_, err := docs.Upload(context.Background(), "doc.txt", strings.NewReader("Paris is the capital of France."))
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "first question about France?")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "second question about France?")
	require.NoError(t, err)

	all := svc.History(context.Background(), "")
	require.Len(t, all, 2)
	assert.Equal(t, "first question about France?", all[0].Question)

	filtered := svc.History(context.Background(), "doc.txt")
	assert.Len(t, filtered, 2)

	assert.Empty(t, svc.History(context.Background(), "other.txt"))
}
