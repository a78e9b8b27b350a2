package app

import (
	"context"

	"ragdocai/internal/ai"
	"ragdocai/internal/model"
)

// LLMClient is what the services need from the language-model backend.
// *ai.OpenAICompatibleClient satisfies it; tests substitute fakes.
type LLMClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

// Synthesizer converts text to audio bytes in a given language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string) ([]byte, error)
}

// AsyncQAPublisher hands QA pairs to the async persistence path. Optional;
// a nil publisher just skips the mirror.
type AsyncQAPublisher interface {
	Publish(ctx context.Context, pair model.QAPair) error
}

// HistoryCache is the optional read cache for per-document QA history.
type HistoryCache interface {
	GetHistory(ctx context.Context, document string) ([]model.QAPair, bool, error)
	SetHistory(ctx context.Context, document string, pairs []model.QAPair) error
	DeleteHistory(ctx context.Context, document string) error
}

// QAPairMirror reads the durable QA mirror written by the persist worker.
type QAPairMirror interface {
	ListByDocument(document string) ([]model.QAPair, error)
}
