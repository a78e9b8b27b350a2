package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ragdocai/internal/ai"
	"ragdocai/internal/loader"
	"ragdocai/internal/tts"
)

// NarrationService renders the active document as narrated audio:
// load the full text, rewrite it for narration in the target language
// (falling back to the original text if the rewrite fails), then synthesize
// speech and write the MP3 artifact.
type NarrationService struct {
	docs    *DocumentService
	llm     LLMClient
	chatCfg ai.ChatConfig
	synth   Synthesizer

	outputDir    string
	defaultLang  string
	rewriteLimit time.Duration
	synthLimit   time.Duration
}

type NarrationResult struct {
	AudioPath string `json:"audio_path"`
	Filename  string `json:"filename"`
	LangCode  string `json:"lang_code"`
	Rewritten bool   `json:"rewritten"`
}

func NewNarrationService(docs *DocumentService, llm LLMClient, chatCfg ai.ChatConfig, synth Synthesizer, outputDir, defaultLang string, rewriteLimit, synthLimit time.Duration) *NarrationService {
	if defaultLang == "" {
		defaultLang = "en"
	}
	if rewriteLimit <= 0 {
		rewriteLimit = 90 * time.Second
	}
	if synthLimit <= 0 {
		synthLimit = 60 * time.Second
	}
	return &NarrationService{
		docs:         docs,
		llm:          llm,
		chatCfg:      chatCfg,
		synth:        synth,
		outputDir:    outputDir,
		defaultLang:  defaultLang,
		rewriteLimit: rewriteLimit,
		synthLimit:   synthLimit,
	}
}

// Narrate produces the audiobook artifact for the active document. The
// language code is validated before anything expensive runs; an unsupported
// code never reaches the synthesis engine.
func (s *NarrationService) Narrate(ctx context.Context, langCode string) (*NarrationResult, error) {
	langCode = strings.TrimSpace(langCode)
	if langCode == "" {
		langCode = s.defaultLang
	}
	if !tts.IsSupported(langCode) {
		return nil, fmt.Errorf("%w: %q", ErrLanguageUnsupported, langCode)
	}

	active, ok := s.docs.Active()
	if !ok {
		return nil, ErrNoDocumentIndexed
	}

	segments := loader.Load(active.StoredPath)
	text := loader.FullText(segments)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	narration, rewritten := s.rewrite(ctx, text, langCode)

	synthCtx, cancel := context.WithTimeout(ctx, s.synthLimit)
	defer cancel()
	audio, err := s.synth.Synthesize(synthCtx, narration, langCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	base := strings.TrimSuffix(active.Filename, filepath.Ext(active.Filename))
	audioFilename := base + "_audiobook.mp3"
	audioPath := filepath.Join(s.outputDir, audioFilename)
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %w", ErrSynthesisFailed, err)
	}
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write audio artifact: %w", ErrSynthesisFailed, err)
	}

	return &NarrationResult{
		AudioPath: audioPath,
		Filename:  audioFilename,
		LangCode:  langCode,
		Rewritten: rewritten,
	}, nil
}

// rewrite asks the language model to rework the text for narration quality.
// Any failure falls back to the original text; narration must not die on a
// cosmetic step.
func (s *NarrationService) rewrite(ctx context.Context, text, langCode string) (string, bool) {
	prompt := fmt.Sprintf(
		"Rewrite the following text in %s for an engaging audiobook narration. "+
			"Make it clear, expressive, and conversational. Keep the language strictly %s:\n\n%s",
		langCode, langCode, text,
	)

	callCtx, cancel := context.WithTimeout(ctx, s.rewriteLimit)
	defer cancel()

	rewritten, err := s.llm.Complete(callCtx, s.chatCfg, []ai.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("narration rewrite failed, using original text: %v", err)
		return text, false
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return text, false
	}
	return rewritten, true
}
