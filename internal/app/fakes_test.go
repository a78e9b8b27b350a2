package app

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ragdocai/internal/ai"
	"ragdocai/internal/model"
)

// fakeLLM drives the services without a real model endpoint. Embeddings come
// from embedFn; completions from completeFn. Call counts are recorded so
// tests can assert what was (not) invoked.
type fakeLLM struct {
	embedFn    func(text string) ([]float32, error)
	completeFn func(cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)

	embedCalls    int
	completeCalls int
}

func (f *fakeLLM) Complete(_ context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.completeCalls++
	if f.completeFn == nil {
		return "", errors.New("no completion configured")
	}
	return f.completeFn(cfg, messages)
}

func (f *fakeLLM) Embed(_ context.Context, _ ai.EmbeddingConfig, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedFn == nil {
		return nil, errors.New("no embedding configured")
	}
	return f.embedFn(text)
}

func (f *fakeLLM) EmbedBatch(_ context.Context, _ ai.EmbeddingConfig, texts []string) ([][]float32, error) {
	f.embedCalls++
	if f.embedFn == nil {
		return nil, errors.New("no embedding configured")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := f.embedFn(t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

type fakeSynth struct {
	audio []byte
	err   error
	calls int
	texts []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, _ string) ([]byte, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type recordingPublisher struct {
	pairs []model.QAPair
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, pair model.QAPair) error {
	if p.err != nil {
		return p.err
	}
	p.pairs = append(p.pairs, pair)
	return nil
}

// docxBytes builds a minimal docx container with one paragraph per entry.
func docxBytes(t *testing.T, paragraphs []string) []byte {
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
	return buf.Bytes()
}
