// Package tts synthesizes speech audio through a translate-tts style HTTP
// endpoint. The engine accepts short utterances only, so long texts are
// split at whitespace and the resulting MP3 frames concatenated.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// maxUtteranceRunes is the longest text the synthesis endpoint accepts per
// request.
const maxUtteranceRunes = 200

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Synthesize converts text to MP3 audio in the given language. The language
// code must be in the supported set; callers should check IsSupported first,
// but the client rejects unknown codes as well.
func (c *Client) Synthesize(ctx context.Context, text, langCode string) ([]byte, error) {
	if !IsSupported(langCode) {
		return nil, fmt.Errorf("unsupported language code %q", langCode)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("synthesis input is empty")
	}

	var audio []byte
	for _, utterance := range splitUtterances(text, maxUtteranceRunes) {
		part, err := c.synthesizeOne(ctx, utterance, langCode)
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

func (c *Client) synthesizeOne(ctx context.Context, text, langCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", langCode)
	params.Set("textlen", fmt.Sprintf("%d", utf8.RuneCountInString(text)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build tts request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tts response status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("tts response is empty")
	}
	return raw, nil
}

// splitUtterances cuts text into runs of at most limit runes, preferring
// whitespace boundaries so words stay intact.
func splitUtterances(text string, limit int) []string {
	var out []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, field := range strings.Fields(text) {
		fieldLen := utf8.RuneCountInString(field)
		if fieldLen > limit {
			// A single oversized token gets hard-cut.
			flush()
			runes := []rune(field)
			for start := 0; start < len(runes); start += limit {
				end := start + limit
				if end > len(runes) {
					end = len(runes)
				}
				out = append(out, string(runes[start:end]))
			}
			continue
		}
		if currentLen > 0 && currentLen+1+fieldLen > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(field)
		currentLen += fieldLen
	}
	flush()
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
