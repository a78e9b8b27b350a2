package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("fr"))
	assert.True(t, IsSupported("zh-CN"))
	assert.False(t, IsSupported("xx"))
	assert.False(t, IsSupported(""))
}

func TestLangs_ReturnsCopy(t *testing.T) {
	langs := Langs()
	require.NotEmpty(t, langs)
	langs["en"] = "mutated"
	assert.NotEqual(t, "mutated", Langs()["en"])
}

func TestSynthesize_UnsupportedLanguage(t *testing.T) {
	client := NewClient("http://unused", 0)
	_, err := client.Synthesize(context.Background(), "hello", "xx")
	assert.Error(t, err)
}

func TestSynthesize_EmptyText(t *testing.T) {
	client := NewClient("http://unused", 0)
	_, err := client.Synthesize(context.Background(), "   ", "en")
	assert.Error(t, err)
}

func TestSynthesize_ConcatenatesUtterances(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "en", q.Get("tl"))
		assert.Equal(t, "tw-ob", q.Get("client"))
		queries = append(queries, q.Get("q"))
		_, _ = w.Write([]byte("mp3:" + q.Get("q") + ";"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	long := strings.Repeat("word ", 100) // well past one utterance
	audio, err := client.Synthesize(context.Background(), long, "en")
	require.NoError(t, err)

	require.Greater(t, len(queries), 1)
	for _, q := range queries {
		assert.LessOrEqual(t, utf8.RuneCountInString(q), maxUtteranceRunes)
	}
	assert.Equal(t, len(queries), strings.Count(string(audio), ";"))
}

func TestSynthesize_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.Synthesize(context.Background(), "hello there", "en")
	assert.Error(t, err)
}

func TestSplitUtterances_ShortText(t *testing.T) {
	out := splitUtterances("hello world", 200)
	require.Len(t, out, 1)
	assert.Equal(t, "hello world", out[0])
}

func TestSplitUtterances_PrefersWordBoundaries(t *testing.T) {
	out := splitUtterances("alpha beta gamma delta", 11)
	for _, part := range out {
		assert.LessOrEqual(t, utf8.RuneCountInString(part), 11)
		assert.False(t, strings.HasPrefix(part, " "))
		assert.False(t, strings.HasSuffix(part, " "))
	}
	assert.Equal(t, "alpha beta gamma delta", strings.Join(out, " "))
}

func TestSplitUtterances_OversizedToken(t *testing.T) {
	token := strings.Repeat("x", 25)
	out := splitUtterances(token, 10)
	require.Len(t, out, 3)
	assert.Equal(t, 10, utf8.RuneCountInString(out[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(out[1]))
	assert.Equal(t, 5, utf8.RuneCountInString(out[2]))
}

func TestSplitUtterances_Empty(t *testing.T) {
	assert.Empty(t, splitUtterances("", 10))
	assert.Empty(t, splitUtterances("   ", 10))
}
