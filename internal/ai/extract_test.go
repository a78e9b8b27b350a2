package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestExtractAnswer_TopLevelKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"answer", `{"answer":"A"}`, "A"},
		{"result", `{"result":"B"}`, "B"},
		{"output", `{"output":"C"}`, "C"},
		{"text", `{"text":"D"}`, "D"},
		{"content", `{"content":"E"}`, "E"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractAnswer(decode(t, tc.raw)))
		})
	}
}

func TestExtractAnswer_KeyPriority(t *testing.T) {
	// "answer" wins over later keys even when both are present.
	v := decode(t, `{"text":"lower","answer":"higher"}`)
	assert.Equal(t, "higher", ExtractAnswer(v))
}

func TestExtractAnswer_OpenAIChatShape(t *testing.T) {
	v := decode(t, `{"choices":[{"message":{"content":"from openai"}}]}`)
	assert.Equal(t, "from openai", ExtractAnswer(v))
}

func TestExtractAnswer_CompletionTextShape(t *testing.T) {
	v := decode(t, `{"choices":[{"text":"from completion"}]}`)
	assert.Equal(t, "from completion", ExtractAnswer(v))
}

func TestExtractAnswer_GeminiCandidateShape(t *testing.T) {
	v := decode(t, `{"candidates":[{"content":{"parts":[{"text":"from gemini"}]}}]}`)
	assert.Equal(t, "from gemini", ExtractAnswer(v))
}

func TestExtractAnswer_OutputsShape(t *testing.T) {
	v := decode(t, `{"outputs":[{"output_text":"from outputs"}]}`)
	assert.Equal(t, "from outputs", ExtractAnswer(v))
}

func TestExtractAnswer_StringCandidate(t *testing.T) {
	v := decode(t, `{"choices":["bare string"]}`)
	assert.Equal(t, "bare string", ExtractAnswer(v))
}

func TestExtractAnswer_PlainString(t *testing.T) {
	assert.Equal(t, "hello", ExtractAnswer("hello"))
}

func TestExtractAnswer_Nil(t *testing.T) {
	assert.Equal(t, "", ExtractAnswer(nil))
}

func TestExtractAnswer_UnknownShapeStringifies(t *testing.T) {
	v := decode(t, `{"status":"done","code":7}`)
	got := ExtractAnswer(v)
	assert.Contains(t, got, "done")
	assert.Contains(t, got, "7")
}

func TestExtractAnswer_EmptyCandidateListFallsThrough(t *testing.T) {
	v := decode(t, `{"choices":[],"result":"fallback"}`)
	assert.Equal(t, "fallback", ExtractAnswer(v))
}
