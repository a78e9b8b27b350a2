package ai

import (
	"encoding/json"
	"fmt"
)

// The shape tables below are the single source of truth for answer
// extraction. Providers disagree on where the answer text lives, and the
// same provider moves it between versions, so the lookup is data, not a
// conditional per shape.
var (
	// answerKeys are tried first, in priority order, at the top level and
	// inside candidate elements.
	answerKeys = []string{"answer", "result", "output", "text", "content"}

	// candidateKeys name list-valued fields whose first element may carry
	// the answer.
	candidateKeys = []string{"choices", "candidates", "outputs"}

	// nestedKeys are tried inside a candidate element; map values under
	// these keys are descended into one more level.
	nestedKeys = []string{"text", "content", "message", "output_text"}
)

// ExtractAnswer pulls the best answer text out of an arbitrary decoded
// response. It never fails on an unrecognized shape: if nothing matches, the
// whole response is stringified.
func ExtractAnswer(response interface{}) string {
	switch v := response.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		for _, key := range answerKeys {
			if s := stringValue(v[key]); s != "" {
				return s
			}
		}
		for _, key := range candidateKeys {
			list, ok := v[key].([]interface{})
			if !ok || len(list) == 0 {
				continue
			}
			if s := extractFromCandidate(list[0]); s != "" {
				return s
			}
		}
		return stringify(v)
	default:
		return stringify(v)
	}
}

func extractFromCandidate(candidate interface{}) string {
	switch c := candidate.(type) {
	case string:
		return c
	case map[string]interface{}:
		for _, key := range nestedKeys {
			switch inner := c[key].(type) {
			case string:
				if inner != "" {
					return inner
				}
			case map[string]interface{}:
				// e.g. choices[0].message.content, candidates[0].content.parts[0].text
				for _, k := range nestedKeys {
					if s := stringValue(inner[k]); s != "" {
						return s
					}
				}
				if parts, ok := inner["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if s := stringValue(part["text"]); s != "" {
							return s
						}
					}
				}
			}
		}
	}
	return ""
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringify(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
