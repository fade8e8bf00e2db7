// Package transcript flattens a session's conversational responses into a
// single text blob suitable for LLM extraction.
package transcript

import (
	"encoding/json"
	"fmt"
	"strings"

	"cascade-intel/internal/store"
)

// eligibleInputTypes are the response types that carry free-text conversation
var eligibleInputTypes = map[string]bool{
	"ai_conversation": true,
	"open_text":       true,
	"voice":           true,
}

// Build walks the session's responses in order and renders each eligible one
// as a Q/A block, followed by its AI follow-ups. Returns an empty string when
// the session has no eligible responses.
func Build(session *store.Session) string {
	payload := session.Payload()

	var parts []string
	for _, resp := range payload.Responses {
		if !eligibleInputTypes[resp.InputType] {
			continue
		}

		question := resp.QuestionText
		if question == "" {
			question = "Unknown question"
		}

		parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", question, answerText(resp.Answer)))

		for _, followUp := range resp.AIFollowUps {
			parts = append(parts, fmt.Sprintf("Follow-up Q: %s", followUp.Question))
			parts = append(parts, fmt.Sprintf("Follow-up A: %s", followUp.Answer))
		}
	}

	return strings.Join(parts, "\n\n")
}

// answerText renders a raw answer value. String answers that are themselves
// JSON-quoted get decoded once to unwrap double serialization; decode failures
// keep the raw string. Non-string answers render as their JSON text.
func answerText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var answer string
	if err := json.Unmarshal(raw, &answer); err != nil {
		return string(raw)
	}

	if len(answer) >= 2 && strings.HasPrefix(answer, `"`) && strings.HasSuffix(answer, `"`) {
		var unwrapped string
		if err := json.Unmarshal([]byte(answer), &unwrapped); err == nil {
			return unwrapped
		}
	}

	return answer
}
