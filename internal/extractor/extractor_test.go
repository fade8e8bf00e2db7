package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cascade-intel/internal/store"
	"cascade-intel/pkg/errors"
)

const sampleJSON = `{
  "themes": [{"name": "ChatGPT adoption", "category": "tool", "sentiment": "positive", "related_dimensions": ["ai_action"], "evidence": "We use ChatGPT daily.", "confidence": 0.9}],
  "tools": [{"name": "ChatGPT", "usage_frequency": "daily", "sophistication": "basic", "use_case": "drafting emails"}],
  "pain_points": [{"description": "Manual data entry", "severity": "high", "area": "operations", "potential_ai_solution": "automated intake"}],
  "goals": [{"description": "Automate reporting", "timeframe": "near_term", "related_to_ai": true}],
  "quotes": [{"text": "AI is a game changer.", "context": "tools question", "sentiment": "positive", "usable_as_testimonial": true}]
}`

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unfenced passes through",
			in:   `{"themes": []}`,
			want: `{"themes": []}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"themes\": []}\n```",
			want: `{"themes": []}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"themes\": []}\n```",
			want: `{"themes": []}`,
		},
		{
			name: "json tag without fence newline",
			in:   "```json{\"themes\": []}```",
			want: `{"themes": []}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n{\"themes\": []}\n```\n  ",
			want: `{"themes": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestParseDirectResponse(t *testing.T) {
	extraction, err := parseDirectResponse("s1", sampleJSON)
	require.NoError(t, err)

	require.Len(t, extraction.Themes, 1)
	assert.Equal(t, "ChatGPT adoption", extraction.Themes[0].Name)
	assert.Equal(t, []string{"ai_action"}, extraction.Themes[0].RelatedDimensions)
	require.Len(t, extraction.Tools, 1)
	assert.Equal(t, "daily", extraction.Tools[0].UsageFrequency)
	require.Len(t, extraction.PainPoints, 1)
	require.Len(t, extraction.Goals, 1)
	require.Len(t, extraction.Quotes, 1)
	assert.True(t, extraction.Quotes[0].UsableAsTestimonial)
}

func TestParseDirectResponse_FencedMatchesUnfenced(t *testing.T) {
	unfenced, err := parseDirectResponse("s1", sampleJSON)
	require.NoError(t, err)

	fenced, err := parseDirectResponse("s1", "```json\n"+sampleJSON+"\n```")
	require.NoError(t, err)

	assert.Equal(t, unfenced, fenced)
}

func TestParseDirectResponse_InvalidJSON(t *testing.T) {
	_, err := parseDirectResponse("s1", "I could not produce JSON, sorry.")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeExtract))
}

func TestParseDirectResponse_InvalidEntity(t *testing.T) {
	_, err := parseDirectResponse("s1", `{"themes": [{"name": "x", "category": "nonsense", "sentiment": "positive"}]}`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeExtract))

	_, err = parseDirectResponse("s1", `{"pain_points": [{"description": "x", "severity": "shrug", "area": "operations"}]}`)
	assert.Error(t, err)
}

func TestParseDirectResponse_FillsEntityDefaults(t *testing.T) {
	extraction, err := parseDirectResponse("s1", `{"tools": [{"name": "Midjourney"}], "goals": [{"description": "scale"}]}`)
	require.NoError(t, err)

	assert.Equal(t, "unknown", extraction.Tools[0].UsageFrequency)
	assert.Equal(t, "unknown", extraction.Tools[0].Sophistication)
	assert.Equal(t, "unspecified", extraction.Goals[0].Timeframe)
}

// Extract must short-circuit before any LLM call when the session has no
// eligible conversation content.
func TestExtract_NoContentSkipsLLM(t *testing.T) {
	// Unroutable endpoint: any HTTP attempt would error, so a nil result
	// proves no call was made.
	e, err := New("http://127.0.0.1:1/v1", "", "test-model")
	require.NoError(t, err)

	session := &store.Session{ID: "s-empty"}

	extraction, err := e.Extract(context.Background(), session)
	assert.NoError(t, err)
	assert.Nil(t, extraction)
}

// TestExtractor_Extract requires a running OpenAI-compatible endpoint
func TestExtractor_Extract(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	e, err := New("http://localhost:4000/v1", "", "gpt-4o-mini")
	require.NoError(t, err)

	session := &store.Session{
		ID: "s-integration",
		Data: store.SessionData{
			Participant: store.Participant{Name: "Jamie", Company: "Acme"},
			Responses: []store.Response{
				{
					InputType:    "open_text",
					QuestionText: "What tools do you use?",
					Answer:       []byte(`"We use ChatGPT daily for drafting emails."`),
				},
			},
		},
	}

	extraction, err := e.Extract(context.Background(), session)
	require.NoError(t, err)
	require.NotNil(t, extraction)
	assert.Equal(t, "s-integration", extraction.SessionID)
	assert.Equal(t, "Jamie", extraction.ParticipantName)
	assert.Equal(t, "Acme", extraction.Company)
}
