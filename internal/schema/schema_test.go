package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeValidate(t *testing.T) {
	tests := []struct {
		name    string
		theme   ExtractedTheme
		wantErr bool
	}{
		{
			name:  "valid theme",
			theme: ExtractedTheme{Name: "ChatGPT adoption", Category: CategoryTool, Sentiment: SentimentPositive, Confidence: 0.9},
		},
		{
			name:    "missing name",
			theme:   ExtractedTheme{Category: CategoryTool, Sentiment: SentimentPositive},
			wantErr: true,
		},
		{
			name:    "unknown category",
			theme:   ExtractedTheme{Name: "x", Category: "vibes", Sentiment: SentimentNeutral},
			wantErr: true,
		},
		{
			name:    "unknown sentiment",
			theme:   ExtractedTheme{Name: "x", Category: CategoryProcess, Sentiment: "elated"},
			wantErr: true,
		},
		{
			name:  "explicit zero confidence",
			theme: ExtractedTheme{Name: "x", Category: CategoryProcess, Sentiment: SentimentMixed, Confidence: 0.0},
		},
		{
			name:    "confidence out of range",
			theme:   ExtractedTheme{Name: "x", Category: CategoryProcess, Sentiment: SentimentMixed, Confidence: 1.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.theme.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThemeUnmarshalJSON_ConfidenceDefault(t *testing.T) {
	var absent ExtractedTheme
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x", "category": "culture", "sentiment": "neutral"}`), &absent))
	assert.Equal(t, 0.8, absent.Confidence)

	var zero ExtractedTheme
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x", "category": "culture", "sentiment": "neutral", "confidence": 0.0}`), &zero))
	assert.Equal(t, 0.0, zero.Confidence)
	assert.NoError(t, zero.Validate())
}

func TestToolValidate_DefaultsOptionalFields(t *testing.T) {
	tool := ExtractedTool{Name: "ChatGPT"}
	require.NoError(t, tool.Validate())
	assert.Equal(t, "unknown", tool.UsageFrequency)
	assert.Equal(t, "unknown", tool.Sophistication)

	assert.Error(t, (&ExtractedTool{}).Validate())
}

func TestPainPointValidate(t *testing.T) {
	valid := ExtractedPainPoint{Description: "Manual data entry", Severity: "high", Area: "operations"}
	assert.NoError(t, valid.Validate())

	badSeverity := ExtractedPainPoint{Description: "x", Severity: "catastrophic", Area: "operations"}
	assert.Error(t, badSeverity.Validate())

	badArea := ExtractedPainPoint{Description: "x", Severity: "low", Area: "finance"}
	assert.Error(t, badArea.Validate())
}

func TestGoalValidate_DefaultsTimeframe(t *testing.T) {
	goal := ExtractedGoal{Description: "Automate reporting"}
	require.NoError(t, goal.Validate())
	assert.Equal(t, "unspecified", goal.Timeframe)

	assert.Error(t, (&ExtractedGoal{}).Validate())
}

func TestQuoteValidate(t *testing.T) {
	valid := ExtractedQuote{Text: "AI changed how we hire.", Context: "hiring question", Sentiment: SentimentPositive}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&ExtractedQuote{Sentiment: SentimentPositive}).Validate())
	assert.Error(t, (&ExtractedQuote{Text: "x", Sentiment: "giddy"}).Validate())
}

func TestSessionExtractionFillDefaults(t *testing.T) {
	extraction := SessionExtraction{
		Tools: []ExtractedTool{{Name: "ChatGPT", UsageFrequency: "daily"}},
		Goals: []ExtractedGoal{{Description: "grow"}},
	}

	extraction.FillDefaults()

	assert.Equal(t, "daily", extraction.Tools[0].UsageFrequency)
	assert.Equal(t, "unknown", extraction.Tools[0].Sophistication)
	assert.Equal(t, "unspecified", extraction.Goals[0].Timeframe)
}
