package schema

import (
	"encoding/json"
	"fmt"
)

// Sentiment is the emotional tone attached to a theme or quote
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// ThemeCategory classifies an extracted theme
type ThemeCategory string

const (
	CategoryTool       ThemeCategory = "tool"
	CategoryPainPoint  ThemeCategory = "pain_point"
	CategoryGoal       ThemeCategory = "goal"
	CategoryCapability ThemeCategory = "capability"
	CategoryProcess    ThemeCategory = "process"
	CategoryCulture    ThemeCategory = "culture"
	CategoryStrategy   ThemeCategory = "strategy"
)

// ScoringDimensions are the eight fixed axes used to score organizational readiness
var ScoringDimensions = []string{
	"ai_awareness",
	"ai_action",
	"process_readiness",
	"strategic_clarity",
	"change_energy",
	"team_capacity",
	"mission_alignment",
	"investment_readiness",
}

// Severities rates how impactful a pain point is
var Severities = []string{"critical", "high", "medium", "low"}

// Areas are the business areas a pain point can affect
var Areas = []string{"operations", "hiring", "sales", "marketing", "product", "leadership", "culture"}

// Timeframes classify when a goal is expected to land
var Timeframes = []string{"immediate", "near_term", "long_term"}

// ExtractedTheme is a topic or pattern surfaced from conversation analysis.
// Name acts as the graph merge key.
type ExtractedTheme struct {
	Name              string        `json:"name"`
	Category          ThemeCategory `json:"category"`
	Sentiment         Sentiment     `json:"sentiment"`
	RelatedDimensions []string      `json:"related_dimensions"`
	Evidence          string        `json:"evidence"`
	Confidence        float64       `json:"confidence"`
}

// UnmarshalJSON applies the 0.8 confidence default only when the field is
// absent. An explicit "confidence": 0.0 in the payload is preserved.
func (t *ExtractedTheme) UnmarshalJSON(data []byte) error {
	type plain ExtractedTheme
	decoded := plain{Confidence: 0.8}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = ExtractedTheme(decoded)
	return nil
}

// ExtractedTool is a specific AI tool or software mentioned by the participant
type ExtractedTool struct {
	Name           string `json:"name"`
	UsageFrequency string `json:"usage_frequency"`
	Sophistication string `json:"sophistication"`
	UseCase        string `json:"use_case"`
}

// ExtractedPainPoint is a business challenge, bottleneck, or frustration.
// Description acts as the graph merge key.
type ExtractedPainPoint struct {
	Description         string `json:"description"`
	Severity            string `json:"severity"`
	Area                string `json:"area"`
	PotentialAISolution string `json:"potential_ai_solution"`
}

// ExtractedGoal is a transformation goal or desired outcome
type ExtractedGoal struct {
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
	RelatedToAI bool   `json:"related_to_ai"`
}

// ExtractedQuote is a standout quote worth surfacing in reports.
// Quotes have no merge key: every occurrence is a new graph entity.
type ExtractedQuote struct {
	Text                string    `json:"text"`
	Context             string    `json:"context"`
	Sentiment           Sentiment `json:"sentiment"`
	UsableAsTestimonial bool      `json:"usable_as_testimonial"`
}

// SessionExtraction is the complete structured extraction from one
// assessment session's conversations
type SessionExtraction struct {
	SessionID       string               `json:"session_id"`
	ParticipantName string               `json:"participant_name"`
	Company         string               `json:"company"`
	Themes          []ExtractedTheme     `json:"themes"`
	Tools           []ExtractedTool      `json:"tools"`
	PainPoints      []ExtractedPainPoint `json:"pain_points"`
	Goals           []ExtractedGoal      `json:"goals"`
	Quotes          []ExtractedQuote     `json:"quotes"`
}

// FillDefaults fills optional fields with their explicit placeholder values so
// the graph synchronizer never receives missing properties. Applied to every
// extraction regardless of which path produced it.
func (e *SessionExtraction) FillDefaults() {
	for i := range e.Tools {
		if e.Tools[i].UsageFrequency == "" {
			e.Tools[i].UsageFrequency = "unknown"
		}
		if e.Tools[i].Sophistication == "" {
			e.Tools[i].Sophistication = "unknown"
		}
	}
	for i := range e.Goals {
		if e.Goals[i].Timeframe == "" {
			e.Goals[i].Timeframe = "unspecified"
		}
	}
}

// Valid reports whether s is one of the controlled sentiment values
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// Valid reports whether c is one of the controlled theme categories
func (c ThemeCategory) Valid() bool {
	switch c {
	case CategoryTool, CategoryPainPoint, CategoryGoal, CategoryCapability,
		CategoryProcess, CategoryCulture, CategoryStrategy:
		return true
	}
	return false
}

// Validate checks required fields and controlled vocabularies, and keeps
// confidence inside [0,1]. The 0.8 default is applied at decode time, so an
// explicit zero survives here.
func (t *ExtractedTheme) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("theme name is required")
	}
	if !t.Category.Valid() {
		return fmt.Errorf("invalid theme category: %q", t.Category)
	}
	if !t.Sentiment.Valid() {
		return fmt.Errorf("invalid theme sentiment: %q", t.Sentiment)
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("confidence out of range: %f", t.Confidence)
	}
	return nil
}

// Validate checks required fields and fills optional defaults
func (t *ExtractedTool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.UsageFrequency == "" {
		t.UsageFrequency = "unknown"
	}
	if t.Sophistication == "" {
		t.Sophistication = "unknown"
	}
	return nil
}

// Validate checks required fields against the severity and area vocabularies
func (p *ExtractedPainPoint) Validate() error {
	if p.Description == "" {
		return fmt.Errorf("pain point description is required")
	}
	if !contains(Severities, p.Severity) {
		return fmt.Errorf("invalid pain point severity: %q", p.Severity)
	}
	if !contains(Areas, p.Area) {
		return fmt.Errorf("invalid pain point area: %q", p.Area)
	}
	return nil
}

// Validate checks required fields and fills the timeframe default
func (g *ExtractedGoal) Validate() error {
	if g.Description == "" {
		return fmt.Errorf("goal description is required")
	}
	if g.Timeframe == "" {
		g.Timeframe = "unspecified"
	} else if !contains(Timeframes, g.Timeframe) {
		return fmt.Errorf("invalid goal timeframe: %q", g.Timeframe)
	}
	return nil
}

// Validate checks required fields and the sentiment vocabulary
func (q *ExtractedQuote) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("quote text is required")
	}
	if !q.Sentiment.Valid() {
		return fmt.Errorf("invalid quote sentiment: %q", q.Sentiment)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
