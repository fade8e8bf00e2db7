package extractor

import (
	"fmt"
	"strings"

	"cascade-intel/internal/schema"
	"cascade-intel/internal/store"
)

// structuredInstruction builds the system instruction for the schema-bound
// extraction call, embedding participant context and the controlled
// vocabularies.
func structuredInstruction(participant store.Participant) string {
	name := participant.DisplayName()
	company := participant.CompanyName()
	industry := participant.Industry
	if industry == "" {
		industry = "unknown industry"
	}
	role := participant.Role
	if role == "" {
		role = "unknown"
	}

	return fmt.Sprintf(`You are analyzing an AI readiness assessment conversation with %s
from %s (%s). Their role is: %s.

Extract ALL of the following from their responses:

1. THEMES: Key topics, patterns, and recurring ideas. Categorize as: tool, pain_point, goal, capability, process, culture, strategy.
   Include sentiment (positive/negative/neutral/mixed) and which scoring dimensions relate.
   Dimensions: %s

2. TOOLS: Specific AI tools, software, or platforms mentioned. Note usage frequency and sophistication.

3. PAIN POINTS: Business challenges, bottlenecks, frustrations. Rate severity: critical/high/medium/low.

4. GOALS: Transformation goals or desired outcomes. Note if AI-related and timeframe.

5. QUOTES: Standout direct quotes worth surfacing in reports. Flag if usable as testimonial.

Return structured JSON matching the provided schema.`, name, company, industry, role, strings.Join(schema.ScoringDimensions, ", "))
}

// directPrompt builds the fallback prompt asking the model for raw JSON
// matching an explicit example schema.
func directPrompt(participant store.Participant, conversationText string) string {
	role := participant.Role
	if role == "" {
		role = "Unknown"
	}

	return fmt.Sprintf(`Analyze this AI readiness assessment conversation and extract structured intelligence.

Participant: %s | Company: %s | Role: %s

Return ONLY valid JSON (no markdown, no code fences) with this structure:
{
  "themes": [{"name": "...", "category": "tool|pain_point|goal|capability|process|culture|strategy", "sentiment": "positive|negative|neutral|mixed", "related_dimensions": ["ai_action", ...], "evidence": "...", "confidence": 0.8}],
  "tools": [{"name": "...", "usage_frequency": "daily|weekly|occasionally|tried_once|never", "sophistication": "basic|intermediate|advanced", "use_case": "..."}],
  "pain_points": [{"description": "...", "severity": "critical|high|medium|low", "area": "operations|hiring|sales|marketing|product|leadership|culture", "potential_ai_solution": "..."}],
  "goals": [{"description": "...", "timeframe": "immediate|near_term|long_term", "related_to_ai": true}],
  "quotes": [{"text": "...", "context": "...", "sentiment": "positive|negative|neutral|mixed", "usable_as_testimonial": false}]
}

=== CONVERSATION ===
%s`, participant.DisplayName(), participant.CompanyName(), role, conversationText)
}
