// Package extractor turns session transcripts into structured intelligence
// via an LLM. Extraction strategies are tried in order; the first one to
// succeed wins, and a failed session never aborts the batch.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"cascade-intel/internal/schema"
	"cascade-intel/internal/store"
	"cascade-intel/internal/transcript"
	"cascade-intel/pkg/errors"
	"cascade-intel/pkg/logger"
)

// Extractor invokes the LLM to produce SessionExtractions
type Extractor struct {
	client       *openai.Client
	model        string
	targetSchema *jsonschema.Definition
	logger       *zap.Logger
}

// strategy is one independently fallible extraction path
type strategy struct {
	name string
	run  func(ctx context.Context, sessionID string, participant store.Participant, conversationText string) (*schema.SessionExtraction, error)
}

// New creates an extractor talking to an OpenAI-compatible endpoint
func New(baseURL, apiKey, modelID string) (*Extractor, error) {
	// Local proxies accept any key
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	targetSchema, err := jsonschema.GenerateSchemaForType(schema.SessionExtraction{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate extraction schema: %w", err)
	}

	return &Extractor{
		client:       openai.NewClientWithConfig(config),
		model:        modelID,
		targetSchema: targetSchema,
		logger:       logger.Get(),
	}, nil
}

// Extract produces a SessionExtraction for one session. Returns (nil, nil)
// when the session has no eligible conversation content; no LLM call is made
// in that case. Identity fields are always stamped from the session row, not
// trusted from the model.
func (e *Extractor) Extract(ctx context.Context, session *store.Session) (*schema.SessionExtraction, error) {
	conversationText := transcript.Build(session)
	if strings.TrimSpace(conversationText) == "" {
		e.logger.Info("No conversation text for session, skipping",
			zap.String("session_id", session.ID),
		)
		return nil, nil
	}

	participant := session.Payload().Participant

	strategies := []strategy{
		{name: "structured", run: e.extractStructured},
		{name: "direct", run: e.extractDirect},
	}

	var lastErr error
	for _, s := range strategies {
		extraction, err := s.run(ctx, session.ID, participant, conversationText)
		if err != nil {
			e.logger.Warn("Extraction strategy failed",
				zap.String("session_id", session.ID),
				zap.String("strategy", s.name),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		extraction.SessionID = session.ID
		extraction.ParticipantName = participant.DisplayName()
		extraction.Company = participant.CompanyName()
		extraction.FillDefaults()
		return extraction, nil
	}

	return nil, errors.NewExtractionFailed(session.ID, lastErr)
}

// extractStructured is the primary path: a chat completion constrained to the
// SessionExtraction JSON schema.
func (e *Extractor) extractStructured(ctx context.Context, _ string, participant store.Participant, conversationText string) (*schema.SessionExtraction, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: structuredInstruction(participant),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: conversationText,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "session_extraction",
				Schema: e.targetSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("structured completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in structured completion response")
	}

	var extraction schema.SessionExtraction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &extraction); err != nil {
		return nil, fmt.Errorf("failed to decode structured completion: %w", err)
	}

	return &extraction, nil
}

// extractDirect is the fallback path: a plain text completion asked to emit
// raw JSON, parsed and validated entity by entity.
func (e *Extractor) extractDirect(ctx context.Context, sessionID string, participant store.Participant, conversationText string) (*schema.SessionExtraction, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: directPrompt(participant, conversationText),
			},
		},
		Temperature: 0.1,
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("direct completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in direct completion response")
	}

	return parseDirectResponse(sessionID, resp.Choices[0].Message.Content)
}

// directPayload is the shape the fallback prompt asks the model to emit
type directPayload struct {
	Themes     []schema.ExtractedTheme     `json:"themes"`
	Tools      []schema.ExtractedTool      `json:"tools"`
	PainPoints []schema.ExtractedPainPoint `json:"pain_points"`
	Goals      []schema.ExtractedGoal      `json:"goals"`
	Quotes     []schema.ExtractedQuote     `json:"quotes"`
}

// parseDirectResponse strips code fences from the completion text, parses the
// remainder as JSON, and validates every entity against its shape.
func parseDirectResponse(sessionID, raw string) (*schema.SessionExtraction, error) {
	text := stripCodeFence(raw)

	var payload directPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("failed to parse completion as JSON: %w", err))
	}

	for i := range payload.Themes {
		if err := payload.Themes[i].Validate(); err != nil {
			return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("invalid theme at index %d: %w", i, err))
		}
	}
	for i := range payload.Tools {
		if err := payload.Tools[i].Validate(); err != nil {
			return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("invalid tool at index %d: %w", i, err))
		}
	}
	for i := range payload.PainPoints {
		if err := payload.PainPoints[i].Validate(); err != nil {
			return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("invalid pain point at index %d: %w", i, err))
		}
	}
	for i := range payload.Goals {
		if err := payload.Goals[i].Validate(); err != nil {
			return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("invalid goal at index %d: %w", i, err))
		}
	}
	for i := range payload.Quotes {
		if err := payload.Quotes[i].Validate(); err != nil {
			return nil, errors.NewMalformedExtraction(sessionID, fmt.Errorf("invalid quote at index %d: %w", i, err))
		}
	}

	return &schema.SessionExtraction{
		Themes:     payload.Themes,
		Tools:      payload.Tools,
		PainPoints: payload.PainPoints,
		Goals:      payload.Goals,
		Quotes:     payload.Quotes,
	}, nil
}

// stripCodeFence removes leading/trailing markdown code fences and a leading
// "json" language tag from a completion response.
func stripCodeFence(s string) string {
	text := strings.TrimSpace(s)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = text[3:]
		}
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "json") {
		text = text[4:]
	}

	return strings.TrimSpace(text)
}
