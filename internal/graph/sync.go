package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"cascade-intel/internal/schema"
	"cascade-intel/pkg/errors"
)

// SyncExtraction upserts one session's extracted intelligence into the graph.
// Theme, Tool, PainPoint, and Goal nodes merge on their natural key graph-wide;
// relationship properties from this session overwrite earlier runs. Quote nodes
// are append-only and accumulate across runs. All writes go through a single
// driver session; the operation is not one atomic transaction, so a mid-sync
// failure can leave a partial extraction applied.
//
// The Session node for extraction.SessionID must already exist in the graph.
// When it is absent the relationship MATCH silently binds zero rows and only
// the entity nodes are written.
func (r *Repository) SyncExtraction(ctx context.Context, extraction *schema.SessionExtraction) error {
	session := r.newSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, theme := range extraction.Themes {
		if err := r.syncTheme(ctx, session, extraction.SessionID, theme); err != nil {
			return errors.NewGraphSyncFailed(extraction.SessionID, err)
		}
	}
	for _, tool := range extraction.Tools {
		if err := r.syncTool(ctx, session, extraction.SessionID, tool); err != nil {
			return errors.NewGraphSyncFailed(extraction.SessionID, err)
		}
	}
	for _, painPoint := range extraction.PainPoints {
		if err := r.syncPainPoint(ctx, session, extraction.SessionID, painPoint); err != nil {
			return errors.NewGraphSyncFailed(extraction.SessionID, err)
		}
	}
	for _, goal := range extraction.Goals {
		if err := r.syncGoal(ctx, session, extraction.SessionID, goal); err != nil {
			return errors.NewGraphSyncFailed(extraction.SessionID, err)
		}
	}
	for _, quote := range extraction.Quotes {
		if err := r.syncQuote(ctx, session, extraction.SessionID, quote); err != nil {
			return errors.NewGraphSyncFailed(extraction.SessionID, err)
		}
	}

	r.logger.Info("Synced extraction to graph",
		zap.String("session_id", extraction.SessionID),
		zap.Int("themes", len(extraction.Themes)),
		zap.Int("tools", len(extraction.Tools)),
		zap.Int("pain_points", len(extraction.PainPoints)),
		zap.Int("goals", len(extraction.Goals)),
		zap.Int("quotes", len(extraction.Quotes)),
	)
	return nil
}

// mergeKey normalizes a natural key. Keys are trimmed of surrounding
// whitespace but case-sensitive: "ChatGPT" and "chatgpt" are distinct nodes.
func mergeKey(s string) string {
	return strings.TrimSpace(s)
}

func (r *Repository) syncTheme(ctx context.Context, session neo4j.SessionWithContext, sessionID string, theme schema.ExtractedTheme) error {
	query := `
		MERGE (t:Theme {name: $name})
		ON CREATE SET t.id = $themeID
		SET t.category = $category, t.updatedAt = datetime()
		WITH t
		MATCH (s:Session {id: $sessionId})
		MERGE (s)-[r:SURFACED]->(t)
		SET r.sentiment = $sentiment, r.confidence = $confidence, r.evidence = $evidence
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"name":       mergeKey(theme.Name),
		"themeID":    uuid.New().String(),
		"category":   string(theme.Category),
		"sessionId":  sessionID,
		"sentiment":  string(theme.Sentiment),
		"confidence": theme.Confidence,
		"evidence":   theme.Evidence,
	})
	if err != nil {
		return err
	}

	for _, dimension := range theme.RelatedDimensions {
		dimQuery := `
			MERGE (t:Theme {name: $theme})
			MERGE (d:ScoringDimension {name: $dim})
			ON CREATE SET d.id = $dimID
			MERGE (t)-[:RELATES_TO]->(d)
		`
		_, err := session.Run(ctx, dimQuery, map[string]interface{}{
			"theme": mergeKey(theme.Name),
			"dim":   dimension,
			"dimID": uuid.New().String(),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) syncTool(ctx context.Context, session neo4j.SessionWithContext, sessionID string, tool schema.ExtractedTool) error {
	query := `
		MERGE (t:Tool {name: $name})
		ON CREATE SET t.id = $toolID
		SET t.updatedAt = datetime()
		WITH t
		MATCH (s:Session {id: $sessionId})
		MERGE (s)-[r:USES_TOOL]->(t)
		SET r.frequency = $frequency, r.sophistication = $sophistication, r.useCase = $useCase
	`

	frequency := tool.UsageFrequency
	if frequency == "" {
		frequency = "unknown"
	}
	sophistication := tool.Sophistication
	if sophistication == "" {
		sophistication = "unknown"
	}

	_, err := session.Run(ctx, query, map[string]interface{}{
		"name":           mergeKey(tool.Name),
		"toolID":         uuid.New().String(),
		"sessionId":      sessionID,
		"frequency":      frequency,
		"sophistication": sophistication,
		"useCase":        tool.UseCase,
	})
	return err
}

func (r *Repository) syncPainPoint(ctx context.Context, session neo4j.SessionWithContext, sessionID string, painPoint schema.ExtractedPainPoint) error {
	query := `
		MERGE (p:PainPoint {description: $desc})
		ON CREATE SET p.id = $painPointID
		SET p.severity = $severity, p.area = $area, p.updatedAt = datetime()
		WITH p
		MATCH (s:Session {id: $sessionId})
		MERGE (s)-[r:HAS_PAIN_POINT]->(p)
		SET r.potentialAiSolution = $solution
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"desc":        mergeKey(painPoint.Description),
		"painPointID": uuid.New().String(),
		"severity":    painPoint.Severity,
		"area":        painPoint.Area,
		"sessionId":   sessionID,
		"solution":    painPoint.PotentialAISolution,
	})
	return err
}

func (r *Repository) syncGoal(ctx context.Context, session neo4j.SessionWithContext, sessionID string, goal schema.ExtractedGoal) error {
	query := `
		MERGE (g:Goal {description: $desc})
		ON CREATE SET g.id = $goalID
		SET g.timeframe = $timeframe, g.relatedToAi = $aiRelated, g.updatedAt = datetime()
		WITH g
		MATCH (s:Session {id: $sessionId})
		MERGE (s)-[:HAS_GOAL]->(g)
	`

	timeframe := goal.Timeframe
	if timeframe == "" {
		timeframe = "unspecified"
	}

	_, err := session.Run(ctx, query, map[string]interface{}{
		"desc":      mergeKey(goal.Description),
		"goalID":    uuid.New().String(),
		"timeframe": timeframe,
		"aiRelated": goal.RelatedToAI,
		"sessionId": sessionID,
	})
	return err
}

// syncQuote always creates a fresh Quote node; quotes are historical records
// and never merge, even when the text repeats.
func (r *Repository) syncQuote(ctx context.Context, session neo4j.SessionWithContext, sessionID string, quote schema.ExtractedQuote) error {
	query := `
		MATCH (s:Session {id: $sessionId})
		CREATE (q:Quote {id: $quoteID, text: $text, context: $context, sentiment: $sentiment, testimonial: $testimonial, createdAt: datetime()})
		CREATE (s)-[:QUOTED]->(q)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"sessionId":   sessionID,
		"quoteID":     uuid.New().String(),
		"text":        quote.Text,
		"context":     quote.Context,
		"sentiment":   string(quote.Sentiment),
		"testimonial": quote.UsableAsTestimonial,
	})
	return err
}
