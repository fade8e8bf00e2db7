// Package pipeline drives the batch flow: fetch candidate sessions, extract
// intelligence from each, and sync the results into the graph.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cascade-intel/internal/graph"
	"cascade-intel/internal/schema"
	"cascade-intel/internal/store"
	"cascade-intel/pkg/logger"
)

// SessionSource fetches candidate sessions from the source store
type SessionSource interface {
	FetchSessions(ctx context.Context, sessionID string) ([]store.Session, error)
}

// Extractor produces structured intelligence from one session
type Extractor interface {
	Extract(ctx context.Context, session *store.Session) (*schema.SessionExtraction, error)
}

// GraphSink receives extracted intelligence and answers bookkeeping queries
type GraphSink interface {
	SyncExtraction(ctx context.Context, extraction *schema.SessionExtraction) error
	ProcessedSessionIDs(ctx context.Context) (map[string]bool, error)
	EntityTotals(ctx context.Context) (*graph.Totals, error)
}

// Options control a pipeline run
type Options struct {
	// Reprocess forces re-extraction of all sessions, ignoring the
	// already-processed filter
	Reprocess bool
	// SessionID processes exactly one session regardless of status or
	// processed state
	SessionID string
}

// Summary reports the outcome of a pipeline run
type Summary struct {
	Succeeded int
	Total     int
}

// Pipeline processes sessions strictly sequentially: one session is fully
// extracted and synced before the next begins.
type Pipeline struct {
	source    SessionSource
	extractor Extractor
	sink      GraphSink
	logger    *zap.Logger
}

// New creates a pipeline
func New(source SessionSource, extractor Extractor, sink GraphSink) *Pipeline {
	return &Pipeline{
		source:    source,
		extractor: extractor,
		sink:      sink,
		logger:    logger.Get(),
	}
}

// Run executes one batch. Per-session failures are logged and skipped; only
// source-store errors abort the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	sessions, err := p.source.FetchSessions(ctx, opts.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	if len(sessions) == 0 {
		p.logger.Info("No analyzed sessions found")
		return &Summary{}, nil
	}

	if !opts.Reprocess && opts.SessionID == "" {
		processed, err := p.sink.ProcessedSessionIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute processed sessions: %w", err)
		}

		total := len(sessions)
		remaining := sessions[:0]
		for _, session := range sessions {
			if !processed[session.ID] {
				remaining = append(remaining, session)
			}
		}
		sessions = remaining

		p.logger.Info("Filtered already-processed sessions",
			zap.Int("total", total),
			zap.Int("already_processed", len(processed)),
			zap.Int("to_process", len(sessions)),
		)
	}

	if len(sessions) == 0 {
		p.logger.Info("All sessions already processed. Use --reprocess to re-extract.")
		return &Summary{}, nil
	}

	summary := &Summary{Total: len(sessions)}
	for i := range sessions {
		session := &sessions[i]
		participant := session.Payload().Participant

		p.logger.Info(fmt.Sprintf("[%d/%d] Processing %s @ %s (session: %s)",
			i+1, len(sessions), participant.DisplayName(), participant.CompanyName(), truncateID(session.ID)))

		extraction, err := p.extractor.Extract(ctx, session)
		if err != nil {
			p.logger.Warn("No extraction produced for session",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}
		if extraction == nil {
			p.logger.Info("No extraction produced for session",
				zap.String("session_id", session.ID),
			)
			continue
		}

		// A failed graph write skips the session rather than aborting the
		// batch, preserving partial progress.
		if err := p.sink.SyncExtraction(ctx, extraction); err != nil {
			p.logger.Error("Failed to sync extraction to graph",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}

		summary.Succeeded++
	}

	p.logger.Info(fmt.Sprintf("Pipeline complete: %d/%d sessions processed successfully",
		summary.Succeeded, summary.Total))

	p.logTotals(ctx)

	return summary, nil
}

// logTotals prints fresh per-entity grand totals from the graph
func (p *Pipeline) logTotals(ctx context.Context) {
	totals, err := p.sink.EntityTotals(ctx)
	if err != nil {
		p.logger.Warn("Failed to query graph totals", zap.Error(err))
		return
	}

	p.logger.Info(fmt.Sprintf("Graph totals: %d themes, %d tools, %d pain points, %d goals, %d quotes",
		totals.Themes, totals.Tools, totals.PainPoints, totals.Goals, totals.Quotes))
}

func truncateID(id string) string {
	if len(id) <= 20 {
		return id
	}
	return id[:20] + "..."
}
