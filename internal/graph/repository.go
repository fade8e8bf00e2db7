// Package graph owns all Neo4j reads and writes for extracted intelligence.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"cascade-intel/pkg/errors"
	"cascade-intel/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	return &Repository{
		driver:   driver,
		database: database,
		logger:   logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// VerifyConnectivity checks that the graph store is reachable
func (r *Repository) VerifyConnectivity(ctx context.Context) error {
	if err := r.driver.VerifyConnectivity(ctx); err != nil {
		target := r.driver.Target()
		return errors.NewGraphConnectionFailed(target.String(), err)
	}
	return nil
}

func (r *Repository) newSession(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
}

// ProcessedSessionIDs returns ids of sessions that already have extracted
// intelligence attached (at least one outgoing SURFACED relationship).
func (r *Repository) ProcessedSessionIDs(ctx context.Context) (map[string]bool, error) {
	session := r.newSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	query := `
		MATCH (s:Session)-[:SURFACED]->(:Theme)
		RETURN DISTINCT s.id AS id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed sessions: %w", err)
	}

	processed := make(map[string]bool)
	for result.Next(ctx) {
		if id := getStringFromRecord(result.Record(), "id"); id != "" {
			processed[id] = true
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read processed sessions: %w", err)
	}

	return processed, nil
}

// Totals holds graph-wide entity counts
type Totals struct {
	Themes     int64
	Tools      int64
	PainPoints int64
	Goals      int64
	Quotes     int64
}

// EntityTotals queries fresh per-entity-type counts from the graph
func (r *Repository) EntityTotals(ctx context.Context) (*Totals, error) {
	session := r.newSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	query := `
		MATCH (t:Theme) WITH count(t) AS themes
		MATCH (tool:Tool) WITH themes, count(tool) AS tools
		MATCH (pp:PainPoint) WITH themes, tools, count(pp) AS painPoints
		MATCH (g:Goal) WITH themes, tools, painPoints, count(g) AS goals
		MATCH (q:Quote) WITH themes, tools, painPoints, goals, count(q) AS quotes
		RETURN themes, tools, painPoints, goals, quotes
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity totals: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity totals: %w", err)
	}

	return &Totals{
		Themes:     getInt64FromRecord(record, "themes"),
		Tools:      getInt64FromRecord(record, "tools"),
		PainPoints: getInt64FromRecord(record, "painPoints"),
		Goals:      getInt64FromRecord(record, "goals"),
		Quotes:     getInt64FromRecord(record, "quotes"),
	}, nil
}
