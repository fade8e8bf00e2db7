package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cascade-intel/pkg/errors"
	"cascade-intel/pkg/logger"
)

const sessionsTable = "cascade_sessions"

// Store reads assessment sessions from the relational source store
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects to the source store
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping source store: %w", err)
	}

	return &Store{
		pool:   pool,
		logger: logger.Get(),
	}, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// FetchSessions returns candidate sessions for the pipeline. With a sessionID
// it returns that session regardless of status; otherwise it returns all
// sessions whose status is "analyzed".
func (s *Store) FetchSessions(ctx context.Context, sessionID string) ([]Session, error) {
	query := `SELECT id, status, data FROM cascade_sessions WHERE status = 'analyzed' ORDER BY id`
	args := []interface{}{}
	if sessionID != "" {
		query = `SELECT id, status, data FROM cascade_sessions WHERE id = $1`
		args = append(args, sessionID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreQueryFailed(sessionsTable, err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			session Session
			payload []byte
		)
		if err := rows.Scan(&session.ID, &session.Status, &payload); err != nil {
			return nil, errors.NewStoreQueryFailed(sessionsTable, err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &session.Data); err != nil {
				return nil, errors.NewStoreQueryFailed(sessionsTable, fmt.Errorf("malformed data payload for session %s: %w", session.ID, err))
			}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreQueryFailed(sessionsTable, err)
	}

	s.logger.Info("Fetched analyzed sessions from source store",
		zap.Int("count", len(sessions)),
	)
	return sessions, nil
}
