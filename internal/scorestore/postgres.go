// Package scorestore persists score results so clients can fetch them later
// via GET /scores/{id}. Persistence is additive: scoring works without it.
package scorestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resume-scorer/internal/models"
)

// ErrNotFound is returned when no score exists for the requested id.
var ErrNotFound = errors.New("score not found")

// Expected schema:
//
//	CREATE TABLE scores (
//	    id            UUID PRIMARY KEY,
//	    engine        TEXT NOT NULL,
//	    score         DOUBLE PRECISION NOT NULL,
//	    matched_terms TEXT[] NOT NULL DEFAULT '{}',
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Insert(ctx context.Context, record *models.ScoreRecord) error {
	sql := `
		INSERT INTO scores (id, engine, score, matched_terms, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`

	_, err := s.Pool.Exec(
		ctx,
		sql,
		record.ID,
		record.Engine,
		record.Score,
		record.MatchedTerms,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert score record: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*models.ScoreRecord, error) {
	var record models.ScoreRecord

	sql := `
		SELECT id, engine, score, matched_terms, created_at
		FROM scores
		WHERE id = $1
		`

	err := s.Pool.QueryRow(ctx, sql, id).Scan(
		&record.ID,
		&record.Engine,
		&record.Score,
		&record.MatchedTerms,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve score record: %w", err)
	}

	return &record, nil
}
