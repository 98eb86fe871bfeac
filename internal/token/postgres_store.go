package token

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed store. Redemption is a single
// DELETE ... RETURNING statement, which the database serializes per row.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Create(ctx context.Context, purpose Purpose, subjectRef, projectID string, ttl time.Duration) (*Record, error) {
	value, err := NewValue()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Value:      value,
		Purpose:    purpose,
		SubjectRef: subjectRef,
		ProjectID:  projectID,
		ExpiresAt:  time.Now().Add(ttl),
	}

	const query = `
        INSERT INTO ephemeral_tokens (token_value, purpose, subject_ref, project_id, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	if err := s.pool.QueryRow(ctx, query,
		rec.Value,
		rec.Purpose,
		rec.SubjectRef,
		rec.ProjectID,
		rec.ExpiresAt,
	).Scan(&rec.CreatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *postgresStore) Redeem(ctx context.Context, value string) (*Record, error) {
	const query = `
        DELETE FROM ephemeral_tokens WHERE token_value=$1
        RETURNING purpose, subject_ref, project_id, created_at, expires_at`

	rec := &Record{Value: value}
	err := s.pool.QueryRow(ctx, query, value).Scan(
		&rec.Purpose,
		&rec.SubjectRef,
		&rec.ProjectID,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !rec.Live(time.Now()) {
		// the losing delete already purged the row
		return nil, ErrExpired
	}
	return rec, nil
}

func (s *postgresStore) Peek(ctx context.Context, value string) (*Record, error) {
	const query = `
        SELECT purpose, subject_ref, project_id, created_at, expires_at
        FROM ephemeral_tokens WHERE token_value=$1`

	rec := &Record{Value: value}
	err := s.pool.QueryRow(ctx, query, value).Scan(
		&rec.Purpose,
		&rec.SubjectRef,
		&rec.ProjectID,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !rec.Live(time.Now()) {
		return nil, ErrExpired
	}
	return rec, nil
}

// PurgeExpired removes expired rows in bulk.
func (s *postgresStore) PurgeExpired(ctx context.Context) (int, error) {
	const query = `DELETE FROM ephemeral_tokens WHERE expires_at <= NOW()`
	cmd, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}
