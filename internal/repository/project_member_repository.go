package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectMemberRepository is the membership registry the invitation flow
// mutates on successful redemption.
type ProjectMemberRepository interface {
	AddMember(ctx context.Context, projectID, userID string) error
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
	RemoveMember(ctx context.Context, projectID, userID string) error
}

type projectMemberRepository struct {
	pool *pgxpool.Pool
}

// NewProjectMemberRepository returns a Postgres-backed implementation.
func NewProjectMemberRepository(pool *pgxpool.Pool) ProjectMemberRepository {
	return &projectMemberRepository{pool: pool}
}

func (r *projectMemberRepository) AddMember(ctx context.Context, projectID, userID string) error {
	// re-accepting an invitation to a project the user already joined is a no-op
	const query = `
        INSERT INTO project_members (project_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (project_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, projectID, userID)
	return err
}

func (r *projectMemberRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS(
            SELECT 1 FROM project_members WHERE project_id=$1 AND user_id=$2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *projectMemberRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	const query = `
        DELETE FROM project_members WHERE project_id=$1 AND user_id=$2`
	_, err := r.pool.Exec(ctx, query, projectID, userID)
	return err
}
