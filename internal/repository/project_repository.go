package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

const projectColumns = "p.id, p.name, p.description, p.owner_id, p.join_key, p.created_at"

// ProjectRepository stores projects.
type ProjectRepository struct {
	q sqlx.ExtContext
}

// Create inserts a project. A join key collision surfaces as ErrDuplicate.
func (r *ProjectRepository) Create(ctx context.Context, project models.Project) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		INSERT INTO projects (id, name, description, owner_id, join_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		project.ID, project.Name, project.Description, project.OwnerID, project.JoinKey, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", translate(err))
	}
	return nil
}

func (r *ProjectRepository) JoinKeyExists(ctx context.Context, joinKey string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, r.q.Rebind(
		"SELECT COUNT(*) FROM projects WHERE join_key = ?"), joinKey)
	if err != nil {
		return false, fmt.Errorf("checking join key: %w", translate(err))
	}
	return count > 0, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := sqlx.GetContext(ctx, r.q, &project, r.q.Rebind(
		"SELECT "+projectColumns+" FROM projects p WHERE p.id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, translate(err))
	}
	return &project, nil
}

// FindByJoinKey returns every project carrying joinKey. Callers decide what
// zero or several matches mean.
func (r *ProjectRepository) FindByJoinKey(ctx context.Context, joinKey string) ([]models.Project, error) {
	var projects []models.Project
	err := sqlx.SelectContext(ctx, r.q, &projects, r.q.Rebind(
		"SELECT "+projectColumns+" FROM projects p WHERE p.join_key = ?"), joinKey)
	if err != nil {
		return nil, fmt.Errorf("finding project by join key: %w", translate(err))
	}
	return projects, nil
}

// ListForMember returns the projects userID belongs to, newest first.
func (r *ProjectRepository) ListForMember(ctx context.Context, userID string) ([]models.Project, error) {
	projects := []models.Project{}
	err := sqlx.SelectContext(ctx, r.q, &projects, r.q.Rebind(`
		SELECT `+projectColumns+`
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = ?
		ORDER BY p.created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects for %s: %w", userID, translate(err))
	}
	return projects, nil
}

// Delete removes a project and every row that hangs off it.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	for _, query := range []string{
		"DELETE FROM project_files WHERE project_id = ?",
		"DELETE FROM tasks WHERE project_id = ?",
		"DELETE FROM project_members WHERE project_id = ?",
	} {
		if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), id); err != nil {
			return fmt.Errorf("deleting project %s children: %w", id, translate(err))
		}
	}
	result, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, translate(err))
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting project %s: %w", id, ErrNotFound)
	}
	return nil
}
