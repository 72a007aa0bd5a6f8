package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

// TaskRepository stores project tasks.
type TaskRepository struct {
	q sqlx.ExtContext
}

func (r *TaskRepository) Create(ctx context.Context, task models.Task) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		INSERT INTO tasks (id, project_id, title, description, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		task.ID, task.ProjectID, task.Title, task.Description, task.Deadline, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", translate(err))
	}
	return nil
}

// ListByProject returns a project's tasks, newest first.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := sqlx.SelectContext(ctx, r.q, &tasks, r.q.Rebind(`
		SELECT id, project_id, title, description, deadline, created_at
		FROM tasks WHERE project_id = ?
		ORDER BY created_at DESC`), projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks of %s: %w", projectID, translate(err))
	}
	return tasks, nil
}
