package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

// FileRepository stores project_files rows pointing into object storage.
type FileRepository struct {
	q sqlx.ExtContext
}

func (r *FileRepository) Create(ctx context.Context, file models.ProjectFile) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		INSERT INTO project_files (id, project_id, file_name, object_path, file_url, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		file.ID, file.ProjectID, file.FileName, file.ObjectPath, file.FileURL, file.Size, file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project file: %w", translate(err))
	}
	return nil
}

// ListByProject returns a project's files, most recent upload first.
func (r *FileRepository) ListByProject(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	files := []models.ProjectFile{}
	err := sqlx.SelectContext(ctx, r.q, &files, r.q.Rebind(`
		SELECT id, project_id, file_name, object_path, file_url, size, uploaded_at
		FROM project_files WHERE project_id = ?
		ORDER BY uploaded_at DESC`), projectID)
	if err != nil {
		return nil, fmt.Errorf("listing files of %s: %w", projectID, translate(err))
	}
	return files, nil
}

// ObjectPathExists reports whether any record references path.
func (r *FileRepository) ObjectPathExists(ctx context.Context, path string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, r.q.Rebind(
		"SELECT COUNT(*) FROM project_files WHERE object_path = ?"), path)
	if err != nil {
		return false, fmt.Errorf("checking object path: %w", translate(err))
	}
	return count > 0, nil
}
