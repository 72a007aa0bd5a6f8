package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

// MembershipRepository stores project_members rows.
type MembershipRepository struct {
	q sqlx.ExtContext
}

// Create inserts a membership. A second row for the same (project, user)
// pair fails with ErrDuplicate.
func (r *MembershipRepository) Create(ctx context.Context, m models.Membership) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(
		"INSERT INTO project_members (project_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)"),
		m.ProjectID, m.UserID, m.Role, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("creating membership: %w", translate(err))
	}
	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, projectID, userID string) (*models.Membership, error) {
	var m models.Membership
	err := sqlx.GetContext(ctx, r.q, &m, r.q.Rebind(
		"SELECT project_id, user_id, role, joined_at FROM project_members WHERE project_id = ? AND user_id = ?"),
		projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting membership: %w", translate(err))
	}
	return &m, nil
}

// ListMembers returns the members of a project with their profile names,
// owner first then by join time.
func (r *MembershipRepository) ListMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	members := []models.Member{}
	err := sqlx.SelectContext(ctx, r.q, &members, r.q.Rebind(`
		SELECT m.user_id, u.email,
			COALESCE(pr.first_name, '') AS first_name,
			COALESCE(pr.last_name, '') AS last_name,
			m.role, m.joined_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN profiles pr ON pr.user_id = m.user_id
		WHERE m.project_id = ?
		ORDER BY CASE WHEN m.role = 'owner' THEN 0 ELSE 1 END, m.joined_at`), projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", projectID, translate(err))
	}
	return members, nil
}

func (r *MembershipRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, r.q.Rebind(
		"SELECT COUNT(*) FROM project_members WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("counting memberships: %w", translate(err))
	}
	return count, nil
}
