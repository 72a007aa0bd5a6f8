package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

// ProfileRepository stores the one-to-one user profile.
type ProfileRepository struct {
	q sqlx.ExtContext
}

func (r *ProfileRepository) Create(ctx context.Context, profile models.Profile) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(
		"INSERT INTO profiles (user_id, first_name, last_name) VALUES (?, ?, ?)"),
		profile.UserID, profile.FirstName, profile.LastName,
	)
	if err != nil {
		return fmt.Errorf("creating profile: %w", translate(err))
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := sqlx.GetContext(ctx, r.q, &profile, r.q.Rebind(
		"SELECT user_id, first_name, last_name FROM profiles WHERE user_id = ?"), userID)
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", userID, translate(err))
	}
	return &profile, nil
}
