package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smart-collab/internal/models"
)

// UserRepository stores accounts.
type UserRepository struct {
	q sqlx.ExtContext
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)"),
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q, &user, r.q.Rebind(
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?"), email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q, &user, r.q.Rebind(
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, translate(err))
	}
	return &user, nil
}
