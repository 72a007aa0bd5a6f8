package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is kept to the subset of SQL shared by Postgres and SQLite.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id VARCHAR(36) PRIMARY KEY REFERENCES users (id),
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    last_name VARCHAR(255) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner_id VARCHAR(36) NOT NULL REFERENCES users (id),
    join_key VARCHAR(64) NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS project_members (
    project_id VARCHAR(36) NOT NULL REFERENCES projects (id),
    user_id VARCHAR(36) NOT NULL REFERENCES users (id),
    role VARCHAR(16) NOT NULL,
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (project_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_project_members_user ON project_members (user_id);

CREATE TABLE IF NOT EXISTS tasks (
    id VARCHAR(36) PRIMARY KEY,
    project_id VARCHAR(36) NOT NULL REFERENCES projects (id),
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    deadline DATE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks (project_id, created_at);

CREATE TABLE IF NOT EXISTS project_files (
    id VARCHAR(36) PRIMARY KEY,
    project_id VARCHAR(36) NOT NULL REFERENCES projects (id),
    file_name VARCHAR(255) NOT NULL,
    object_path VARCHAR(1024) NOT NULL UNIQUE,
    file_url VARCHAR(2048) NOT NULL,
    size BIGINT NOT NULL DEFAULT 0,
    uploaded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_project_files_project ON project_files (project_id, uploaded_at);
`

// CreateTableIfNotExists creates every table the service needs.
func CreateTableIfNotExists(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// DeleteAllTable drops every table, children first.
func DeleteAllTable(ctx context.Context, db *sqlx.DB) error {
	query := `
    DROP TABLE IF EXISTS project_files;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS project_members;
    DROP TABLE IF EXISTS projects;
    DROP TABLE IF EXISTS profiles;
    DROP TABLE IF EXISTS users;
    `
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	return nil
}
