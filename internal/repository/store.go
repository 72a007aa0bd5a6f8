package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the repositories over one connection or one transaction.
type Store struct {
	db *sqlx.DB

	Users    *UserRepository
	Profiles *ProfileRepository
	Projects *ProjectRepository
	Members  *MembershipRepository
	Tasks    *TaskRepository
	Files    *FileRepository
}

func NewStore(db *sqlx.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(q sqlx.ExtContext) *Store {
	return &Store{
		Users:    &UserRepository{q: q},
		Profiles: &ProfileRepository{q: q},
		Projects: &ProjectRepository{q: q},
		Members:  &MembershipRepository{q: q},
		Tasks:    &TaskRepository{q: q},
		Files:    &FileRepository{q: q},
	}
}

// InTx runs fn against a Store bound to a fresh transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return errors.New("nested transaction")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(bind(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", ErrDuplicate, liteErr.Error())
		}
	}
	return err
}
