package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart-collab/internal/apperr"
	"smart-collab/internal/cache"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
	"smart-collab/internal/storage"
	"smart-collab/pkg/crypto"
	"smart-collab/pkg/logger"
)

const (
	joinKeyAttempts = 5
	projectCacheTTL = time.Hour
)

type CreateProjectInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// ProjectService manages projects and their lifecycle.
type ProjectService struct {
	store      *repository.Store
	members    *MembershipService
	cache      cache.Cache
	objects    storage.ObjectStore
	newJoinKey func() (string, error)
	now        func() time.Time
}

func NewProjectService(store *repository.Store, members *MembershipService, c cache.Cache, objects storage.ObjectStore) *ProjectService {
	return &ProjectService{
		store:      store,
		members:    members,
		cache:      c,
		objects:    objects,
		newJoinKey: crypto.NewJoinKey,
		now:        utcNow,
	}
}

// Create inserts the project with a fresh join key and the owner membership
// in one transaction. A key collision restarts the transaction with a new key.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in CreateProjectInput) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < joinKeyAttempts; attempt++ {
		key, err := s.newJoinKey()
		if err != nil {
			return nil, apperr.Provider("Error generating join key", err)
		}
		project := models.Project{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Description: in.Description,
			OwnerID:     ownerID,
			JoinKey:     key,
			CreatedAt:   s.now(),
		}

		err = s.store.InTx(ctx, func(tx *repository.Store) error {
			taken, err := tx.Projects.JoinKeyExists(ctx, key)
			if err != nil {
				return err
			}
			if taken {
				return repository.ErrDuplicate
			}
			if err := tx.Projects.Create(ctx, project); err != nil {
				return err
			}
			return s.members.CreateOwnerMembership(ctx, tx, project.ID, ownerID)
		})
		if errors.Is(err, repository.ErrDuplicate) {
			logger.SystemLogger.Info("Join key collision, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, apperr.Provider("Error creating project", err)
		}
		return &project, nil
	}
	return nil, apperr.Provider("Error creating project", fmt.Errorf("no unique join key after %d attempts", joinKeyAttempts))
}

// List returns the projects userID is a member of, newest first.
func (s *ProjectService) List(ctx context.Context, userID string) ([]models.Project, error) {
	projects, err := s.store.Projects.ListForMember(ctx, userID)
	if err != nil {
		return nil, apperr.Provider("Error fetching projects", err)
	}
	return projects, nil
}

// Get returns a project the caller belongs to, served from cache when warm.
func (s *ProjectService) Get(ctx context.Context, projectID, userID string) (*models.Project, error) {
	if _, err := s.members.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}

	key := projectCacheKey(projectID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var project models.Project
		if err := json.Unmarshal(cached, &project); err == nil {
			return &project, nil
		}
	}

	project, err := s.store.Projects.GetByID(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperr.Provider("Error fetching project", err)
	}

	if data, err := json.Marshal(project); err == nil {
		if err := s.cache.Set(ctx, key, data, projectCacheTTL); err != nil {
			logger.ErrorLogger.Error("Error caching project", zap.String("project_id", projectID), zap.Error(err))
		}
	}
	return project, nil
}

// Delete removes the project with its tasks, files and memberships. Only the
// owner may delete.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID string) error {
	membership, err := s.members.Require(ctx, projectID, userID)
	if err != nil {
		return err
	}
	project, err := s.store.Projects.GetByID(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Project not found")
	}
	if err != nil {
		return apperr.Provider("Error fetching project", err)
	}
	if project.OwnerID != userID || membership.Role != models.RoleOwner {
		return apperr.Forbidden("Only the project owner can delete this project")
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		return tx.Projects.Delete(ctx, projectID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Project not found")
	}
	if err != nil {
		return apperr.Provider("Error deleting project", err)
	}

	if err := s.cache.Del(ctx, projectCacheKey(projectID)); err != nil {
		logger.ErrorLogger.Error("Error evicting project cache", zap.String("project_id", projectID), zap.Error(err))
	}
	if err := s.objects.DeletePrefix(ctx, projectObjectPrefix(projectID)); err != nil {
		logger.ErrorLogger.Error("Error deleting project objects", zap.String("project_id", projectID), zap.Error(err))
	}
	return nil
}

func projectCacheKey(projectID string) string {
	return "project:" + projectID
}

func projectObjectPrefix(projectID string) string {
	return "projects/" + projectID
}
