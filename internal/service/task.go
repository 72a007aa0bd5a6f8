package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"smart-collab/internal/apperr"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
)

const deadlineLayout = "2006-01-02"

type CreateTaskInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

type TaskService struct {
	store   *repository.Store
	members *MembershipService
	now     func() time.Time
}

func NewTaskService(store *repository.Store, members *MembershipService) *TaskService {
	return &TaskService{store: store, members: members, now: utcNow}
}

// Create adds a task to a project the caller belongs to. Input is validated
// before anything touches the store.
func (s *TaskService) Create(ctx context.Context, projectID, userID string, in CreateTaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Deadline = strings.TrimSpace(in.Deadline)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var deadline *time.Time
	if in.Deadline != "" {
		d, err := time.ParseInLocation(deadlineLayout, in.Deadline, time.UTC)
		if err != nil {
			return nil, apperr.Validation("Validation error", map[string]string{"deadline": "datetime"})
		}
		deadline = &d
	}

	if _, err := s.members.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    deadline,
		CreatedAt:   s.now(),
	}
	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, apperr.Provider("Error creating task", err)
	}
	return &task, nil
}

// List returns a project's tasks, newest first.
func (s *TaskService) List(ctx context.Context, projectID, userID string) ([]models.Task, error) {
	if _, err := s.members.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Provider("Error fetching tasks", err)
	}
	return tasks, nil
}
