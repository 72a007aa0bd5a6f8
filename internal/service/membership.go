package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart-collab/internal/apperr"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
)

// Joined is the outcome of a successful join.
type Joined struct {
	Project    models.Project    `json:"project"`
	Membership models.Membership `json:"membership"`
}

// MembershipService links users to projects.
type MembershipService struct {
	store *repository.Store
	now   func() time.Time
}

func NewMembershipService(store *repository.Store) *MembershipService {
	return &MembershipService{store: store, now: utcNow}
}

// CreateOwnerMembership records the creator as owner. It runs on tx so it
// commits or rolls back together with the project insert.
func (s *MembershipService) CreateOwnerMembership(ctx context.Context, tx *repository.Store, projectID, userID string) error {
	return tx.Members.Create(ctx, models.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.RoleOwner,
		JoinedAt:  s.now(),
	})
}

// JoinByKey resolves joinKey to exactly one project and adds userID to it as
// a member. Joining a project twice is a conflict.
func (s *MembershipService) JoinByKey(ctx context.Context, joinKey, userID string) (*Joined, error) {
	joinKey = strings.TrimSpace(joinKey)
	if joinKey == "" {
		return nil, apperr.Validation("Please enter a project key", map[string]string{"join_key": "required"})
	}

	matches, err := s.store.Projects.FindByJoinKey(ctx, joinKey)
	if err != nil {
		return nil, apperr.Provider("Error finding project", err)
	}
	if len(matches) != 1 {
		return nil, apperr.NotFound("Invalid project key")
	}
	project := matches[0]

	m := models.Membership{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      models.RoleMember,
		JoinedAt:  s.now(),
	}
	err = s.store.Members.Create(ctx, m)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("Already a member of this project", err)
	}
	if err != nil {
		return nil, apperr.Provider("Error joining project", err)
	}
	return &Joined{Project: project, Membership: m}, nil
}

// Require returns userID's membership in projectID. Non-members get
// NotFound so project ids cannot be probed.
func (s *MembershipService) Require(ctx context.Context, projectID, userID string) (*models.Membership, error) {
	m, err := s.store.Members.Get(ctx, projectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperr.Provider("Error checking membership", err)
	}
	return m, nil
}

func (s *MembershipService) ListMembers(ctx context.Context, projectID, userID string) ([]models.Member, error) {
	if _, err := s.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}
	members, err := s.store.Members.ListMembers(ctx, projectID)
	if err != nil {
		return nil, apperr.Provider("Error fetching members", err)
	}
	return members, nil
}
