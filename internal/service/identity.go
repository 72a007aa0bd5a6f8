package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"smart-collab/internal/apperr"
	"smart-collab/internal/auth"
	"smart-collab/internal/cache"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
	"smart-collab/internal/session"
	"smart-collab/pkg/crypto"
)

type SignUpInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a client holds while signed in.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      models.User     `json:"user"`
	Profile   *models.Profile `json:"profile,omitempty"`
}

// IdentityService owns sign-up, sign-in and the session lifecycle.
type IdentityService struct {
	store   *repository.Store
	issuer  *auth.Issuer
	revoked cache.Cache
	bus     *session.Bus
	now     func() time.Time
}

func NewIdentityService(store *repository.Store, issuer *auth.Issuer, revoked cache.Cache, bus *session.Bus) *IdentityService {
	return &IdentityService{store: store, issuer: issuer, revoked: revoked, bus: bus, now: utcNow}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and its profile together and signs the user in.
func (s *IdentityService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	// bcrypt rejects anything over 72 bytes; max=72 above counts runes.
	if len(in.Password) > crypto.MaxPasswordBytes {
		return nil, apperr.Validation("Validation error", map[string]string{"password": "max"})
	}

	hashed, err := crypto.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Provider("Error hashing password", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hashed,
		CreatedAt:    s.now(),
	}
	profile := models.Profile{UserID: user.ID, FirstName: in.FirstName, LastName: in.LastName}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profiles.Create(ctx, profile)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("Email already registered", err)
	}
	if err != nil {
		return nil, apperr.Provider("Error creating user", err)
	}

	return s.open(user, &profile, session.SignedIn)
}

func (s *IdentityService) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Provider("Error signing in", err)
	}
	if !crypto.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	profile, err := s.profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.open(*user, profile, session.SignedIn)
}

// Authenticate verifies a bearer token and checks it has not been revoked.
func (s *IdentityService) Authenticate(ctx context.Context, tokenString string) (auth.Token, error) {
	tok, err := s.issuer.Verify(tokenString)
	if err != nil {
		return auth.Token{}, apperr.Unauthorized("Invalid or expired token")
	}
	revoked, err := s.revoked.Exists(ctx, revokedKey(tok.ID))
	if err != nil {
		return auth.Token{}, apperr.Provider("Error checking session", err)
	}
	if revoked {
		return auth.Token{}, apperr.Unauthorized("Session has been signed out")
	}
	return tok, nil
}

// GetSession describes the session behind an authenticated token.
func (s *IdentityService) GetSession(ctx context.Context, tok auth.Token) (*Session, error) {
	user, err := s.store.Users.GetByID(ctx, tok.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("User no longer exists")
	}
	if err != nil {
		return nil, apperr.Provider("Error loading session", err)
	}
	profile, err := s.profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: *user, Profile: profile}, nil
}

// Refresh swaps tok for a fresh token and revokes the old one.
func (s *IdentityService) Refresh(ctx context.Context, tok auth.Token) (*Session, error) {
	current, err := s.GetSession(ctx, tok)
	if err != nil {
		return nil, err
	}
	next, err := s.open(current.User, current.Profile, session.Refreshed)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, tok); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *IdentityService) SignOut(ctx context.Context, tok auth.Token) error {
	if err := s.revoke(ctx, tok); err != nil {
		return err
	}
	s.bus.Publish(session.Event{Kind: session.SignedOut, UserID: tok.UserID, At: s.now()})
	return nil
}

// Profile returns the caller's profile.
func (s *IdentityService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("Profile not found")
	}
	return profile, nil
}

func (s *IdentityService) profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.store.Profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Provider("Error loading profile", err)
	}
	return profile, nil
}

func (s *IdentityService) open(user models.User, profile *models.Profile, kind session.EventKind) (*Session, error) {
	tok, err := s.issuer.Generate(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Provider("Error generating token", err)
	}
	s.bus.Publish(session.Event{Kind: kind, UserID: user.ID, At: s.now()})
	return &Session{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: user, Profile: profile}, nil
}

func (s *IdentityService) revoke(ctx context.Context, tok auth.Token) error {
	ttl := tok.ExpiresAt.Sub(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Set(ctx, revokedKey(tok.ID), []byte("1"), ttl); err != nil {
		return apperr.Provider("Error revoking session", err)
	}
	return nil
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}
