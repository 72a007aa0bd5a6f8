package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-collab/internal/apperr"
	"smart-collab/internal/repository"
	"smart-collab/internal/session"
)

func TestSignUpCreatesUserAndProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var events []session.EventKind
	sess, err := f.identity.SignUp(ctx, SignUpInput{
		Email: "  Ada@Example.com ", Password: "secret123", FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	f.bus.Subscribe(sess.User.ID, func(e session.Event) { events = append(events, e.Kind) })

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ada@example.com", sess.User.Email)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Ada", sess.Profile.FirstName)

	profile, err := f.identity.Profile(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", profile.LastName)

	_, err = f.identity.SignUp(ctx, SignUpInput{Email: "ada@example.com", Password: "another1", FirstName: "Ada", LastName: "King"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	tok, err := f.identity.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	require.NoError(t, f.identity.SignOut(ctx, tok))
	assert.Equal(t, []session.EventKind{session.SignedOut}, events)
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.identity.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "123"})
	require.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email", appErr.Fields["email"])
	assert.Equal(t, "min", appErr.Fields["password"])
	assert.Equal(t, "required", appErr.Fields["first_name"])
	assert.Equal(t, "required", appErr.Fields["last_name"])
}

func TestSignUpRejectsPasswordOverBcryptLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 40 runes, 120 bytes.
	_, err := f.identity.SignUp(ctx, SignUpInput{
		Email: "euro@example.com", Password: strings.Repeat("€", 40), FirstName: "Eu", LastName: "Ro",
	})
	require.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "max", appErr.Fields["password"])

	_, err = f.store.Users.GetByEmail(ctx, "euro@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.identity.SignUp(ctx, SignUpInput{
		Email: "euro@example.com", Password: strings.Repeat("€", 24), FirstName: "Eu", LastName: "Ro",
	})
	assert.NoError(t, err)
}

func TestSignInAndSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.identity.SignUp(ctx, SignUpInput{Email: "bob@example.com", Password: "password123", FirstName: "Bob", LastName: "Stone"})
	require.NoError(t, err)

	_, err = f.identity.SignIn(ctx, SignInInput{Email: "bob@example.com", Password: "wrong-pass"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)
	_, err = f.identity.SignIn(ctx, SignInInput{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)

	sess, err := f.identity.SignIn(ctx, SignInInput{Email: "BOB@example.com", Password: "password123"})
	require.NoError(t, err)

	tok, err := f.identity.Authenticate(ctx, sess.Token)
	require.NoError(t, err)

	current, err := f.identity.GetSession(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", current.User.Email)

	require.NoError(t, f.identity.SignOut(ctx, tok))
	_, err = f.identity.Authenticate(ctx, sess.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)
}

func TestRefreshRevokesOldToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.identity.SignUp(ctx, SignUpInput{Email: "carol@example.com", Password: "password123", FirstName: "Carol", LastName: "Shaw"})
	require.NoError(t, err)

	var events []session.EventKind
	unsubscribe := f.bus.Subscribe(sess.User.ID, func(e session.Event) { events = append(events, e.Kind) })
	defer unsubscribe()

	tok, err := f.identity.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	next, err := f.identity.Refresh(ctx, tok)
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token, next.Token)

	_, err = f.identity.Authenticate(ctx, sess.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = f.identity.Authenticate(ctx, next.Token)
	assert.NoError(t, err)

	assert.Equal(t, []session.EventKind{session.Refreshed}, events)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.identity.Authenticate(context.Background(), "garbage")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
