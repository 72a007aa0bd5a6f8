package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-collab/internal/apperr"
	"smart-collab/internal/models"
)

func TestJoinByUnknownKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	f.project(t, u1, "p1")

	before, err := f.store.Members.CountForUser(ctx, u2)
	require.NoError(t, err)

	_, err = f.members.JoinByKey(ctx, "BADKEY", u2)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	after, err := f.store.Members.CountForUser(ctx, u2)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestJoinByBlankKey(t *testing.T) {
	f := newFixture(t)
	u2 := f.user(t, "u2@example.com")

	_, err := f.members.JoinByKey(context.Background(), "   ", u2)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
}

func TestJoinByValidKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	p1 := f.project(t, u1, "p1")

	joined, err := f.members.JoinByKey(ctx, " "+p1.JoinKey+" ", u2)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, joined.Project.ID)
	assert.Equal(t, models.Membership{
		ProjectID: p1.ID, UserID: u2, Role: models.RoleMember, JoinedAt: joined.Membership.JoinedAt,
	}, joined.Membership)

	count, err := f.store.Members.CountForUser(ctx, u2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	members, err := f.members.ListMembers(ctx, p1.ID, u2)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, u1, members[0].UserID)
	assert.Equal(t, u2, members[1].UserID)
	assert.Equal(t, models.RoleMember, members[1].Role)
}

func TestJoinTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	p1 := f.project(t, u1, "p1")

	_, err := f.members.JoinByKey(ctx, p1.JoinKey, u2)
	require.NoError(t, err)
	_, err = f.members.JoinByKey(ctx, p1.JoinKey, u2)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	_, err = f.members.JoinByKey(ctx, p1.JoinKey, u1)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "owner rejoin: got %v", err)

	count, err := f.store.Members.CountForUser(ctx, u2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListMembersRequiresMembership(t *testing.T) {
	f := newFixture(t)
	u1 := f.user(t, "u1@example.com")
	u3 := f.user(t, "u3@example.com")
	p1 := f.project(t, u1, "p1")

	_, err := f.members.ListMembers(context.Background(), p1.ID, u3)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
}
