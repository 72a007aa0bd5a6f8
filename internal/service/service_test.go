package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"smart-collab/internal/auth"
	"smart-collab/internal/cache"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
	"smart-collab/internal/session"
	"smart-collab/internal/storage"
	"smart-collab/internal/testutil"
)

type fixture struct {
	db       *sqlx.DB
	store    *repository.Store
	cache    *cache.Memory
	objects  *storage.Local
	bus      *session.Bus
	identity *IdentityService
	members  *MembershipService
	projects *ProjectService
	tasks    *TaskService
	files    *FileService
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	c := cache.NewMemory()
	objects, err := storage.NewLocal(t.TempDir(), "http://localhost:3004")
	require.NoError(t, err)
	bus := session.NewBus()
	clock := tickingClock()

	members := NewMembershipService(store)
	members.now = clock
	projects := NewProjectService(store, members, c, objects)
	projects.now = clock
	tasks := NewTaskService(store, members)
	tasks.now = clock
	files := NewFileService(store, members, objects, 1024)
	files.now = clock
	identity := NewIdentityService(store, auth.NewIssuer("test-secret", time.Hour), c, bus)

	return &fixture{
		db: db, store: store, cache: c, objects: objects, bus: bus,
		identity: identity, members: members, projects: projects, tasks: tasks, files: files,
	}
}

// user inserts an account directly and returns its id.
func (f *fixture) user(t *testing.T, email string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.store.Users.Create(context.Background(), models.User{
		ID: id, Email: email, PasswordHash: "x", CreatedAt: time.Now().UTC(),
	}))
	return id
}

func (f *fixture) project(t *testing.T, ownerID, name string) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), ownerID, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}
