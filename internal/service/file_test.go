package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-collab/internal/apperr"
	"smart-collab/internal/storage"
)

func TestUploadThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	p1 := f.project(t, u1, "p1")

	blobA := "contents of blob A"
	uploaded, err := f.files.Upload(ctx, p1.ID, u1, UploadInput{
		FileName: "notes.txt", Size: int64(len(blobA)), Body: strings.NewReader(blobA),
	})
	require.NoError(t, err)

	files, err := f.files.List(ctx, p1.ID, u1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, uploaded.ID, files[0].ID)
	assert.Equal(t, "notes.txt", files[0].FileName)
	assert.True(t, strings.HasPrefix(files[0].FileURL, "http://localhost:3004/files/projects/"+p1.ID+"/"))
	assert.True(t, strings.HasSuffix(files[0].FileURL, "_notes.txt"))

	objectPath := strings.TrimPrefix(files[0].FileURL, "http://localhost:3004/files/")
	rc, err := f.objects.Open(ctx, objectPath)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, blobA, string(body))
}

func TestSameFilenameDoesNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	p1 := f.project(t, u1, "p1")

	a, err := f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "report.pdf", Size: 1, Body: strings.NewReader("1")})
	require.NoError(t, err)
	b, err := f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "report.pdf", Size: 1, Body: strings.NewReader("2")})
	require.NoError(t, err)
	assert.NotEqual(t, a.ObjectPath, b.ObjectPath)

	files, err := f.files.List(ctx, p1.ID, u1)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, b.ID, files[0].ID)
}

func TestUploadPathStaysInProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	p1 := f.project(t, u1, "p1")

	file, err := f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "../../etc/my file.txt", Size: 1, Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "my file.txt", file.FileName)
	assert.True(t, strings.HasPrefix(file.ObjectPath, "projects/"+p1.ID+"/"))
	assert.True(t, strings.HasSuffix(file.ObjectPath, "_my_file.txt"))
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	u2 := f.user(t, "u2@example.com")
	p1 := f.project(t, u1, "p1")

	_, err := f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "", Body: strings.NewReader("x")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)

	_, err = f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "big.bin", Size: 4096, Body: strings.NewReader("x")})
	assert.True(t, apperr.Is(err, apperr.KindTooLarge), "got %v", err)

	// Declared size lies; the stream itself is over the limit.
	_, err = f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "big.bin", Size: 1, Body: strings.NewReader(strings.Repeat("x", 2048))})
	assert.True(t, apperr.Is(err, apperr.KindTooLarge), "got %v", err)

	_, err = f.files.Upload(ctx, p1.ID, u2, UploadInput{FileName: "a.txt", Size: 1, Body: strings.NewReader("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	assertNoObjects(t, f)
}

func TestUploadRemovesBlobWhenRecordFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	p1 := f.project(t, u1, "p1")

	_, err := f.db.Exec("DROP TABLE project_files")
	require.NoError(t, err)

	_, err = f.files.Upload(ctx, p1.ID, u1, UploadInput{FileName: "a.txt", Size: 1, Body: strings.NewReader("x")})
	assert.True(t, apperr.Is(err, apperr.KindProvider), "got %v", err)

	assertNoObjects(t, f)
}

func assertNoObjects(t *testing.T, f *fixture) {
	t.Helper()
	var paths []string
	require.NoError(t, f.objects.Walk(context.Background(), func(o storage.Object) error {
		paths = append(paths, o.Path)
		return nil
	}))
	assert.Empty(t, paths)
}
