package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"projects/p1/a.txt":      "projects/p1/a.txt",
		"/projects/p1/a.txt":     "projects/p1/a.txt",
		"projects/../../etc/pwd": "etc/pwd",
		"projects\\p1\\a.txt":    "projects/p1/a.txt",
	}
	for in, want := range cases {
		got, err := Clean(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Clean("")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = Clean("../..")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir(), "http://localhost:3004/")
	require.NoError(t, err)

	n, err := l.Put(ctx, "projects/p1/1_notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "http://localhost:3004/files/projects/p1/1_notes.txt", l.PublicURL("projects/p1/1_notes.txt"))

	rc, err := l.Open(ctx, "projects/p1/1_notes.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	var seen []string
	require.NoError(t, l.Walk(ctx, func(o Object) error {
		seen = append(seen, o.Path)
		return nil
	}))
	assert.Equal(t, []string{"projects/p1/1_notes.txt"}, seen)

	require.NoError(t, l.Delete(ctx, "projects/p1/1_notes.txt"))
	_, err = l.Open(ctx, "projects/p1/1_notes.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, l.Delete(ctx, "projects/p1/1_notes.txt"))
}

func TestLocalDeletePrefix(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)

	_, err = l.Put(ctx, "projects/p1/a", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = l.Put(ctx, "projects/p2/b", strings.NewReader("b"))
	require.NoError(t, err)

	require.NoError(t, l.DeletePrefix(ctx, "projects/p1"))

	_, err = l.Open(ctx, "projects/p1/a")
	assert.ErrorIs(t, err, ErrNotFound)
	rc, err := l.Open(ctx, "projects/p2/b")
	require.NoError(t, err)
	rc.Close()
}
