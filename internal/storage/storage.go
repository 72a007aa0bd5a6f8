// Package storage holds uploaded blobs and hands out their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid object path")
)

// Object describes a stored blob.
type Object struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type ObjectStore interface {
	Put(ctx context.Context, objectPath string, r io.Reader) (int64, error)
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectPath string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Walk(ctx context.Context, fn func(Object) error) error
	PublicURL(objectPath string) string
}

// Local keeps objects on disk under root and publishes them below baseURL.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Clean normalises an object path and rejects anything escaping the root.
func Clean(objectPath string) (string, error) {
	p := path.Clean("/" + strings.ReplaceAll(objectPath, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "", ErrInvalidPath
	}
	return p, nil
}

func (l *Local) resolve(objectPath string) (string, string, error) {
	p, err := Clean(objectPath)
	if err != nil {
		return "", "", err
	}
	return p, filepath.Join(l.root, filepath.FromSlash(p)), nil
}

func (l *Local) Put(ctx context.Context, objectPath string, r io.Reader) (int64, error) {
	_, full, err := l.resolve(objectPath)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return 0, fmt.Errorf("creating object dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("creating object: %w", err)
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("writing object: %w", err)
	}
	return n, nil
}

func (l *Local) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	_, full, err := l.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, objectPath string) error {
	_, full, err := l.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

func (l *Local) DeletePrefix(_ context.Context, prefix string) error {
	_, full, err := l.resolve(prefix)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("deleting prefix: %w", err)
	}
	return nil
}

func (l *Local) Walk(ctx context.Context, fn func(Object) error) error {
	return filepath.WalkDir(l.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.root, full)
		if err != nil {
			return err
		}
		return fn(Object{Path: filepath.ToSlash(rel), Size: info.Size(), ModTime: info.ModTime()})
	})
}

func (l *Local) PublicURL(objectPath string) string {
	return l.baseURL + "/files/" + objectPath
}
