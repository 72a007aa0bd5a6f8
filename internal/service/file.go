package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart-collab/internal/apperr"
	"smart-collab/internal/models"
	"smart-collab/internal/repository"
	"smart-collab/internal/storage"
	"smart-collab/pkg/logger"
)

type UploadInput struct {
	FileName string
	Size     int64
	Body     io.Reader
}

type FileService struct {
	store    *repository.Store
	members  *MembershipService
	objects  storage.ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewFileService(store *repository.Store, members *MembershipService, objects storage.ObjectStore, maxBytes int64) *FileService {
	return &FileService{store: store, members: members, objects: objects, maxBytes: maxBytes, now: utcNow}
}

// Upload stores the blob under the project's namespace and records its
// public URL. The blob is removed again if the record cannot be written.
func (s *FileService) Upload(ctx context.Context, projectID, userID string, in UploadInput) (*models.ProjectFile, error) {
	name := baseName(in.FileName)
	if name == "" || in.Body == nil {
		return nil, apperr.Validation("No file selected", map[string]string{"file": "required"})
	}
	if in.Size > s.maxBytes {
		return nil, apperr.TooLarge(fmt.Sprintf("File exceeds the limit of %d bytes", s.maxBytes))
	}
	if _, err := s.members.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}

	uploadedAt := s.now()
	objectPath := fmt.Sprintf("%s/%d_%s", projectObjectPrefix(projectID), uploadedAt.UnixNano(), safeSegment(name))

	written, err := s.objects.Put(ctx, objectPath, io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, apperr.Provider("Error saving file", err)
	}
	if written > s.maxBytes {
		s.discard(ctx, objectPath)
		return nil, apperr.TooLarge(fmt.Sprintf("File exceeds the limit of %d bytes", s.maxBytes))
	}

	file := models.ProjectFile{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		FileName:   name,
		ObjectPath: objectPath,
		FileURL:    s.objects.PublicURL(objectPath),
		Size:       written,
		UploadedAt: uploadedAt,
	}
	if err := s.store.Files.Create(ctx, file); err != nil {
		s.discard(ctx, objectPath)
		return nil, apperr.Provider("Error recording file", err)
	}
	return &file, nil
}

// List returns a project's files, most recent upload first.
func (s *FileService) List(ctx context.Context, projectID, userID string) ([]models.ProjectFile, error) {
	if _, err := s.members.Require(ctx, projectID, userID); err != nil {
		return nil, err
	}
	files, err := s.store.Files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Provider("Error fetching files", err)
	}
	return files, nil
}

func (s *FileService) discard(ctx context.Context, objectPath string) {
	if err := s.objects.Delete(ctx, objectPath); err != nil {
		logger.ErrorLogger.Error("Error removing orphaned upload", zap.String("path", objectPath), zap.Error(err))
	}
}

func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// safeSegment keeps a filename usable as one URL path segment.
func safeSegment(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
