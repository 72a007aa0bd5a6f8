package handlers

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smart-collab/internal/apperr"
	"smart-collab/internal/service"
	"smart-collab/internal/storage"
	"smart-collab/pkg/logger"
)

// UploadFile accepts a multipart form with the blob in field "file".
func (h *Handler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fail(c, apperr.Validation("No file selected", map[string]string{"file": "required"}))
	}
	body, err := header.Open()
	if err != nil {
		return fail(c, apperr.Provider("Error reading upload", err))
	}
	defer body.Close()

	file, err := h.Files.Upload(c.UserContext(), c.Params("id"), currentUser(c), service.UploadInput{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     body,
	})
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("File uploaded", zap.String("file_id", file.ID), zap.String("path", file.ObjectPath))
	return respond(c, fiber.StatusCreated, "File uploaded successfully", file)
}

func (h *Handler) ListFiles(c *fiber.Ctx) error {
	files, err := h.Files.List(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Files fetched successfully", files)
}

// ServeFile streams a stored blob by its object path.
func (h *Handler) ServeFile(c *fiber.Ctx) error {
	objectPath := c.Params("*")
	rc, err := h.Objects.Open(c.UserContext(), objectPath)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		return fail(c, apperr.NotFound("File not found"))
	}
	if err != nil {
		return fail(c, apperr.Provider("Error opening file", err))
	}
	if ext := filepath.Ext(objectPath); ext != "" {
		c.Type(ext)
	}
	return c.SendStream(rc)
}
