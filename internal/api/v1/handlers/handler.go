package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smart-collab/internal/apperr"
	"smart-collab/internal/auth"
	"smart-collab/internal/service"
	"smart-collab/internal/storage"
	"smart-collab/pkg/logger"
)

// Handler serves the v1 API on top of the domain services.
type Handler struct {
	Identity *service.IdentityService
	Members  *service.MembershipService
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Files    *service.FileService
	Objects  storage.ObjectStore
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"message": message,
		"success": true,
		"status":  status,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail writes err in the response envelope. Provider causes are logged and
// never sent to the client.
func fail(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Provider("Internal server error", err)
	}
	status := appErr.Kind.HTTPStatus()
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
	}

	switch appErr.Kind {
	case apperr.KindProvider:
		logger.ErrorLogger.Error(appErr.Message, append(fields, zap.Error(appErr.Err))...)
	case apperr.KindUnauthorized, apperr.KindForbidden:
		logger.SecurityLogger.Warn(appErr.Message, fields...)
	default:
		logger.AuditLogger.Warn(appErr.Message, fields...)
	}

	body := fiber.Map{
		"message": appErr.Message,
		"success": false,
		"status":  status,
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	logger.AuditLogger.Warn("Bad request", zap.String("path", c.Path()), zap.Error(err))
	return fail(c, apperr.Validation("Bad request", nil))
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

func currentToken(c *fiber.Ctx) auth.Token {
	tok, _ := c.Locals("token").(auth.Token)
	return tok
}
