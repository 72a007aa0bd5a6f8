package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"smart-collab/internal/apperr"
	"smart-collab/internal/auth"
	"smart-collab/pkg/logger"
)

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Token, error)
}

// UseToken requires a valid session token, taken from the Authorization
// header or, for websocket upgrades, the token query parameter. On success
// the caller's id and token are stored in Locals "userID" and "token".
func UseToken(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "No token provided")
		}
		tok, err := authn.Authenticate(c.UserContext(), raw)
		if err != nil {
			status := apperr.KindOf(err).HTTPStatus()
			message := "Invalid token"
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				message = appErr.Message
			}
			if status == fiber.StatusInternalServerError {
				logger.ErrorLogger.Error("Error authenticating request", zap.Error(err))
				message = "Internal server error"
			} else {
				logger.SecurityLogger.Warn("Rejected token", zap.String("path", c.Path()), zap.String("ip", c.IP()))
			}
			return c.Status(status).JSON(fiber.Map{
				"message": message,
				"success": false,
				"status":  status,
			})
		}
		c.Locals("userID", tok.UserID)
		c.Locals("token", tok)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		// Browsers cannot set headers on a websocket handshake.
		if q := c.Query("token"); q != "" && websocket.IsWebSocketUpgrade(c) {
			return q, true
		}
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func unauthorized(c *fiber.Ctx, message string) error {
	logger.SecurityLogger.Warn(message, zap.String("path", c.Path()), zap.String("ip", c.IP()))
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}
