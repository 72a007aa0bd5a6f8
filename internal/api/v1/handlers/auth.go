package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smart-collab/internal/service"
	"smart-collab/pkg/logger"
)

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req service.SignUpInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	sess, err := h.Identity.SignUp(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("User registered successfully", zap.String("user_id", sess.User.ID))
	return respond(c, fiber.StatusCreated, "User created successfully", sess)
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req service.SignInInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	sess, err := h.Identity.SignIn(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Login success", zap.String("user_id", sess.User.ID))
	return respond(c, fiber.StatusOK, "Login success", sess)
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	sess, err := h.Identity.GetSession(c.UserContext(), currentToken(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Session active", sess)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	sess, err := h.Identity.Refresh(c.UserContext(), currentToken(c))
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Token refreshed", zap.String("user_id", sess.User.ID))
	return respond(c, fiber.StatusOK, "Token refreshed", sess)
}

func (h *Handler) SignOut(c *fiber.Ctx) error {
	tok := currentToken(c)
	if err := h.Identity.SignOut(c.UserContext(), tok); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("User signed out", zap.String("user_id", tok.UserID))
	return respond(c, fiber.StatusOK, "Signed out", nil)
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.Identity.Profile(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Profile fetched successfully", profile)
}
