package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smart-collab/internal/service"
	"smart-collab/pkg/logger"
)

type joinRequest struct {
	JoinKey string `json:"join_key"`
}

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	var req service.CreateProjectInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	userID := currentUser(c)
	project, err := h.Projects.Create(c.UserContext(), userID, req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Project created", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return respond(c, fiber.StatusCreated, "Project created successfully", project)
}

func (h *Handler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.Projects.List(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Projects fetched successfully", projects)
}

func (h *Handler) JoinProject(c *fiber.Ctx) error {
	var req joinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	userID := currentUser(c)
	joined, err := h.Members.JoinByKey(c.UserContext(), req.JoinKey, userID)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Project joined", zap.String("project_id", joined.Project.ID), zap.String("user_id", userID))
	return respond(c, fiber.StatusOK, "Joined project successfully", joined)
}

func (h *Handler) GetProject(c *fiber.Ctx) error {
	project, err := h.Projects.Get(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Project fetched successfully", project)
}

func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	userID := currentUser(c)
	if err := h.Projects.Delete(c.UserContext(), projectID, userID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Project deleted", zap.String("project_id", projectID), zap.String("user_id", userID))
	return respond(c, fiber.StatusOK, "Project deleted successfully", nil)
}

func (h *Handler) ListMembers(c *fiber.Ctx) error {
	members, err := h.Members.ListMembers(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Members fetched successfully", members)
}
