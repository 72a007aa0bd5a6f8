package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"smart-collab/internal/service"
	"smart-collab/pkg/logger"
)

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var req service.CreateTaskInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	task, err := h.Tasks.Create(c.UserContext(), c.Params("id"), currentUser(c), req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task created", zap.String("task_id", task.ID), zap.String("project_id", task.ProjectID))
	return respond(c, fiber.StatusCreated, "Task created successfully", task)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.Tasks.List(c.UserContext(), c.Params("id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Tasks fetched successfully", tasks)
}
