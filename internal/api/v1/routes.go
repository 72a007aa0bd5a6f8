package v1

import (
	"github.com/gofiber/fiber/v2"

	"smart-collab/internal/api/v1/handlers"
	"smart-collab/internal/middleware"
	myws "smart-collab/internal/websocket"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler, hub *myws.Hub) {
	requireToken := middleware.UseToken(h.Identity)

	api := app.Group("/api/v1")

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", h.SignUp)
	authRoutes.Post("/signin", h.SignIn)
	authRoutes.Get("/session", requireToken, h.GetSession)
	authRoutes.Post("/refresh", requireToken, h.Refresh)
	authRoutes.Post("/signout", requireToken, h.SignOut)

	// Profile
	api.Get("/profile", requireToken, h.GetProfile)

	// Project
	projectRoutes := api.Group("/projects", requireToken)
	projectRoutes.Post("/", h.CreateProject)
	projectRoutes.Get("/", h.ListProjects)
	projectRoutes.Post("/join", h.JoinProject)
	projectRoutes.Get("/:id", h.GetProject)
	projectRoutes.Delete("/:id", h.DeleteProject)
	projectRoutes.Get("/:id/members", h.ListMembers)

	// Task
	projectRoutes.Post("/:id/tasks", h.CreateTask)
	projectRoutes.Get("/:id/tasks", h.ListTasks)

	// File Upload
	projectRoutes.Post("/:id/files", h.UploadFile)
	projectRoutes.Get("/:id/files", h.ListFiles)

	// Public blobs
	app.Get("/files/*", h.ServeFile)

	// Session events
	app.Get("/ws/session", handlers.RequireUpgrade, requireToken, handlers.SessionEvents(hub))
}
