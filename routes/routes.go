package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	controller "teamhub/controllers"
	"teamhub/middleware"
	"teamhub/session"
	"teamhub/store"
)

// SetupRoutes wires the full HTTP surface. Everything under /api except
// login requires a valid session.
func SetupRoutes(app *fiber.App, st store.Store, sessions session.Manager, log *logrus.Logger) {
	authController := controller.NewAuthController(st, sessions, log)
	userController := controller.NewUserController(st, log)
	teamController := controller.NewTeamController(st, log)
	memberController := controller.NewMemberController(st, log)
	projectController := controller.NewProjectController(st, log)
	taskController := controller.NewTaskController(st, log)
	commentController := controller.NewCommentController(st, log)
	fileController := controller.NewFileController(st, log)
	messageController := controller.NewMessageController(st, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public
	api.Post("/auth/login", authController.Login)

	// Everything below requires a session
	protected := api.Group("", middleware.Protected(sessions, st))

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/auth/me", authController.Me)

	users := protected.Group("/users")
	users.Get("/", userController.List)
	users.Post("/", userController.Create)
	users.Get("/:id", userController.Get)
	users.Put("/:id", userController.Update)
	users.Delete("/:id", userController.Delete)

	teams := protected.Group("/teams")
	teams.Get("/", teamController.List)
	teams.Post("/", teamController.Create)
	teams.Get("/:id", teamController.Get)
	teams.Put("/:id", teamController.Update)
	teams.Delete("/:id", teamController.Delete)
	teams.Get("/:id/members", memberController.List)
	teams.Post("/:id/members", memberController.Add)
	teams.Get("/:id/members/current", memberController.Current)
	teams.Delete("/:teamId/members/:userId", memberController.Remove)
	teams.Get("/:teamId/messages", messageController.List)
	teams.Post("/:teamId/messages", messageController.Create)

	projects := protected.Group("/projects")
	projects.Get("/", projectController.List)
	projects.Post("/", projectController.Create)
	projects.Get("/:id", projectController.Get)
	projects.Put("/:id", projectController.Update)
	projects.Delete("/:id", projectController.Delete)
	projects.Get("/:projectId/files", fileController.ListByProject)

	tasks := protected.Group("/tasks")
	tasks.Get("/", taskController.List)
	tasks.Post("/", taskController.Create)
	tasks.Get("/:id", taskController.Get)
	tasks.Put("/:id", taskController.Update)
	tasks.Delete("/:id", taskController.Delete)
	tasks.Put("/:id/status", taskController.UpdateStatus)
	tasks.Get("/:taskId/comments", commentController.List)
	tasks.Post("/:taskId/comments", commentController.Create)
	tasks.Get("/:taskId/files", fileController.ListByTask)

	protected.Delete("/comments/:id", commentController.Delete)
	protected.Post("/files", fileController.Create)
	protected.Delete("/files/:id", fileController.Delete)
	protected.Delete("/messages/:id", messageController.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "The requested resource was not found",
		})
	})
}
