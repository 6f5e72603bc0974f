package router

import (
	"context"
	"time"

	"quiz-learn/internal/handler"
	"quiz-learn/internal/logger"
	"quiz-learn/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth    *handler.AuthHandler
	Topic   *handler.TopicHandler
	Content *handler.ContentHandler
	Admin   *handler.AdminHandler
}

// HealthCheck reports whether a backing store is reachable.
type HealthCheck func(ctx context.Context) error

// Setup registers every route on app. Protected routes resolve the caller through resolver.
func Setup(app *fiber.App, h Handlers, resolver middleware.IdentityResolver, checks map[string]HealthCheck) {
	protected := middleware.Protected(resolver)
	validateID := middleware.NewValidationMiddleware().ValidateIDParam("id")

	app.Get("/healthz", healthz(checks))
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", protected, h.Auth.Logout)
	auth.Get("/me", protected, h.Auth.Me)

	api.Get("/topics", h.Topic.ListTopics)
	api.Get("/topics/:id", protected, validateID, h.Topic.GetTopic)
	api.Get("/topics/:id/test", protected, validateID, h.Topic.StartTest)
	api.Post("/topics/:id/test", protected, validateID, h.Topic.SubmitTest)
	api.Get("/results/me", protected, h.Topic.MyResults)

	teacher := api.Group("/teacher", protected, middleware.RequireTeacher())
	teacher.Get("/dashboard", h.Content.TeacherDashboard)
	registerQuestionRoutes(teacher, h.Content, validateID)
	teacher.Post("/topics", h.Content.CreateTopic)
	teacher.Put("/topics/:id", validateID, h.Content.UpdateTopic)
	teacher.Post("/topics/:id/questions/import", validateID, h.Content.ImportQuestions)

	admin := api.Group("/admin", protected, middleware.RequireAdmin())
	admin.Get("/dashboard", h.Admin.Dashboard)
	admin.Get("/topics", h.Content.ListTopics)
	admin.Post("/topics", h.Content.CreateTopic)
	admin.Put("/topics/:id", validateID, h.Content.UpdateTopic)
	admin.Delete("/topics/:id", validateID, h.Content.DeleteTopic)
	registerQuestionRoutes(admin, h.Content, validateID)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id", validateID, h.Admin.UpdateUser)

	api.Get("/stats", protected, middleware.RequireAdmin(), h.Admin.Stats)
}

func registerQuestionRoutes(r fiber.Router, h *handler.ContentHandler, validateID fiber.Handler) {
	r.Get("/questions", h.ListQuestions)
	r.Post("/questions", h.CreateQuestion)
	r.Put("/questions/:id", validateID, h.UpdateQuestion)
	r.Delete("/questions/:id", validateID, h.DeleteQuestion)
}

func healthz(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := fiber.Map{}
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Get().Warn("Health check failed", zap.String("component", name), zap.Error(err))
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}

		if !healthy {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "components": status})
		}
		return c.JSON(fiber.Map{"status": "ok", "components": status})
	}
}
