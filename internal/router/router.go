package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub-io/learnhub-api/internal/config"
	"github.com/learnhub-io/learnhub-api/internal/handler"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	SubjectHandler   *handler.SubjectHandler
	BlogHandler      *handler.BlogHandler
	DashboardHandler *handler.DashboardHandler
	StudentHandler   *handler.StudentHandler
	UploadHandler    *handler.UploadHandler
}

// Register wires the HTTP routes into the fiber application. The subject
// detail route is parameterised on the path root, so it must be registered
// after every static route.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtProtected := middleware.JWTProtected(cfg.JWTSecret)
	loginRequired := middleware.LoginRequired(cfg.JWTSecret)
	optionalJWT := middleware.OptionalJWT(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	// The blog surface is browser-facing: failed role checks redirect to the
	// login page instead of returning a JSON 403.
	superuserOnly := middleware.RequireRoleOrRedirect("/login/", models.RoleSuperuser)
	authRateLimit := middleware.RateLimit("auth", 10, time.Minute)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app, authRateLimit)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterUser(app.Group("/user-dashboard", jwtProtected))
		deps.DashboardHandler.RegisterAdmin(app.Group("/admin-dashboard", jwtProtected, adminOnly))
	}

	if deps.BlogHandler != nil {
		deps.BlogHandler.Register(app.Group("/blogs", optionalJWT), loginRequired, superuserOnly)
	}

	if deps.SubjectHandler != nil {
		deps.SubjectHandler.RegisterReviews(app.Group("/reviews", optionalJWT))
		deps.SubjectHandler.RegisterAdmin(app.Group("/admin/subjects", jwtProtected, adminOnly))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(app.Group("/admin/students", jwtProtected, adminOnly))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(app.Group("/uploads", jwtProtected, adminOnly))
	}

	// Registered last: GET / and GET /:id close the public surface.
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.RegisterPublic(app)
	}
}
