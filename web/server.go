package web

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gtiq/auth"
	"github.com/gtiq/config"
	"github.com/gtiq/events"
	"github.com/gtiq/timeclock"
	"github.com/gtiq/web/handlers"
	"github.com/gtiq/web/middleware"
	"gorm.io/gorm"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates the Fiber application with all routes wired.
// publisher may be nil when no broker is configured.
func NewServer(cfg *config.Config, db *gorm.DB, publisher events.Publisher) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "gtiq",
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := handlers.New(db, tokens, publisher, cfg)

	setupRoutes(app, h, tokens)

	return &Server{app: app}
}

// App exposes the underlying Fiber app (used by tests)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server, draining in-flight requests
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, h *handlers.Handler, tokens *auth.TokenIssuer) {
	app.Get("/health", h.Health)

	// Debug endpoint for SQL logs
	app.Get("/api/debug/sql", h.GetSQLLogs)
	app.Delete("/api/debug/sql", h.ClearSQLLogs)

	app.Post("/auth/login", h.Login)

	// Clocking: bearer auth OR explicit kiosk credentials in the body
	app.Post("/clock", middleware.OptionalAuth(tokens), h.ClockPunch)

	authed := app.Group("", middleware.RequireAuth(tokens))

	authed.Get("/clock/status", h.ClockStatus)

	// Sessions and review
	authed.Get("/sessions", h.ListSessions)
	authed.Get("/sessions/review", h.ReviewQueue)
	authed.Post("/adjust-work-session", h.AdjustSession)
	authed.Get("/time-events", h.ListTimeEvents)

	// People and invites
	authed.Get("/list-people", h.ListPeople)
	authed.Post("/update-person/:id", h.UpdatePerson)
	authed.Post("/delete-person/:id", h.DeletePerson)
	authed.Get("/list-invites", h.ListInvites)
	authed.Post("/invites", h.CreateInvite)
	authed.Post("/revoke-invite/:id", h.RevokeInvite)

	// Compliance configuration
	authed.Get("/compliance/settings", h.GetComplianceSettings)
	authed.Post("/compliance/settings", h.UpsertComplianceSettings)
	authed.Get("/compliance/worker-rules", h.ListWorkerRules)
	authed.Post("/compliance/worker-rules/:userID", h.UpsertWorkerRule)
	authed.Delete("/compliance/worker-rules/:userID", h.DeleteWorkerRule)

	// Incidents
	authed.Get("/incidents", h.ListIncidents)
	authed.Post("/incidents", h.CreateIncident)
	authed.Post("/incidents/:id/resolve", h.ResolveIncident)
	authed.Post("/incidents/:id/dismiss", h.DismissIncident)

	// Privileged account management
	authed.Post("/admin/impersonate", middleware.RequireSuperadmin(), h.Impersonate)
	authed.Post("/create-company-user", h.CreateCompanyUser)

	// Bootstrap path is guarded by the deployment secret, not a session
	app.Post("/admin-create-superadmin", h.CreateSuperadmin)
}

// errorHandler maps domain errors onto HTTP statuses; the body is always
// {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		code = fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, timeclock.ErrAlreadyActive),
		errors.Is(err, timeclock.ErrNoActiveSession),
		errors.Is(err, timeclock.ErrAlreadyOnBreak),
		errors.Is(err, timeclock.ErrNotOnBreak):
		code = fiber.StatusConflict
	case errors.Is(err, timeclock.ErrCompanySuspended):
		code = fiber.StatusLocked
	case errors.Is(err, timeclock.ErrCompanyNotFound),
		errors.Is(err, timeclock.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, timeclock.ErrInvalidAction),
		errors.Is(err, timeclock.ErrInvalidRange):
		code = fiber.StatusBadRequest
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
