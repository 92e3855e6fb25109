// Package api exposes the HTTP surface: task CRUD, report endpoints and the
// account routes, over Fiber. The layer only shapes requests and responses;
// invariants live in the task and report services.
package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/todo-backend/modules/auth"
	"github.com/example/todo-backend/modules/cache"
	"github.com/example/todo-backend/modules/reports"
	"github.com/example/todo-backend/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Module provides the HTTP API as a mono module.
type Module struct {
	app         *fiber.App
	port        int
	tasks       *task.Service
	reports     *reports.Service
	auth        *auth.Service
	reportCache *cache.ReportCache
}

// NewModule creates a new API module.
func NewModule(port int) *Module {
	return &Module{port: port}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// SetTaskService sets the task service dependency.
func (m *Module) SetTaskService(s *task.Service) {
	m.tasks = s
}

// SetReportsService sets the reports service dependency.
func (m *Module) SetReportsService(s *reports.Service) {
	m.reports = s
}

// SetAuthService sets the auth service dependency.
func (m *Module) SetAuthService(s *auth.Service) {
	m.auth = s
}

// SetReportCache sets the cache handle used by the stats endpoints.
func (m *Module) SetReportCache(c *cache.ReportCache) {
	m.reportCache = c
}

// Init creates the Fiber app and its global middleware.
func (m *Module) Init(_ mono.ServiceContainer) error {
	m.app = fiber.New(fiber.Config{
		AppName:               "Todo Backend",
		DisableStartupMessage: true,
		BodyLimit:             maxAttachmentSize + 1024*1024,
		ErrorHandler:          m.errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	return nil
}

// Start wires handlers and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.tasks == nil || m.reports == nil || m.auth == nil || m.reportCache == nil {
		return fmt.Errorf("api module missing dependencies")
	}

	m.setupRoutes()

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// setupRoutes configures all HTTP routes. Paths mirror the public API
// contract, trailing slashes included.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)
	m.app.Get("/cache/stats", m.cacheStats)
	m.app.Post("/cache/stats/reset", m.resetCacheStats)

	accounts := m.app.Group("/accounts")
	accounts.Post("/register/", m.register)
	accounts.Post("/login/", m.login)

	authed := AuthMiddleware(m.auth)
	accounts.Post("/logout/", authed, m.logout)

	m.app.Post("/task-create/", authed, m.createTask)
	m.app.Put("/task-update/:title/", authed, m.updateTask)
	m.app.Delete("/task-delete/:title/", authed, m.deleteTask)
	m.app.Get("/task-list/", authed, m.listTasks)
	m.app.Get("/task-detail/:title/", authed, m.taskDetail)

	reportRoutes := m.app.Group("/reports", authed)
	reportRoutes.Get("/total-tasks/", m.totalTasks)
	reportRoutes.Get("/average-completed/", m.averageCompleted)
	reportRoutes.Get("/overdue-tasks/", m.overdueTasks)
	reportRoutes.Get("/max-date/", m.maxDate)
	reportRoutes.Get("/count-opened/", m.countOpened)
	reportRoutes.Get("/similar-tasks/", m.similarTasks)
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app != nil {
		log.Println("[api] Shutting down HTTP server...")
		return m.app.Shutdown()
	}
	return nil
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// cacheStats handles GET /cache/stats.
func (m *Module) cacheStats(c *fiber.Ctx) error {
	return c.JSON(m.reportCache.GetStats())
}

// resetCacheStats handles POST /cache/stats/reset.
func (m *Module) resetCacheStats(c *fiber.Ctx) error {
	m.reportCache.ResetStats()
	return c.JSON(MessageResponse{Response: "cache stats reset"})
}

// errorHandler handles errors escaping Fiber routes. The message stays
// generic for 5xx so internal failure detail never reaches the client.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}
