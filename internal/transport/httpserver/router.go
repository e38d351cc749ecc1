// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog-search-service/internal/app/service"
	"catalog-search-service/internal/transport/httpserver/handler"
	"catalog-search-service/internal/transport/httpserver/middleware"
	"catalog-search-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port             int
	BodyLimit        int
	HistoryRetention time.Duration
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	stateSvc *service.StateService,
	historySvc *service.HistoryService,
	db *gorm.DB,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "catalog-search-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(db))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	// Create handlers
	stateHandler := handler.NewStateHandler(stateSvc, v, logger)
	historyHandler := handler.NewHistoryHandler(historySvc, v, cfg.HistoryRetention, logger)

	registerRoutes(app, stateHandler, historyHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	stateHandler *handler.StateHandler,
	historyHandler *handler.HistoryHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	// API v1 routes
	v1 := app.Group("/api/v1")

	// Search state
	search := v1.Group("/search")
	search.Get("/state", stateHandler.State)
	search.Get("/state/add", stateHandler.AddFacet)
	search.Get("/state/add-redirect", stateHandler.AddFacetForRedirect)
	search.Get("/state/remove", stateHandler.RemoveFacet)
	search.Get("/state/remove-query", stateHandler.RemoveQuery)
	search.Get("/state/reset", stateHandler.Reset)
	search.Get("/state/params-for-search", stateHandler.ParamsForSearch)
	search.Get("/document-url", stateHandler.DocumentURL)

	// Saved-search history
	searches := v1.Group("/searches")
	searches.Post("/", historyHandler.Save)
	searches.Get("/", historyHandler.Recent)
	searches.Delete("/old", historyHandler.Prune)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log based on status code - 404s are common and not server errors
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
