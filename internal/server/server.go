package server

import (
	"log"

	"physical-ai-textbook-be/internal/bootstrap"
	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
		AppName:   "Physical AI Textbook API",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.AllowedOrigins(),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Fingerprint",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, X-RateLimit-Remaining",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("[INFO] Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	health := healthHandler(cfg.App.Version)
	app.Get("/health", health)

	api := app.Group("/api/v1")
	api.Get("/health", health)

	c.AuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.RateLimitController.RegisterRoutes(api)
}

func healthHandler(version string) fiber.Handler {
	if version == "" {
		version = "1.0.0"
	}
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(HealthResponse{Status: "healthy", Version: version})
	}
}
