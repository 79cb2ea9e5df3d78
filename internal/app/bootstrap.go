package app

import (
	"fmt"
	"log"
	"strings"

	"competency-matrix/internal/config"
	"competency-matrix/internal/delivery/http/handler"
	"competency-matrix/internal/delivery/http/middleware"
	"competency-matrix/internal/delivery/http/routes"
	"competency-matrix/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health", "/metrics")
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	deps := routes.Deps{
		Health:      handler.NewHealthHandler(c.DB, c.Redis),
		Sync:        handler.NewCompetencySyncHandler(c.SyncUsecase, c.Logger),
		WS:          ws.NewHandler(c.Hub, c.Logger),
		AllowReload: c.Config.Competency.AllowReload,
	}
	if c.JWT != nil {
		deps.Auth = middleware.NewAuthMiddleware(c.JWT)
	} else {
		c.Logger.Printf("[App] ADMIN_JWT_SECRET not set, admin routes are unauthenticated")
	}
	if deps.AllowReload {
		c.Logger.Printf("[App] competency reload endpoint enabled")
	}

	routes.NewRegistry(deps).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
