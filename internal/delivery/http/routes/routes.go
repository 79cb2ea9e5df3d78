package routes

import (
	"competency-matrix/internal/delivery/http/handler"
	"competency-matrix/internal/delivery/http/middleware"
	"competency-matrix/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the handlers the router mounts. Auth is nil when admin tokens are
// not configured.
type Deps struct {
	Health      *handler.HealthHandler
	Sync        *handler.CompetencySyncHandler
	WS          *ws.Handler
	Auth        *middleware.AuthMiddleware
	AllowReload bool
}

type Registry struct {
	deps Deps
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.deps.Health != nil {
		r.deps.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.deps.WS != nil {
		app.Get("/ws/competencies", r.deps.WS.HandleCompetenciesWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps)
}
