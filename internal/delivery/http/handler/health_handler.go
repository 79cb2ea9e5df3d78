package handler

import (
	"context"
	"time"

	"competency-matrix/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthHandler reports dependency reachability. Only the database decides
// the status code; Redis is optional.
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	st := HealthStatus{
		Database: pingStatus(c.Context(), h.db),
		Redis:    pingStatus(c.Context(), h.redis),
	}
	if st.Database != "up" {
		return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", st)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}
