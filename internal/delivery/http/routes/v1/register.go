package v1

import (
	"competency-matrix/internal/delivery/http/handler"
	"competency-matrix/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Admin struct {
	Sync        *handler.CompetencySyncHandler
	Auth        *middleware.AuthMiddleware
	AllowReload bool
}

// Register mounts the admin group. The reload route only exists when reload
// is allowed.
func Register(r fiber.Router, admin Admin) {
	if r == nil || admin.Sync == nil {
		return
	}

	var group fiber.Router
	if admin.Auth != nil {
		group = r.Group("/admin", admin.Auth.Middleware())
	} else {
		group = r.Group("/admin")
	}

	admin.Sync.RegisterRoutes(group)
	if admin.AllowReload {
		admin.Sync.RegisterReloadRoute(group)
	}
}
