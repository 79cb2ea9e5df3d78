package routes

import (
	v1 "competency-matrix/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	v1.Register(r, v1.Admin{
		Sync:        deps.Sync,
		Auth:        deps.Auth,
		AllowReload: deps.AllowReload,
	})
}
