package routes

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/delivery/http/handler"
	"competency-matrix/internal/delivery/http/middleware"
	"competency-matrix/internal/pkg/jwt"
	"competency-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okUsecase struct{}

func (okUsecase) Reload(context.Context) (competencysync.Result, error) {
	return competencysync.Result{}, nil
}

func (okUsecase) GetStatus(context.Context) (*usecase.CompetencySyncStatus, error) {
	return &usecase.CompetencySyncStatus{}, nil
}

type upPinger struct{}

func (upPinger) Ping(context.Context) error { return nil }

func newApp(allowReload bool, auth *middleware.AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	NewRegistry(Deps{
		Health:      handler.NewHealthHandler(upPinger{}, nil),
		Sync:        handler.NewCompetencySyncHandler(okUsecase{}, log.New(io.Discard, "", 0)),
		Auth:        auth,
		AllowReload: allowReload,
	}).Register(app)
	return app
}

func status(t *testing.T, app *fiber.App, method, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestReloadRouteOnlyWhenAllowed(t *testing.T) {
	const reload = "/api/v1/admin/competencies/reload"

	assert.Equal(t, fiber.StatusNotFound, status(t, newApp(false, nil), http.MethodPost, reload, ""))
	assert.Equal(t, fiber.StatusOK, status(t, newApp(true, nil), http.MethodPost, reload, ""))
}

func TestAdminRoutesRequireTokenWhenAuthConfigured(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour, "")
	app := newApp(true, middleware.NewAuthMiddleware(svc))
	tok, err := svc.GenerateAdminToken("ops")
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, http.MethodGet, "/api/v1/admin/competencies/sync/status", ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/api/v1/admin/competencies/sync/status", tok))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodPost, "/api/v1/admin/competencies/reload", tok))
}

func TestOperationalRoutes(t *testing.T) {
	app := newApp(false, nil)

	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/health", ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/metrics", ""))
	assert.Equal(t, fiber.StatusNotFound, status(t, app, http.MethodGet, "/ws/competencies", ""))
}
