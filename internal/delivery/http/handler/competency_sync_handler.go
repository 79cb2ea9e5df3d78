package handler

import (
	"errors"
	"log"
	"time"

	"competency-matrix/internal/competencysync"
	"competency-matrix/internal/pkg/response"
	"competency-matrix/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// ReloadResponse is the envelope of the reload endpoint. Details is only set
// on success.
type ReloadResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Details *competencysync.Processed `json:"details,omitempty"`
}

type CompetencySyncHandler struct {
	uc  usecase.CompetencySyncUsecase
	log *log.Logger
}

func NewCompetencySyncHandler(uc usecase.CompetencySyncUsecase, logger *log.Logger) *CompetencySyncHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &CompetencySyncHandler{uc: uc, log: logger}
}

func (h *CompetencySyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/competencies/sync/status", h.GetStatus)
}

func (h *CompetencySyncHandler) RegisterReloadRoute(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/competencies/reload", h.Reload)
}

func (h *CompetencySyncHandler) Reload(c fiber.Ctx) error {
	start := time.Now()
	h.log.Printf("http_request method=%s path=%s status=started", c.Method(), c.Path())

	res, err := h.uc.Reload(c.Context())
	if err != nil {
		h.log.Printf("http_request method=%s path=%s status=error duration=%s err=%v", c.Method(), c.Path(), time.Since(start), err)

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, competencysync.ErrSyncDisabled):
			status = fiber.StatusNotFound
		case errors.Is(err, competencysync.ErrSyncInProgress):
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(ReloadResponse{
			Success: false,
			Message: "Database reload failed: " + err.Error(),
		})
	}

	h.log.Printf("http_request method=%s path=%s status=ok duration=%s", c.Method(), c.Path(), time.Since(start))
	details := res.Processed()
	return c.Status(fiber.StatusOK).JSON(ReloadResponse{
		Success: true,
		Message: "Database reloaded successfully",
		Details: &details,
	})
}

func (h *CompetencySyncHandler) GetStatus(c fiber.Ctx) error {
	st, err := h.uc.GetStatus(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "failed to get competency sync status", nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}
