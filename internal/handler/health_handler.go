package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"realestate/internal/backend"
)

// HealthHandler reports liveness and the resolved backend.
type HealthHandler struct {
	backend backend.Backend
}

// NewHealthHandler creates a health handler for the resolved backend.
func NewHealthHandler(b backend.Backend) *HealthHandler {
	return &HealthHandler{backend: b}
}

// HealthResponse is the health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Mode    string `json:"mode"`
}

// Healthz godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Backend: h.backend.Name(),
		Mode:    string(h.backend.Mode()),
	})
}
