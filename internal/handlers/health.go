package handlers

import (
	"context"
	"net/http"
	"time"

	"churchdir/internal/logger"
	helpers "churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary Проверка хранилища и Redis
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	out := map[string]string{"status": "ok"}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("Health-check не прошёл", zap.String("check", name), zap.Error(err))
			out[name] = "down"
			out["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		out[name] = "up"
	}
	helpers.JSON(w, status, out)
}
