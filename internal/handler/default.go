package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Thebys/b48-display-controller/internal/cache"
	"github.com/Thebys/b48-display-controller/internal/response"
	"github.com/Thebys/b48-display-controller/internal/service"
)

const healthPingTimeout = 2 * time.Second

// HomeHandler serves the root and health endpoints.
type HomeHandler struct {
	svc   service.MessageService
	cache cache.Cache
}

// NewHomeHandler returns a new HomeHandler. cache may be nil when the
// controller runs without a statistics cache.
func NewHomeHandler(svc service.MessageService, cache cache.Cache) *HomeHandler {
	return &HomeHandler{svc: svc, cache: cache}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "Base48 display controller",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports liveness plus the reachability of the durable store and the statistics cache. The controller keeps serving with a degraded status when either is down.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Router      /healthcheck [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{
		Status: "ok",
		Store:  h.svc.StoreAvailable(),
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		payload.Cache = h.cache.Ping(ctx) == nil
	}

	if !payload.Store || (h.cache != nil && !payload.Cache) {
		payload.Status = "degraded"
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
