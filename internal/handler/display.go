package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Thebys/b48-display-controller/internal/display"
	"github.com/Thebys/b48-display-controller/internal/request"
	"github.com/Thebys/b48-display-controller/internal/response"
	"github.com/Thebys/b48-display-controller/internal/service"
)

// DisplayHandler exposes the display loop's status, control and raw command
// endpoints.
type DisplayHandler struct {
	machine display.StateMachine
	svc     service.MessageService
}

// NewDisplayHandler constructs a new DisplayHandler with its dependencies.
func NewDisplayHandler(machine display.StateMachine, svc service.MessageService) *DisplayHandler {
	return &DisplayHandler{
		machine: machine,
		svc:     svc,
	}
}

// Status godoc
// @Summary     Display status
// @Description Returns what the panel is currently showing, the cycle state and the send counters.
// @Tags        display
// @Produce     json
// @Success     200 {object} response.DisplayStatusResponse
// @Failure     500 {object} response.JSONResponse
// @Router      /api/v1/display/status [get]
func (h *DisplayHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.machine.Status()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDisplayStatus(st))
}

// Control godoc
// @Summary     Control the display cycle
// @Description Pauses message rotation for panel maintenance, resumes it, or toggles inverted rendering. While paused the loop keeps running and raw commands still reach the panel.
// @Tags        display
// @Accept      json
// @Produce     json
// @Param       request body request.DisplayControlRequest true "Display action (pause|resume|invert)"
// @Success     200 {object} response.ActionResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /api/v1/display [post]
func (h *DisplayHandler) Control(w http.ResponseWriter, r *http.Request) {
	var req request.DisplayControlRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "pause":
		if err := h.machine.Pause(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "display paused"})
		return

	case "resume":
		if err := h.machine.Resume(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "display resumed"})
		return

	case "invert":
		if err := h.machine.Invert(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "display inverted"})
		return

	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'pause', 'resume' or 'invert'")
		return
	}
}

// Raw godoc
// @Summary     Send a raw panel command
// @Description Queues an unframed command for transmission. The protocol layer appends the trailing carriage return and checksum. Works while the cycle is paused, which is the intended way to run panel test commands.
// @Tags        display
// @Accept      json
// @Produce     json
// @Param       request body request.RawCommandRequest true "Raw command payload"
// @Success     202 {object} response.ActionResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/display/raw [post]
func (h *DisplayHandler) Raw(w http.ResponseWriter, r *http.Request) {
	var req request.RawCommandRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Payload == "" {
		response.RespondError(w, http.StatusBadRequest, "payload must not be empty")
		return
	}

	if err := h.machine.EnqueueRaw([]byte(req.Payload)); err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, response.ActionPayload{Message: "raw command queued"})
}

// Diagnostics godoc
// @Summary     Controller diagnostics
// @Description Returns queue sizes, store and cache availability, uptime and the display loop status in one report.
// @Tags        display
// @Produce     json
// @Success     200 {object} response.DiagnosticsResponse
// @Failure     500 {object} response.JSONResponse
// @Router      /api/v1/diagnostics [get]
func (h *DisplayHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	st, err := h.machine.Status()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	o := h.svc.Overview(r.Context())

	response.RespondJSON(w, http.StatusOK, response.FromOverview(o, st))
}
