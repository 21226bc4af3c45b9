package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
	"github.com/Thebys/b48-display-controller/internal/request"
	"github.com/Thebys/b48-display-controller/internal/response"
	"github.com/Thebys/b48-display-controller/internal/service"
)

// MessageHandler wires the message CRUD and store maintenance endpoints to
// the message service.
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// respondServiceError maps domain errors onto HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		response.RespondError(w, http.StatusServiceUnavailable, domain.ErrStoreUnavailable.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.RespondError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrDuplicateMessage):
		response.RespondError(w, http.StatusConflict, domain.ErrDuplicateMessage.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// entryFromRequest builds a durable entry from the request body, running the
// domain validation in the process.
func entryFromRequest(req request.MessageRequest) (*domain.Entry, error) {
	e, err := domain.NewDurable(
		req.Priority,
		req.LineNumber,
		req.TarifZone,
		req.StaticIntro,
		req.ScrollingMessage,
		req.NextMessageHint,
	)
	if err != nil {
		return nil, err
	}

	if req.ExpiresAt != nil {
		e.ExpiryTime = *req.ExpiresAt
	}
	if req.DurationSeconds > 0 {
		e.DurationSeconds = req.DurationSeconds
	}
	e.SourceInfo = req.SourceInfo

	return e, nil
}

// List godoc
// @Summary     List active messages
// @Description Returns every enabled, unexpired durable message, highest priority first.
// @Tags        messages
// @Produce     json
// @Success     200 {object} response.MessagesResponse
// @Failure     500 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payload := response.MessagesPayload{
		Items: response.FromDomainEntries(items),
		Total: len(items),
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Create godoc
// @Summary     Add a message
// @Description Stores a new durable message and puts it into rotation.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request body request.MessageRequest true "Message to store"
// @Success     201 {object} response.MessageCreatedResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     409 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/messages [post]
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.MessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := entryFromRequest(req)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.svc.Add(r.Context(), e)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, response.MessageCreatedPayload{ID: id})
}

// Update godoc
// @Summary     Update a message
// @Description Rewrites an existing durable message in place.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       id      path int                    true "Message ID"
// @Param       request body request.MessageRequest true "New message content"
// @Success     200 {object} response.ActionResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     404 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/messages/{id} [put]
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		response.RespondError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req request.MessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := entryFromRequest(req)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	e.ID = id

	if err := h.svc.Update(r.Context(), e); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "message updated"})
}

// Delete godoc
// @Summary     Disable a message
// @Description Takes a durable message out of rotation. The row is kept for later purging.
// @Tags        messages
// @Produce     json
// @Param       id path int true "Message ID"
// @Success     200 {object} response.ActionResponse
// @Failure     400 {object} response.JSONResponse
// @Failure     404 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/messages/{id} [delete]
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		response.RespondError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.svc.Disable(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "message disabled"})
}

// ClearAll godoc
// @Summary     Disable all messages
// @Description Takes every active durable message out of rotation. The display falls back to the idle clock.
// @Tags        messages
// @Produce     json
// @Success     200 {object} response.RowsResponse
// @Failure     500 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/messages [delete]
func (h *MessageHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DisableAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.RowsPayload{Rows: n})
}

// CreateEphemeral godoc
// @Summary     Inject an ephemeral message
// @Description Queues a one-off message directly into the scheduler pool. It never touches the store and disappears after its display budget or TTL runs out. Priority 95 and above preempts the current cycle.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request body request.EphemeralRequest true "Ephemeral message"
// @Success     202 {object} response.ActionResponse
// @Failure     400 {object} response.JSONResponse
// @Router      /api/v1/messages/ephemeral [post]
func (h *MessageHandler) CreateEphemeral(w http.ResponseWriter, r *http.Request) {
	var req request.EphemeralRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	displays := req.Displays
	if displays == 0 {
		displays = 1
	}

	e, err := domain.NewEphemeral(
		req.Priority,
		req.LineNumber,
		req.TarifZone,
		req.StaticIntro,
		req.ScrollingMessage,
		req.NextMessageHint,
		displays,
		time.Duration(req.TTLSeconds)*time.Second,
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DurationSeconds > 0 {
		e.DurationSeconds = req.DurationSeconds
	}

	h.svc.InjectEphemeral(r.Context(), e)

	response.RespondJSON(w, http.StatusAccepted, response.ActionPayload{Message: "ephemeral message queued"})
}

// Purge godoc
// @Summary     Purge disabled messages
// @Description Permanently deletes rows already disabled by expiry or by operator action, then compacts the database file.
// @Tags        maintenance
// @Produce     json
// @Success     200 {object} response.RowsResponse
// @Failure     500 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/maintenance/purge [post]
func (h *MessageHandler) Purge(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Purge(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.RowsPayload{Rows: n})
}

// Wipe godoc
// @Summary     Wipe the message store
// @Description Deletes every row in the store, enabled or not. Ephemeral entries already in the pool are unaffected.
// @Tags        maintenance
// @Produce     json
// @Success     200 {object} response.ActionResponse
// @Failure     500 {object} response.JSONResponse
// @Failure     503 {object} response.JSONResponse
// @Router      /api/v1/maintenance/wipe [post]
func (h *MessageHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Wipe(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.ActionPayload{Message: "message store wiped"})
}
