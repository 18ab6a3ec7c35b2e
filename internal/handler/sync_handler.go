package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"phrasebook-sync-server/internal/domain"
	"phrasebook-sync-server/internal/middleware"
	"phrasebook-sync-server/internal/service"
	"phrasebook-sync-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type SyncHandler struct {
	syncService *service.SyncService
	validate    *validator.Validate
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		validate:    validator.New(),
	}
}

// Sync receives a device's full local collection and reconciles it against
// the server copy. The response is either the applied merge or a pending
// session with conflicts to review.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req domain.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.syncService.Sync(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			response.Error(w, http.StatusConflict, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.Success(w, res)
}

// Resolve applies reviewer choices to a pending sync session.
func (h *SyncHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req domain.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.syncService.Resolve(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrSyncInProgress):
			response.Error(w, http.StatusConflict, err.Error())
		default:
			response.InternalError(w, err.Error())
		}
		return
	}

	response.Success(w, res)
}

// Conflicts returns the pending conflicts of a sync session for review.
func (h *SyncHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	sessionID := vars["id"]

	conflicts, err := h.syncService.Session(userID, sessionID)
	if err != nil {
		response.NotFound(w, err.Error())
		return
	}

	response.Success(w, conflicts)
}

// Status returns the last completed sync for the calling device.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		response.BadRequest(w, "device_id is required")
		return
	}

	meta, err := h.syncService.LastSync(userID, deviceID)
	if err != nil {
		response.NotFound(w, "no completed sync for this device")
		return
	}

	response.Success(w, meta)
}
