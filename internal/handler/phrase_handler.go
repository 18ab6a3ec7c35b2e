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

type PhraseHandler struct {
	service  *service.PhraseService
	validate *validator.Validate
}

func NewPhraseHandler(service *service.PhraseService) *PhraseHandler {
	return &PhraseHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *PhraseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	phrase, err := h.service.Create(userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to create phrase")
		return
	}

	response.Created(w, phrase)
}

func (h *PhraseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	phrases, err := h.service.List(userID)
	if err != nil {
		response.InternalError(w, "Failed to list phrases")
		return
	}

	response.Success(w, phrases)
}

func (h *PhraseHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	phraseID := vars["id"]
	if phraseID == "" {
		response.BadRequest(w, "Phrase ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	phrase, err := h.service.GetByID(userID, phraseID)
	if err != nil {
		response.NotFound(w, "Phrase not found")
		return
	}

	response.Success(w, phrase)
}

func (h *PhraseHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	phraseID := vars["id"]
	if phraseID == "" {
		response.BadRequest(w, "Phrase ID is required")
		return
	}

	var req domain.UpdatePhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	phrase, err := h.service.Update(userID, phraseID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Phrase not found")
			return
		}
		response.InternalError(w, "Failed to update phrase")
		return
	}

	response.Success(w, phrase)
}

func (h *PhraseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	phraseID := vars["id"]
	if phraseID == "" {
		response.BadRequest(w, "Phrase ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, phraseID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Phrase not found")
			return
		}
		response.InternalError(w, "Failed to delete phrase")
		return
	}

	response.Success(w, map[string]string{"message": "Phrase deleted"})
}
