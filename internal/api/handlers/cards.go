package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/api/dto"
	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/himanshinagori/buddyboard/internal/cards"
)

type CardHandler struct {
	service *cards.Service
	logger  *slog.Logger
}

func NewCardHandler(service *cards.Service, logger *slog.Logger) *CardHandler {
	return &CardHandler{service: service, logger: logger}
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	card, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, card, "Card created successfully")
}

func (h *CardHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	list, err := h.service.ListOwn(r.Context(), userID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "User cards fetched successfully")
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid card ID"))
		return
	}

	view, err := h.service.Get(r.Context(), cardID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view, "Card fetched successfully")
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid card ID"))
		return
	}

	var req dto.UpdateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	card, err := h.service.Update(r.Context(), userID, cardID, cards.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, card, "Card updated successfully")
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid card ID"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	card, err := h.service.Delete(r.Context(), userID, cardID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, card, "Card deleted successfully")
}
