package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/api/dto"
	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/decks"
	"github.com/himanshinagori/buddyboard/internal/query"
)

type DeckHandler struct {
	service *decks.Service
	logger  *slog.Logger
}

func NewDeckHandler(service *decks.Service, logger *slog.Logger) *DeckHandler {
	return &DeckHandler{service: service, logger: logger}
}

func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	deck, err := h.service.Create(r.Context(), userID, req.Title)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, deck, "Deck created successfully")
}

func (h *DeckHandler) Public(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Public(r.Context())
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views, "Public decks retrieved successfully")
}

func (h *DeckHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	views, err := h.service.FavoritesOf(r.Context(), userID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views, "Favorite decks retrieved successfully")
}

func (h *DeckHandler) Search(w http.ResponseWriter, r *http.Request) {
	search := query.ParseDeckSearch(r.URL.Query())

	results, err := h.service.Search(r.Context(), search)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, results, "Search results retrieved successfully")
}

func (h *DeckHandler) UserDecks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	views, err := h.service.UserDecks(r.Context(), userID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views, "User decks retrieved successfully")
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid deck ID"))
		return
	}

	view, err := h.service.Get(r.Context(), deckID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view, "Deck retrieved successfully")
}

func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid deck ID"))
		return
	}

	var req dto.UpdateDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}

	input := decks.UpdateInput{
		Title:      req.Title,
		Visibility: models.Visibility(req.Visibility),
	}
	if req.Cards != nil {
		input.Cards = make([]uuid.UUID, 0, len(req.Cards))
		for _, raw := range req.Cards {
			id, err := uuid.Parse(raw)
			if err != nil {
				apierr.Write(w, h.logger, apierr.BadRequest("Invalid card ID"))
				return
			}
			input.Cards = append(input.Cards, id)
		}
	}

	userID := middleware.GetUserID(r.Context())
	deck, err := h.service.Update(r.Context(), userID, deckID, input)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deck, "Deck updated successfully")
}

func (h *DeckHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid deck ID"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	deck, message, err := h.service.ToggleFavorite(r.Context(), userID, deckID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deck, message)
}

func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid deck ID"))
		return
	}

	var req dto.AddCardToDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid card ID"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	view, err := h.service.AddCard(r.Context(), userID, deckID, cardID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view, "Card added to deck successfully")
}

func (h *DeckHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	deckID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid deck ID"))
		return
	}

	var req dto.BlockDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}

	deck, err := h.service.SoftDelete(r.Context(), deckID, req.Reasons)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deck, "Deck soft deleted successfully")
}
