// Package decks implements deck CRUD, the favorite toggle, card membership,
// public/favorite/search listings with their enrichment joins, and admin
// moderation.
package decks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/cards"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/query"
	"gorm.io/gorm"
)

// Notifier is the slice of outbound email deck moderation needs.
type Notifier interface {
	DeckBlockedEmail(ctx context.Context, owner *models.User, deck *models.Deck, reason string) error
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// FavoriteView is the favoriter projection exposed on enriched decks.
type FavoriteView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// View is the enriched deck shape: creator name instead of id, cards embedded
// with their creators' names, favoriters reduced to name and email.
type View struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Cards      []cards.View      `json:"cards"`
	CreatedBy  string            `json:"created_by"`
	Visibility models.Visibility `json:"visibility"`
	IsBlocked  bool              `json:"is_blocked"`
	Favorites  []FavoriteView    `json:"favorites"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SearchResult is the projection returned by deck search.
type SearchResult struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CardsCount     int       `json:"cardsCount"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"createdAt"`
	FavoritesCount int       `json:"favoritesCount"`
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, title string) (*models.Deck, error) {
	if title == "" {
		return nil, apierr.BadRequest("Title is required")
	}

	deck := models.Deck{
		Title:       title,
		Cards:       []uuid.UUID{},
		Favorites:   []uuid.UUID{},
		CreatedByID: userID,
		Visibility:  models.VisibilityPublic,
	}
	if err := s.db.WithContext(ctx).Create(&deck).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return &deck, nil
}

type UpdateInput struct {
	Title      string
	Cards      []uuid.UUID // nil means absent; empty slice clears the deck
	Visibility models.Visibility
}

// Update modifies the caller's deck: title, card list, and visibility are
// each optional but at least one must be present.
func (s *Service) Update(ctx context.Context, userID, deckID uuid.UUID, input UpdateInput) (*models.Deck, error) {
	if input.Title == "" && input.Cards == nil && input.Visibility == "" {
		return nil, apierr.BadRequest("At least one field is required for update")
	}
	if input.Visibility != "" && !input.Visibility.Valid() {
		return nil, apierr.BadRequest("Visibility must be public or private")
	}

	var deck models.Deck
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_by_id = ?", deckID, userID).
		First(&deck).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Deck not found or unauthorized")
		}
		return nil, apierr.Internal(err)
	}

	if input.Title != "" {
		deck.Title = input.Title
	}
	if input.Cards != nil {
		deck.Cards = input.Cards
	}
	if input.Visibility != "" {
		deck.Visibility = input.Visibility
	}

	if err := s.db.WithContext(ctx).Save(&deck).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return &deck, nil
}

// Get returns one deck fully enriched, regardless of ownership.
func (s *Service) Get(ctx context.Context, deckID uuid.UUID) (*View, error) {
	var deck models.Deck
	if err := s.db.WithContext(ctx).First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Deck not found")
		}
		return nil, apierr.Internal(err)
	}

	views, err := s.buildViews(ctx, []models.Deck{deck})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Public lists every public, unblocked deck.
func (s *Service) Public(ctx context.Context) ([]View, error) {
	var decks []models.Deck
	err := s.db.WithContext(ctx).
		Where("visibility = ? AND is_blocked = ?", models.VisibilityPublic, false).
		Find(&decks).Error
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return s.buildViews(ctx, decks)
}

// FavoritesOf lists every unblocked deck the caller has favorited,
// independent of visibility.
func (s *Service) FavoritesOf(ctx context.Context, userID uuid.UUID) ([]View, error) {
	var decks []models.Deck
	err := s.db.WithContext(ctx).
		Where("is_blocked = ?", false).
		Find(&decks).Error
	if err != nil {
		return nil, apierr.Internal(err)
	}

	favorited := decks[:0]
	for _, deck := range decks {
		if deck.FavoriteIndex(userID) >= 0 {
			favorited = append(favorited, deck)
		}
	}
	return s.buildViews(ctx, favorited)
}

// UserDecks lists the caller's own decks, enriched. An empty result is a
// not-found, matching the endpoint contract.
func (s *Service) UserDecks(ctx context.Context, userID uuid.UUID) ([]View, error) {
	var decks []models.Deck
	if err := s.db.WithContext(ctx).Where("created_by_id = ?", userID).Find(&decks).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	if len(decks) == 0 {
		return nil, apierr.NotFound("No decks found for this user")
	}
	return s.buildViews(ctx, decks)
}

// Search runs the public deck search: base restriction and title/date filters
// in SQL, derived card/favorite count stages over the loaded rows, creator
// name joined into each result.
func (s *Service) Search(ctx context.Context, search query.DeckSearch) ([]SearchResult, error) {
	var decks []models.Deck
	if err := search.Scope(s.db.WithContext(ctx).Model(&models.Deck{})).Find(&decks).Error; err != nil {
		return nil, apierr.Internal(err)
	}

	matched := decks[:0]
	for _, deck := range decks {
		counts := query.DeckCounts{Cards: len(deck.Cards), Favorites: len(deck.Favorites)}
		if search.Match(counts) {
			matched = append(matched, deck)
		}
	}

	creatorIDs := make([]uuid.UUID, 0, len(matched))
	for _, deck := range matched {
		creatorIDs = append(creatorIDs, deck.CreatedByID)
	}
	names, err := s.userNames(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(matched))
	for i, deck := range matched {
		results[i] = SearchResult{
			ID:             deck.ID,
			Title:          deck.Title,
			CardsCount:     len(deck.Cards),
			CreatedBy:      names[deck.CreatedByID],
			CreatedAt:      deck.CreatedAt,
			FavoritesCount: len(deck.Favorites),
		}
	}
	return results, nil
}

// ToggleFavorite adds the caller to the deck's favorites if absent, removes
// them otherwise. Read-modify-write on the favorites list: concurrent toggles
// by different users can clobber each other; safe only under serialized
// access.
func (s *Service) ToggleFavorite(ctx context.Context, userID, deckID uuid.UUID) (*models.Deck, string, error) {
	var deck models.Deck
	if err := s.db.WithContext(ctx).First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apierr.NotFound("Deck not found")
		}
		return nil, "", apierr.Internal(err)
	}

	message := "Added to favorites"
	if idx := deck.FavoriteIndex(userID); idx >= 0 {
		deck.Favorites = append(deck.Favorites[:idx], deck.Favorites[idx+1:]...)
		message = "Removed from favorites"
	} else {
		deck.Favorites = append(deck.Favorites, userID)
	}

	if err := s.db.WithContext(ctx).Model(&deck).Update("favorites", deck.Favorites).Error; err != nil {
		return nil, "", apierr.Internal(err)
	}
	return &deck, message, nil
}

// AddCard attaches a card reference to the caller's deck. The card itself is
// not checked for existence or ownership; dangling references are skipped at
// enrichment time.
func (s *Service) AddCard(ctx context.Context, userID, deckID, cardID uuid.UUID) (*View, error) {
	var deck models.Deck
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_by_id = ?", deckID, userID).
		First(&deck).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Deck not found or unauthorized")
		}
		return nil, apierr.Internal(err)
	}

	if deck.HasCard(cardID) {
		return nil, apierr.BadRequest("Card already exists in deck")
	}

	deck.Cards = append(deck.Cards, cardID)
	if err := s.db.WithContext(ctx).Model(&deck).Update("cards", deck.Cards).Error; err != nil {
		return nil, apierr.Internal(err)
	}

	return s.Get(ctx, deckID)
}

// SoftDelete blocks a deck and notifies its owner by email. Blocked is
// terminal; there is no unblock operation.
func (s *Service) SoftDelete(ctx context.Context, deckID uuid.UUID, reason string) (*models.Deck, error) {
	if reason == "" {
		return nil, apierr.BadRequest("Reasons for blocking the deck is required")
	}

	var deck models.Deck
	if err := s.db.WithContext(ctx).First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Deck not found or unauthorized")
		}
		return nil, apierr.Internal(err)
	}

	if err := s.db.WithContext(ctx).Model(&deck).Update("is_blocked", true).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	deck.IsBlocked = true

	var owner models.User
	err := s.db.WithContext(ctx).First(&owner, "id = ?", deck.CreatedByID).Error
	switch {
	case err == nil:
		if err := s.notifier.DeckBlockedEmail(ctx, &owner, &deck, reason); err != nil {
			return nil, apierr.Internal(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// ownerless deck, nothing to notify
	default:
		return nil, apierr.Internal(err)
	}

	return &deck, nil
}

// buildViews batch-loads the referenced cards and users and assembles the
// enriched deck shapes, preserving card order and skipping dangling card ids.
func (s *Service) buildViews(ctx context.Context, decks []models.Deck) ([]View, error) {
	cardSet := make(map[uuid.UUID]struct{})
	userSet := make(map[uuid.UUID]struct{})
	for _, deck := range decks {
		userSet[deck.CreatedByID] = struct{}{}
		for _, id := range deck.Cards {
			cardSet[id] = struct{}{}
		}
		for _, id := range deck.Favorites {
			userSet[id] = struct{}{}
		}
	}

	cardsByID := make(map[uuid.UUID]models.Card, len(cardSet))
	if len(cardSet) > 0 {
		ids := make([]uuid.UUID, 0, len(cardSet))
		for id := range cardSet {
			ids = append(ids, id)
		}
		var rows []models.Card
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, apierr.Internal(err)
		}
		for _, row := range rows {
			cardsByID[row.ID] = row
			userSet[row.CreatedByID] = struct{}{}
		}
	}

	usersByID := make(map[uuid.UUID]models.User, len(userSet))
	if len(userSet) > 0 {
		ids := make([]uuid.UUID, 0, len(userSet))
		for id := range userSet {
			ids = append(ids, id)
		}
		var rows []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, apierr.Internal(err)
		}
		for _, row := range rows {
			usersByID[row.ID] = row
		}
	}

	views := make([]View, len(decks))
	for i, deck := range decks {
		view := View{
			ID:         deck.ID,
			Title:      deck.Title,
			Cards:      make([]cards.View, 0, len(deck.Cards)),
			CreatedBy:  usersByID[deck.CreatedByID].Name,
			Visibility: deck.Visibility,
			IsBlocked:  deck.IsBlocked,
			Favorites:  make([]FavoriteView, 0, len(deck.Favorites)),
			CreatedAt:  deck.CreatedAt,
			UpdatedAt:  deck.UpdatedAt,
		}
		for _, cardID := range deck.Cards {
			card, ok := cardsByID[cardID]
			if !ok {
				continue
			}
			view.Cards = append(view.Cards, cards.View{
				ID:        card.ID,
				Title:     card.Title,
				Content:   card.Content,
				CreatedBy: usersByID[card.CreatedByID].Name,
				CreatedAt: card.CreatedAt,
				UpdatedAt: card.UpdatedAt,
			})
		}
		for _, favID := range deck.Favorites {
			fav, ok := usersByID[favID]
			if !ok {
				continue
			}
			view.Favorites = append(view.Favorites, FavoriteView{Name: fav.Name, Email: fav.Email})
		}
		views[i] = view
	}
	return views, nil
}

func (s *Service) userNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
