// Package cards implements the card CRUD operations. Cards are owned
// exclusively by their creator; every mutation is scoped to the owner.
package cards

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// View is the caller-safe card projection with the creator's name joined in.
type View struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(card *models.Card, creatorName string) View {
	return View{
		ID:        card.ID,
		Title:     card.Title,
		Content:   card.Content,
		CreatedBy: creatorName,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, title, content string) (*models.Card, error) {
	if title == "" || content == "" {
		return nil, apierr.BadRequest("Title and content are required")
	}

	card := models.Card{
		Title:       title,
		Content:     content,
		CreatedByID: userID,
	}
	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return &card, nil
}

type UpdateInput struct {
	Title   string
	Content string
}

// Update modifies the caller's card. Missing vs. foreign cards both return
// the same not-found error.
func (s *Service) Update(ctx context.Context, userID, cardID uuid.UUID, input UpdateInput) (*models.Card, error) {
	if input.Title == "" && input.Content == "" {
		return nil, apierr.BadRequest("At least one field is required for update")
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Content != "" {
		updates["content"] = input.Content
	}

	result := s.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ? AND created_by_id = ?", cardID, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, apierr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apierr.NotFound("Card not found or unauthorized")
	}

	var card models.Card
	if err := s.db.WithContext(ctx).First(&card, "id = ?", cardID).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return &card, nil
}

// Delete removes the caller's card and returns the removed row.
func (s *Service) Delete(ctx context.Context, userID, cardID uuid.UUID) (*models.Card, error) {
	var card models.Card
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_by_id = ?", cardID, userID).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Card not found or unauthorized")
		}
		return nil, apierr.Internal(err)
	}

	if err := s.db.WithContext(ctx).Delete(&card).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return &card, nil
}

// Get returns one card with the creator's name joined in.
func (s *Service) Get(ctx context.Context, cardID uuid.UUID) (*View, error) {
	var card models.Card
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		First(&card, "id = ?", cardID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Card not found or unauthorized")
		}
		return nil, apierr.Internal(err)
	}

	creatorName := ""
	if card.CreatedBy != nil {
		creatorName = card.CreatedBy.Name
	}
	view := toView(&card, creatorName)
	return &view, nil
}

// ListOwn returns every card created by the caller.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.WithContext(ctx).Where("created_by_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return cards, nil
}
