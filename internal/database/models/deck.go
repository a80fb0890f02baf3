package models

import "github.com/google/uuid"

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is one of the two supported visibility states.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

type Deck struct {
	Base
	Title       string    `gorm:"not null" json:"title"`
	CreatedByID uuid.UUID `gorm:"type:uuid;index;not null" json:"created_by"`

	Visibility Visibility `gorm:"default:'public'" json:"visibility"`
	IsBlocked  bool       `gorm:"default:false" json:"is_blocked"`

	// Card and favoriter references are shared ids, not owned rows: a card
	// may appear in many decks and deleting a card does not touch deck
	// membership.
	Cards     []uuid.UUID `gorm:"serializer:json" json:"cards"`
	Favorites []uuid.UUID `gorm:"serializer:json" json:"favorites"`

	// Relationships
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (Deck) TableName() string {
	return "decks"
}

// HasCard reports whether the deck already references the card.
func (d *Deck) HasCard(cardID uuid.UUID) bool {
	for _, id := range d.Cards {
		if id == cardID {
			return true
		}
	}
	return false
}

// FavoriteIndex returns the position of userID in the favorites list, or -1.
func (d *Deck) FavoriteIndex(userID uuid.UUID) int {
	for i, id := range d.Favorites {
		if id == userID {
			return i
		}
	}
	return -1
}
