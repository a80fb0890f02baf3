package models

import "github.com/google/uuid"

type Card struct {
	Base
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"not null" json:"content"`
	CreatedByID uuid.UUID `gorm:"type:uuid;index;not null" json:"created_by"`

	// Relationships
	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"-"`
}

func (Card) TableName() string {
	return "cards"
}
