package dto

import "github.com/himanshinagori/buddyboard/internal/api/apierr"

type CreateDeckRequest struct {
	Title string `json:"title"`
}

func (r CreateDeckRequest) Validate() error {
	if r.Title == "" {
		return apierr.BadRequest("Title is required")
	}
	return nil
}

// UpdateDeckRequest fields are all optional; the service requires at least
// one to be present. Cards, when present, replaces the whole reference list.
type UpdateDeckRequest struct {
	Title      string   `json:"title"`
	Cards      []string `json:"cards"`
	Visibility string   `json:"visibility"`
}

type AddCardToDeckRequest struct {
	CardID string `json:"cardId"`
}

func (r AddCardToDeckRequest) Validate() error {
	if r.CardID == "" {
		return apierr.BadRequest("Card ID is required")
	}
	return nil
}

type BlockDeckRequest struct {
	Reasons string `json:"reasons"`
}
