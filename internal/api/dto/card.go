package dto

import "github.com/himanshinagori/buddyboard/internal/api/apierr"

type CreateCardRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r CreateCardRequest) Validate() error {
	if r.Title == "" || r.Content == "" {
		return apierr.BadRequest("Title and content are required")
	}
	return nil
}

// UpdateCardRequest fields are all optional; the service requires at least
// one to be present.
type UpdateCardRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
