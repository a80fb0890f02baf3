package dto

import (
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/api/validation"
	"github.com/himanshinagori/buddyboard/internal/database/models"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignUpRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return apierr.BadRequest("All fields are required")
	}
	if !validation.IsValidEmail(r.Email) {
		return apierr.BadRequest("Invalid email address")
	}
	if ok, msg := validation.IsValidPassword(r.Password); !ok {
		return apierr.BadRequest(msg)
	}
	return nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return apierr.BadRequest("Email and password are required")
	}
	return nil
}

type PasswordResetEmailRequest struct {
	Email string `json:"email"`
}

func (r PasswordResetEmailRequest) Validate() error {
	if r.Email == "" {
		return apierr.BadRequest("Email is required")
	}
	return nil
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	if r.Token == "" || r.Password == "" {
		return apierr.BadRequest("Token and password are required")
	}
	if ok, msg := validation.IsValidPassword(r.Password); !ok {
		return apierr.BadRequest(msg)
	}
	return nil
}

// AuthData mirrors the tokens in the body alongside the cookies.
type AuthData struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}
