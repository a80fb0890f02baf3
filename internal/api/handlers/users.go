package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/api/dto"
	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/himanshinagori/buddyboard/internal/auth"
	"github.com/himanshinagori/buddyboard/internal/query"
)

type UserHandler struct {
	service *auth.Service
	logger  *slog.Logger
}

func NewUserHandler(service *auth.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// setAuthCookies mirrors the token pair into cookies. The refresh token is
// HttpOnly; the access token is readable by the client app.
func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	result, err := h.service.SignUp(r.Context(), auth.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	setAuthCookies(w, result.AccessToken, result.RefreshToken)
	data := dto.AuthData{User: result.User, AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}
	writeJSON(w, http.StatusOK, data, "User registered successfully. Please verify your email.")
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	result, err := h.service.SignIn(r.Context(), auth.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	setAuthCookies(w, result.AccessToken, result.RefreshToken)
	data := dto.AuthData{User: result.User, AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}
	writeJSON(w, http.StatusOK, data, "Sign-in successful")
}

func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.service.SignOut(r.Context(), userID); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, nil, "User logged out")
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Email verified successfully")
}

func (h *UserHandler) SendPasswordResetEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	if err := h.service.SendPasswordResetEmail(r.Context(), req.Email); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Email sent successfully")
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Password reset successfully")
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		apierr.Write(w, h.logger, apierr.BadRequest("Invalid user ID"))
		return
	}

	profile, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile, "User retrieved successfully")
}

func (h *UserHandler) SearchUser(w http.ResponseWriter, r *http.Request) {
	search := query.ParseUserSearch(r.URL.Query())

	results, err := h.service.SearchUsers(r.Context(), search)
	if err != nil {
		apierr.Write(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, results, "Search results retrieved successfully")
}
