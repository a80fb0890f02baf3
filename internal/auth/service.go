package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/apierr"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/query"
	"gorm.io/gorm"
)

// passwordResetWindow is how long a reset token stays usable.
const passwordResetWindow = time.Hour

// Notifier is the slice of outbound email the account lifecycle needs.
type Notifier interface {
	VerificationEmail(ctx context.Context, user *models.User, verifyURL string) error
	PasswordResetEmail(ctx context.Context, user *models.User, resetURL string) error
}

type Service struct {
	db        *gorm.DB
	jwt       *JWTService
	notifier  Notifier
	publicURL string
	clientURL string
}

func NewService(db *gorm.DB, jwt *JWTService, notifier Notifier, publicURL, clientURL string) *Service {
	return &Service{
		db:        db,
		jwt:       jwt,
		notifier:  notifier,
		publicURL: publicURL,
		clientURL: clientURL,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignInInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// SignUp creates an unverified account, issues a token pair anyway, and sends
// the verification email before returning.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apierr.BadRequest("All fields are required")
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apierr.BadRequest("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Internal(err)
	}

	user := models.User{
		Name:                   name,
		Email:                  email,
		Role:                   models.RoleUser,
		IsEmailVerified:        false,
		EmailVerificationToken: NewSecureToken(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, apierr.Internal(err)
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apierr.Internal(err)
	}

	result, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	verifyURL := fmt.Sprintf("%s/api/auth/users/verifyEmail/%s", s.publicURL, user.EmailVerificationToken)
	if err := s.notifier.VerificationEmail(ctx, &user, verifyURL); err != nil {
		return nil, apierr.Internal(err)
	}

	return result, nil
}

// SignIn requires a verified email and a matching password.
func (s *Service) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.BadRequest("Invalid credentials")
		}
		return nil, apierr.Internal(err)
	}

	if !user.IsEmailVerified {
		return nil, apierr.BadRequest("Email not verified. Please verify your email.")
	}

	if !user.CheckPassword(input.Password) {
		return nil, apierr.BadRequest("Incorrect password")
	}

	return s.issueTokens(ctx, &user)
}

// SignOut clears the stored refresh token.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", "").Error
	if err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// VerifyEmail consumes a single-use verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email_verification_token = ? AND email_verification_token <> ''", token).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.BadRequest("Invalid or expired token")
		}
		return apierr.Internal(err)
	}

	updates := map[string]interface{}{
		"is_email_verified":        true,
		"email_verification_token": "",
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// SendPasswordResetEmail issues a time-boxed reset token and mails the link.
func (s *Service) SendPasswordResetEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.BadRequest("User with this email does not exist")
		}
		return apierr.Internal(err)
	}

	token := NewSecureToken()
	expires := time.Now().Add(passwordResetWindow)
	updates := map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expires,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return apierr.Internal(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	if err := s.notifier.PasswordResetEmail(ctx, &user, resetURL); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return apierr.BadRequest("Token and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.BadRequest("Invalid or expired token")
		}
		return apierr.Internal(err)
	}

	if err := user.SetPassword(password); err != nil {
		return apierr.Internal(err)
	}

	updates := map[string]interface{}{
		"password_hash":          user.PasswordHash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// ProfileDeck is the owned-deck projection embedded in a user profile.
type ProfileDeck struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Visibility models.Visibility `json:"visibility"`
	IsBlocked  bool              `json:"is_blocked"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Profile is the caller-safe single-user projection.
type Profile struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Role            string        `json:"role"`
	IsEmailVerified bool          `json:"is_email_verified"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Decks           []ProfileDeck `json:"decks"`
}

// GetUser returns a profile with the user's owned decks joined in.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("User not found")
		}
		return nil, apierr.Internal(err)
	}

	var decks []models.Deck
	if err := s.db.WithContext(ctx).Where("created_by_id = ?", userID).Find(&decks).Error; err != nil {
		return nil, apierr.Internal(err)
	}

	profile := &Profile{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		Decks:           make([]ProfileDeck, len(decks)),
	}
	for i, deck := range decks {
		profile.Decks[i] = ProfileDeck{
			ID:         deck.ID,
			Title:      deck.Title,
			Visibility: deck.Visibility,
			IsBlocked:  deck.IsBlocked,
			CreatedAt:  deck.CreatedAt,
			UpdatedAt:  deck.UpdatedAt,
		}
	}
	return profile, nil
}

// UserSearchResult is one row of the admin user listing.
type UserSearchResult struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"createdAt"`
	DecksCount      int       `json:"decksCount"`
	LikesCount      int       `json:"likesCount"`
}

// SearchUsers runs the admin listing: role/name/joined filters in SQL, then
// the derived deck-count and favorite-count stages over the loaded rows.
func (s *Service) SearchUsers(ctx context.Context, search query.UserSearch) ([]UserSearchResult, error) {
	var users []models.User
	if err := search.Scope(s.db.WithContext(ctx).Model(&models.User{})).Find(&users).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	if len(users) == 0 {
		return []UserSearchResult{}, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var decks []models.Deck
	if err := s.db.WithContext(ctx).Where("created_by_id IN ?", ids).Find(&decks).Error; err != nil {
		return nil, apierr.Internal(err)
	}

	stats := make(map[uuid.UUID]query.UserStats, len(users))
	for _, deck := range decks {
		st := stats[deck.CreatedByID]
		st.Decks++
		st.Likes += len(deck.Favorites)
		stats[deck.CreatedByID] = st
	}

	results := make([]UserSearchResult, 0, len(users))
	for _, u := range users {
		st := stats[u.ID]
		if !search.Match(st) {
			continue
		}
		results = append(results, UserSearchResult{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            u.Role,
			IsEmailVerified: u.IsEmailVerified,
			CreatedAt:       u.CreatedAt,
			DecksCount:      st.Decks,
			LikesCount:      st.Likes,
		})
	}
	return results, nil
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	err = s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token", refresh).Error
	if err != nil {
		return nil, apierr.Internal(err)
	}
	user.RefreshToken = refresh

	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
