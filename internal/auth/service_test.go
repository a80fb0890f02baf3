package auth_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/himanshinagori/buddyboard/internal/auth"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/notify"
	"github.com/himanshinagori/buddyboard/internal/query"
	"github.com/himanshinagori/buddyboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*auth.Service, *gorm.DB, *testutil.MailRecorder) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	recorder := &testutil.MailRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.New(recorder, nil, logger)

	jwtService := testutil.CreateTestJWTService()
	service := auth.NewService(db, jwtService, notifier, "http://localhost:8080", "http://localhost:4200")

	return service, db, recorder
}

func TestService_SignUp(t *testing.T) {
	t.Run("creates unverified user and sends verification email", func(t *testing.T) {
		service, db, recorder := setupAuthService(t)
		ctx := testutil.TestContext(t)

		result, err := service.SignUp(ctx, auth.SignUpInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "securepassword",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.False(t, result.User.IsEmailVerified)

		var stored models.User
		require.NoError(t, db.First(&stored, "email = ?", "alice@example.com").Error)
		assert.NotEmpty(t, stored.EmailVerificationToken)
		assert.Equal(t, models.RoleUser, stored.Role)

		require.Equal(t, 1, recorder.Count())
		msg := recorder.Last()
		assert.Equal(t, "alice@example.com", msg.To)
		assert.Equal(t, "Email Verification", msg.Subject)
		assert.Contains(t, msg.Text, "/api/auth/users/verifyEmail/"+stored.EmailVerificationToken)
	})

	t.Run("normalizes email case", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		_, err := service.SignUp(ctx, auth.SignUpInput{
			Name:     "Bob",
			Email:    "  Bob@Example.COM ",
			Password: "securepassword",
		})
		require.NoError(t, err)

		var stored models.User
		require.NoError(t, db.First(&stored, "email = ?", "bob@example.com").Error)
	})

	t.Run("duplicate email is rejected regardless of case", func(t *testing.T) {
		service, _, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		_, err := service.SignUp(ctx, auth.SignUpInput{
			Name:     "Carol",
			Email:    "carol@example.com",
			Password: "securepassword",
		})
		require.NoError(t, err)

		_, err = service.SignUp(ctx, auth.SignUpInput{
			Name:     "Carol Again",
			Email:    "CAROL@example.com",
			Password: "otherpassword",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email already exists")
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		service, _, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		_, err := service.SignUp(ctx, auth.SignUpInput{Email: "noname@example.com", Password: "securepassword"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "All fields are required")
	})
}

func TestService_SignIn(t *testing.T) {
	signUp := func(t *testing.T, service *auth.Service, db *gorm.DB, email string) *models.User {
		t.Helper()
		ctx := testutil.TestContext(t)
		_, err := service.SignUp(ctx, auth.SignUpInput{
			Name:     "Test",
			Email:    email,
			Password: "securepassword",
		})
		require.NoError(t, err)

		var user models.User
		require.NoError(t, db.First(&user, "email = ?", email).Error)
		return &user
	}

	t.Run("unverified user cannot sign in", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)
		signUp(t, service, db, "dave@example.com")

		_, err := service.SignIn(ctx, auth.SignInInput{Email: "dave@example.com", Password: "securepassword"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email not verified")
	})

	t.Run("verified user signs in and gets tokens", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)
		user := signUp(t, service, db, "erin@example.com")

		require.NoError(t, service.VerifyEmail(ctx, user.EmailVerificationToken))

		result, err := service.SignIn(ctx, auth.SignInInput{Email: "erin@example.com", Password: "securepassword"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.True(t, result.User.IsEmailVerified)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)
		user := signUp(t, service, db, "frank@example.com")
		require.NoError(t, service.VerifyEmail(ctx, user.EmailVerificationToken))

		_, err := service.SignIn(ctx, auth.SignInInput{Email: "frank@example.com", Password: "wrongpassword"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Incorrect password")
	})

	t.Run("unknown email", func(t *testing.T) {
		service, _, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		_, err := service.SignIn(ctx, auth.SignInInput{Email: "ghost@example.com", Password: "whatever"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid credentials")
	})
}

func TestService_VerifyEmail(t *testing.T) {
	t.Run("token is single use", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		_, err := service.SignUp(ctx, auth.SignUpInput{
			Name:     "Grace",
			Email:    "grace@example.com",
			Password: "securepassword",
		})
		require.NoError(t, err)

		var user models.User
		require.NoError(t, db.First(&user, "email = ?", "grace@example.com").Error)
		token := user.EmailVerificationToken

		require.NoError(t, service.VerifyEmail(ctx, token))

		var verified models.User
		require.NoError(t, db.First(&verified, "id = ?", user.ID).Error)
		assert.True(t, verified.IsEmailVerified)
		assert.Empty(t, verified.EmailVerificationToken)

		// Second use fails
		err = service.VerifyEmail(ctx, token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})

	t.Run("empty token never matches", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		// A verified user has a cleared token column; an empty lookup must
		// not match that row.
		testutil.CreateTestUser(t, db, models.RoleUser)

		err := service.VerifyEmail(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})
}

func TestService_PasswordReset(t *testing.T) {
	t.Run("full reset flow and single-use token", func(t *testing.T) {
		service, db, recorder := setupAuthService(t)
		ctx := testutil.TestContext(t)

		user := testutil.CreateTestUser(t, db, models.RoleUser)

		require.NoError(t, service.SendPasswordResetEmail(ctx, user.Email))

		msg := recorder.Last()
		require.NotNil(t, msg)
		assert.Equal(t, "Password Reset", msg.Subject)
		assert.Contains(t, msg.Text, "http://localhost:4200/reset-password/")

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		token := stored.PasswordResetToken
		require.NotEmpty(t, token)
		require.NotNil(t, stored.PasswordResetExpires)
		assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.PasswordResetExpires, time.Minute)

		require.NoError(t, service.ResetPassword(ctx, token, "newpassword123"))

		// New password works
		result, err := service.SignIn(ctx, auth.SignInInput{Email: user.Email, Password: "newpassword123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)

		// Token is consumed
		err = service.ResetPassword(ctx, token, "anotherpassword")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})

	t.Run("unknown email", func(t *testing.T) {
		service, _, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		err := service.SendPasswordResetEmail(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "User with this email does not exist")
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		user := testutil.CreateTestUser(t, db, models.RoleUser)
		expired := time.Now().Add(-time.Minute)
		require.NoError(t, db.Model(user).Updates(map[string]interface{}{
			"password_reset_token":   "stale-token",
			"password_reset_expires": expired,
		}).Error)

		err := service.ResetPassword(ctx, "stale-token", "newpassword123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid or expired token")
	})
}

func TestService_GetUser(t *testing.T) {
	t.Run("profile includes owned decks", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		user := testutil.CreateTestUser(t, db, models.RoleUser)
		testutil.CreateTestDeck(t, db, user.ID, "Deck One", models.VisibilityPublic)
		testutil.CreateTestDeck(t, db, user.ID, "Deck Two", models.VisibilityPrivate)

		profile, err := service.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, profile.Email)
		assert.Len(t, profile.Decks, 2)
	})
}

func TestService_SearchUsers(t *testing.T) {
	t.Run("derived counts and thresholds", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		prolific := testutil.CreateTestUser(t, db, models.RoleUser)
		quiet := testutil.CreateTestUser(t, db, models.RoleUser)

		d1 := testutil.CreateTestDeck(t, db, prolific.ID, "First", models.VisibilityPublic)
		testutil.CreateTestDeck(t, db, prolific.ID, "Second", models.VisibilityPublic)

		// Two favorites on the first deck
		fan1 := testutil.CreateTestUser(t, db, models.RoleUser)
		fan2 := testutil.CreateTestUser(t, db, models.RoleUser)
		d1.Favorites = append(d1.Favorites, fan1.ID, fan2.ID)
		require.NoError(t, db.Model(d1).Update("favorites", d1.Favorites).Error)

		two := 2
		results, err := service.SearchUsers(ctx, query.UserSearch{Role: models.RoleUser, MinDecks: &two})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, prolific.ID, results[0].ID)
		assert.Equal(t, 2, results[0].DecksCount)
		assert.Equal(t, 2, results[0].LikesCount)

		// The quiet user appears when no thresholds apply
		all, err := service.SearchUsers(ctx, query.UserSearch{Role: models.RoleUser})
		require.NoError(t, err)
		ids := make(map[string]bool)
		for _, r := range all {
			ids[r.ID.String()] = true
		}
		assert.True(t, ids[quiet.ID.String()])
	})

	t.Run("exact name match excludes prefixes", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		foo := testutil.CreateTestUser(t, db, models.RoleUser)
		require.NoError(t, db.Model(foo).Update("name", "Foo").Error)
		foobar := testutil.CreateTestUser(t, db, models.RoleUser)
		require.NoError(t, db.Model(foobar).Update("name", "Foobar").Error)

		results, err := service.SearchUsers(ctx, query.UserSearch{
			Role:       models.RoleUser,
			Name:       "Foo",
			ExactMatch: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Foo", results[0].Name)

		// Substring match finds both
		results, err = service.SearchUsers(ctx, query.UserSearch{Role: models.RoleUser, Name: "foo"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("role filter separates admins from users", func(t *testing.T) {
		service, db, _ := setupAuthService(t)
		ctx := testutil.TestContext(t)

		testutil.CreateTestUser(t, db, models.RoleUser)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		results, err := service.SearchUsers(ctx, query.UserSearch{Role: models.RoleAdmin})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, admin.ID, results[0].ID)
	})
}
