package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jwtService := testutil.CreateTestJWTService()
	user := testutil.CreateTestUser(t, db, models.RoleUser)
	token := testutil.GenerateTestToken(t, jwtService, user)

	var capturedID uuid.UUID
	var capturedRole string
	handler := middleware.Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = middleware.GetUserID(r.Context())
		capturedRole = middleware.GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("accepts bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, user.ID, capturedID)
		assert.Equal(t, models.RoleUser, capturedRole)
	})

	t.Run("falls back to accessToken cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, user.ID, capturedID)
	})

	t.Run("header takes precedence over cookie", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db, models.RoleUser)
		otherToken := testutil.GenerateTestToken(t, jwtService, other)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: otherToken})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, user.ID, capturedID)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	jwtService := testutil.CreateTestJWTService()

	handler := middleware.Auth(jwtService)(middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("admin passes", func(t *testing.T) {
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		token := testutil.GenerateTestToken(t, jwtService, admin)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, models.RoleUser)
		token := testutil.GenerateTestToken(t, jwtService, user)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
