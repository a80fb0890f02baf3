package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deckViewData struct {
	Title     string `json:"title"`
	CreatedBy string `json:"created_by"`
	Cards     []struct {
		Title     string `json:"title"`
		CreatedBy string `json:"created_by"`
	} `json:"cards"`
	Favorites []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"favorites"`
}

func TestDeckHandler_Create(t *testing.T) {
	router, tc := setupRouter(t)

	t.Run("creates a public deck", func(t *testing.T) {
		body := map[string]string{"title": "New Deck"}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/deck/", body, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Deck created successfully", resp.Message)

		var data struct {
			Title      string `json:"title"`
			Visibility string `json:"visibility"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "New Deck", data.Title)
		assert.Equal(t, "public", data.Visibility)
	})

	t.Run("title is required", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/deck/", map[string]string{}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestDeckHandler_Public(t *testing.T) {
	router, tc := setupRouter(t)

	testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Open", models.VisibilityPublic)
	testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Closed", models.VisibilityPrivate)
	blocked := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Banned", models.VisibilityPublic)
	require.NoError(t, tc.DB.Model(blocked).Update("is_blocked", true).Error)

	rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/public", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp envelope
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Public decks retrieved successfully", resp.Message)

	var data []deckViewData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "Open", data[0].Title)
}

func TestDeckHandler_FullScenario(t *testing.T) {
	router, tc := setupRouter(t)

	// User A builds a public deck with an attached card; user B fetches it
	// and sees A's name as creator and the card embedded.
	userB := testutil.CreateTestUser(t, tc.DB, models.RoleUser)
	tokenB := testutil.GenerateTestToken(t, tc.JWTService, userB)

	rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/card/", map[string]string{
		"title":   "Scenario Card",
		"content": "Body",
	}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)

	var cardResp envelope
	testutil.ParseJSONResponse(t, rr, &cardResp)
	var card struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(cardResp.Data, &card))

	rr = doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/deck/", map[string]string{
		"title": "Scenario Deck",
	}, tc.Token))
	require.Equal(t, http.StatusCreated, rr.Code)

	var deckResp envelope
	testutil.ParseJSONResponse(t, rr, &deckResp)
	var deck struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(deckResp.Data, &deck))

	rr = doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/deck/"+deck.ID+"/cards", map[string]string{
		"cardId": card.ID,
	}, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/"+deck.ID, nil, tokenB))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp envelope
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Deck retrieved successfully", resp.Message)

	var view deckViewData
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Equal(t, tc.User.Name, view.CreatedBy)
	require.Len(t, view.Cards, 1)
	assert.Equal(t, "Scenario Card", view.Cards[0].Title)
	assert.Equal(t, tc.User.Name, view.Cards[0].CreatedBy)
}

func TestDeckHandler_ToggleFavorite(t *testing.T) {
	router, tc := setupRouter(t)

	deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Likeable", models.VisibilityPublic)
	path := "/api/deck/" + deck.ID.String() + "/favorite"

	rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", path, nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp envelope
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Added to favorites", resp.Message)

	rr = doRequest(router, testutil.AuthenticatedRequest(t, "POST", path, nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Removed from favorites", resp.Message)
}

func TestDeckHandler_Favorites(t *testing.T) {
	router, tc := setupRouter(t)

	deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Saved", models.VisibilityPrivate)
	rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", "/api/deck/"+deck.ID.String()+"/favorite", nil, tc.Token))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/favorites", nil, tc.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp envelope
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Favorite decks retrieved successfully", resp.Message)

	var data []deckViewData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "Saved", data[0].Title)
	require.Len(t, data[0].Favorites, 1)
	assert.Equal(t, tc.User.Email, data[0].Favorites[0].Email)
}

func TestDeckHandler_Search(t *testing.T) {
	router, tc := setupRouter(t)

	deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Searchable", models.VisibilityPublic)
	c1 := testutil.CreateTestCard(t, tc.DB, tc.User.ID, "C1", "B")
	c2 := testutil.CreateTestCard(t, tc.DB, tc.User.ID, "C2", "B")
	c3 := testutil.CreateTestCard(t, tc.DB, tc.User.ID, "C3", "B")
	deck.Cards = append(deck.Cards, c1.ID, c2.ID, c3.ID)
	require.NoError(t, tc.DB.Model(deck).Update("cards", deck.Cards).Error)

	testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Searchable Too", models.VisibilityPublic)

	t.Run("threshold of three matches exactly three", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/search?cardsCount=3", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)

		var data []struct {
			Title      string `json:"title"`
			CardsCount int    `json:"cardsCount"`
			CreatedBy  string `json:"created_by"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data, 1)
		assert.Equal(t, "Searchable", data[0].Title)
		assert.Equal(t, 3, data[0].CardsCount)
		assert.Equal(t, tc.User.Name, data[0].CreatedBy)
	})

	t.Run("exact match excludes longer titles", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/search?title=Searchable&exactMatch=true", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)

		var data []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data, 1)
		assert.Equal(t, "Searchable", data[0].Title)
	})

	t.Run("substring match finds both", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/search?title=searchable", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)

		var data []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data, 2)
	})
}

func TestDeckHandler_UserDecks(t *testing.T) {
	router, tc := setupRouter(t)

	t.Run("empty list is a not-found", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/getUserDecks", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("lists own decks regardless of visibility", func(t *testing.T) {
		testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Secret", models.VisibilityPrivate)

		rr := doRequest(router, testutil.AuthenticatedRequest(t, "GET", "/api/deck/getUserDecks", nil, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "User decks retrieved successfully", resp.Message)
	})
}

func TestDeckHandler_Update(t *testing.T) {
	router, tc := setupRouter(t)

	t.Run("owner flips visibility", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Mutable", models.VisibilityPublic)

		body := map[string]string{"visibility": "private"}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "PUT", "/api/deck/"+deck.ID.String(), body, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Deck updated successfully", resp.Message)
	})

	t.Run("card list replaces wholesale", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Replaced", models.VisibilityPublic)
		card := testutil.CreateTestCard(t, tc.DB, tc.User.ID, "Only", "Body")

		body := map[string]interface{}{"cards": []string{card.ID.String()}}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "PUT", "/api/deck/"+deck.ID.String(), body, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var stored models.Deck
		require.NoError(t, tc.DB.First(&stored, "id = ?", deck.ID).Error)
		require.Len(t, stored.Cards, 1)
		assert.Equal(t, card.ID, stored.Cards[0])
	})

	t.Run("malformed card id in list", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Guarded", models.VisibilityPublic)

		body := map[string]interface{}{"cards": []string{"not-a-uuid"}}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "PUT", "/api/deck/"+deck.ID.String(), body, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestDeckHandler_AddCard(t *testing.T) {
	router, tc := setupRouter(t)

	deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Target", models.VisibilityPublic)
	card := testutil.CreateTestCard(t, tc.DB, tc.User.ID, "Payload", "Body")
	path := "/api/deck/" + deck.ID.String() + "/cards"

	t.Run("attaches the card", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", path, map[string]string{"cardId": card.ID.String()}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Card added to deck successfully", resp.Message)
	})

	t.Run("duplicate attach is rejected", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", path, map[string]string{"cardId": card.ID.String()}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("missing card id", func(t *testing.T) {
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "POST", path, map[string]string{}, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestDeckHandler_SoftDelete(t *testing.T) {
	router, tc := setupRouter(t)

	admin := testutil.CreateTestUser(t, tc.DB, models.RoleAdmin)
	adminToken := testutil.GenerateTestToken(t, tc.JWTService, admin)

	t.Run("admin blocks a deck and the owner is emailed", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Flagged", models.VisibilityPublic)

		body := map[string]string{"reasons": "spam"}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "DELETE", "/api/deck/"+deck.ID.String(), body, adminToken))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp envelope
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Deck soft deleted successfully", resp.Message)

		var stored models.Deck
		require.NoError(t, tc.DB.First(&stored, "id = ?", deck.ID).Error)
		assert.True(t, stored.IsBlocked)

		require.Equal(t, 1, tc.Mail.Count())
		assert.Equal(t, tc.User.Email, tc.Mail.Last().To)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Untouchable", models.VisibilityPublic)

		body := map[string]string{"reasons": "grudge"}
		rr := doRequest(router, testutil.AuthenticatedRequest(t, "DELETE", "/api/deck/"+deck.ID.String(), body, tc.Token))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("reason is required", func(t *testing.T) {
		deck := testutil.CreateTestDeck(t, tc.DB, tc.User.ID, "Reasonless", models.VisibilityPublic)

		rr := doRequest(router, testutil.AuthenticatedRequest(t, "DELETE", "/api/deck/"+deck.ID.String(), map[string]string{}, adminToken))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}
