package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/himanshinagori/buddyboard/internal/api/handlers"
	"github.com/himanshinagori/buddyboard/internal/api/middleware"
	"github.com/himanshinagori/buddyboard/internal/auth"
	"github.com/himanshinagori/buddyboard/internal/cards"
	"github.com/himanshinagori/buddyboard/internal/decks"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	DeckNotifier   decks.Notifier
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow the local client in
	// development. Credentials must be allowed for the auth cookies.
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	cardService := cards.NewService(cfg.DB)
	deckService := decks.NewService(cfg.DB, cfg.DeckNotifier)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	userHandler := handlers.NewUserHandler(cfg.AuthService, cfg.Logger)
	cardHandler := handlers.NewCardHandler(cardService, cfg.Logger)
	deckHandler := handlers.NewDeckHandler(deckService, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Welcome to BuddyBoard!"))
	})

	r.Route("/api/auth/users", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/signup", userHandler.SignUp)
		r.Post("/signin", userHandler.SignIn)
		r.Get("/verifyEmail/{token}", userHandler.VerifyEmail)
		r.Post("/sendPasswordResetEmail", userHandler.SendPasswordResetEmail)
		r.Post("/resetPassword", userHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/signout", userHandler.SignOut)
			r.Get("/getUser/{userId}", userHandler.GetUser)

			r.With(middleware.RequireAdmin).Get("/searchUser", userHandler.SearchUser)
		})
	})

	r.Route("/api/card", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService))

		r.Post("/", cardHandler.Create)
		r.Get("/", cardHandler.ListOwn)
		r.Get("/getUserCards", cardHandler.ListOwn)
		r.Get("/{id}", cardHandler.Get)
		r.Put("/{id}", cardHandler.Update)
		r.Delete("/{id}", cardHandler.Delete)
	})

	r.Route("/api/deck", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService))

		r.Post("/", deckHandler.Create)
		r.Get("/public", deckHandler.Public)
		r.Get("/favorites", deckHandler.Favorites)
		r.Get("/search", deckHandler.Search)
		r.Get("/getUserDecks", deckHandler.UserDecks)
		r.Get("/{id}", deckHandler.Get)
		r.Put("/{id}", deckHandler.Update)
		r.With(middleware.RequireAdmin).Delete("/{id}", deckHandler.SoftDelete)
		r.Post("/{id}/favorite", deckHandler.ToggleFavorite)
		r.Post("/{id}/cards", deckHandler.AddCard)
	})

	return &Router{r}
}
