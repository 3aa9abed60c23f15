package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bensuskins/family-meals/internal/config"
	"github.com/bensuskins/family-meals/internal/handlers"
	"github.com/bensuskins/family-meals/internal/metrics"
	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	mealPlanRepo := repository.NewMealPlanRepository(database)
	groceryRepo := repository.NewGroceryRepository(database)

	groceryService := services.NewGroceryService(mealPlanRepo, recipeRepo, groceryRepo)

	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, tokenRepo, settingsRepo)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	icalHandler := handlers.NewICalHandler(tokenRepo, userRepo, settingsRepo, mealPlanRepo, recipeRepo, cfg.BaseURL)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo, categoryRepo, mealPlanRepo)
	mealHandler := handlers.NewMealHandler(mealPlanRepo, recipeRepo)
	groceryHandler := handlers.NewGroceryHandler(groceryService)

	serverMetrics := metrics.New()
	groceryHandler.ObserveLists(serverMetrics.ObserveGroceryList)
	rateLimit := middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateLimit)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(serverMetrics.Middleware)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/login", authHandler.LoginPage)
	router.Get("/auth/callback", authHandler.Callback)
	router.Get("/logout", authHandler.Logout)

	router.Handle("/metrics", serverMetrics.Handler())

	router.With(rateLimit).Get("/ical", icalHandler.Feed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Get("/me", authHandler.Me)

		r.Get("/recipes", recipeHandler.List)
		r.Get("/recipes/{id}", recipeHandler.Detail)
		r.Post("/recipes", recipeHandler.Create)
		r.Post("/recipes/{id}", recipeHandler.Update)
		r.Post("/recipes/{id}/delete", recipeHandler.Delete)

		r.Get("/meals", mealHandler.Week)
		r.Post("/meals", mealHandler.Save)
		r.Post("/meals/servings", mealHandler.Servings)
		r.Post("/meals/delete", mealHandler.Delete)

		r.Get("/grocery", groceryHandler.List)
		r.Post("/grocery/items", groceryHandler.AddItem)
		r.Post("/grocery/items/{id}/delete", groceryHandler.DeleteItem)
		r.Post("/grocery/check", groceryHandler.Check)
		r.Post("/grocery/clear", groceryHandler.Clear)

		r.Get("/categories", categoryHandler.List)

		r.Get("/tokens", tokenHandler.List)
		r.Post("/tokens", tokenHandler.Create)
		r.Post("/tokens/{id}/delete", tokenHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/categories", categoryHandler.Create)
			r.Post("/categories/{id}", categoryHandler.Update)
			r.Post("/categories/{id}/delete", categoryHandler.Delete)

			r.Get("/admin/users", adminHandler.Users)
			r.Post("/admin/users/{id}/promote", adminHandler.PromoteUser)
			r.Post("/admin/users/{id}/demote", adminHandler.DemoteUser)
			r.Get("/admin/settings", adminHandler.Settings)
			r.Post("/admin/settings", adminHandler.UpdateSettings)
		})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))

		r.Get("/recipes", recipeHandler.List)
		r.Get("/recipes/{id}", recipeHandler.Detail)
		r.Get("/meals", mealHandler.Week)
		r.Get("/grocery", groceryHandler.List)
		r.Get("/categories", categoryHandler.List)
	})

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Start(ctx context.Context) error {
	address := ":" + server.config.Port
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", address)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
