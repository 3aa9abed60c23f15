package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
)

type contextKey string

const UserContextKey contextKey = "user"

var (
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenWrongScope = errors.New("token scope not allowed")
)

func RequireAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authService.GetCurrentUser(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user.Role != models.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APITokenAuth authenticates requests carrying an api scoped bearer token.
func APITokenAuth(tokenRepo repository.APITokenRepository, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || rawToken == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := AuthenticateToken(r.Context(), tokenRepo, userRepo, rawToken, models.TokenScopeAPI)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// AuthenticateToken resolves a raw token to its owner, rejecting expired
// tokens and tokens issued for another scope.
func AuthenticateToken(ctx context.Context, tokenRepo repository.APITokenRepository, userRepo repository.UserRepository, rawToken string, scope models.TokenScope) (models.User, error) {
	token, err := tokenRepo.FindByTokenHash(ctx, repository.HashToken(rawToken))
	if err != nil {
		return models.User{}, fmt.Errorf("looking up token: %w", err)
	}
	if token.Scope != scope {
		return models.User{}, ErrTokenWrongScope
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return models.User{}, ErrTokenExpired
	}

	user, err := userRepo.FindByID(ctx, token.CreatedByUserID)
	if err != nil {
		return models.User{}, fmt.Errorf("finding token owner: %w", err)
	}
	return user, nil
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func GetUser(ctx context.Context) models.User {
	user, _ := ctx.Value(UserContextKey).(models.User)
	return user
}
