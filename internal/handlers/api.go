package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/go-chi/chi/v5"
)

type TokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewTokenHandler(tokenRepo repository.APITokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

func (handler *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	scope := models.TokenScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = models.TokenScopeAPI
	}

	tokens, err := handler.tokenRepo.FindByUserIDAndScope(ctx, user.ID, scope)
	if err != nil {
		slog.Error("finding tokens", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load tokens")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tokens))
}

// Create issues a token. The raw value is only ever returned here.
func (handler *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	input := tokenInput{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Scope: r.FormValue("scope"),
	}
	if input.Scope == "" {
		input.Scope = string(models.TokenScopeAPI)
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusBadRequest, validationError(err).Error())
		return
	}

	token := models.APIToken{Name: input.Name, Scope: models.TokenScope(input.Scope), CreatedByUserID: user.ID}
	if days := r.FormValue("expires_in_days"); days != "" {
		count, err := strconv.Atoi(days)
		if err != nil || count <= 0 {
			writeError(w, http.StatusBadRequest, "expires_in_days must be a positive number")
			return
		}
		expiresAt := time.Now().AddDate(0, 0, count)
		token.ExpiresAt = &expiresAt
	}

	rawToken, err := generateToken()
	if err != nil {
		slog.Error("generating token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	token.TokenHash = repository.HashToken(rawToken)

	created, err := handler.tokenRepo.Create(ctx, token)
	if err != nil {
		slog.Error("creating token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         created.ID,
		"name":       created.Name,
		"scope":      created.Scope,
		"expires_at": created.ExpiresAt,
		"token":      rawToken,
	})
}

// Delete revokes a token owned by the current user. Admins may revoke any token.
func (handler *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	id := chi.URLParam(r, "id")

	token, err := handler.tokenRepo.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && token.CreatedByUserID != user.ID && user.Role != models.RoleAdmin) {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	if err != nil {
		slog.Error("finding token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}

	if err := handler.tokenRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// optionalInt parses an optional positive integer form value.
func optionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	number, err := strconv.Atoi(value)
	if err != nil || number <= 0 {
		return nil, fmt.Errorf("%q is not a positive number", value)
	}
	return &number, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
