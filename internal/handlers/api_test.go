package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/go-chi/chi/v5"
)

func TestTokenHandler_CreateUseAndRevoke(t *testing.T) {
	database, user := setupDatabaseWithUser(t, models.RoleMember)
	tokenRepo := repository.NewAPITokenRepository(database)
	userRepo := repository.NewUserRepository(database)
	handler := NewTokenHandler(tokenRepo)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, requestWithUser(r, user))
			})
		})
		r.Get("/tokens", handler.List)
		r.Post("/tokens", handler.Create)
		r.Post("/tokens/{id}/delete", handler.Delete)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))
		r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/tokens", url.Values{"name": {"Shopping script"}}))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	created := decodeBody[map[string]any](t, recorder)
	rawToken, _ := created["token"].(string)
	if len(rawToken) != 64 {
		t.Fatalf("expected 64 char hex token, got %q", rawToken)
	}
	if created["scope"] != string(models.TokenScopeAPI) {
		t.Errorf("expected api scope, got %v", created["scope"])
	}

	request := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	request.Header.Set("Authorization", "Bearer "+rawToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected token to authenticate, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tokens", nil))
	tokens := decodeBody[[]models.APIToken](t, recorder)
	if len(tokens) != 1 || tokens[0].TokenHash != "" {
		t.Fatalf("expected one token without its hash, got %+v", tokens)
	}

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/tokens/"+tokens[0].ID+"/delete", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 revoking, got %d", recorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	request.Header.Set("Authorization", "Bearer "+rawToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected revoked token to be rejected, got %d", recorder.Code)
	}
}

func TestTokenHandler_CannotRevokeOthersTokens(t *testing.T) {
	database, member := setupDatabaseWithUser(t, models.RoleMember)
	tokenRepo := repository.NewAPITokenRepository(database)
	ctx := context.Background()

	other, _ := repository.NewUserRepository(database).Create(ctx, models.User{Name: "Other"})
	token, err := tokenRepo.Create(ctx, models.APIToken{Name: "theirs", TokenHash: "hash-theirs", CreatedByUserID: other.ID})
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	router := chi.NewRouter()
	router.Post("/tokens/{id}/delete", NewTokenHandler(tokenRepo).Delete)

	request := requestWithUser(httptest.NewRequest(http.MethodPost, "/tokens/"+token.ID+"/delete", nil), member)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
	if _, err := tokenRepo.FindByID(ctx, token.ID); err != nil {
		t.Errorf("expected token to survive, got %v", err)
	}
}

func TestTokenHandler_Validation(t *testing.T) {
	database, user := setupDatabaseWithUser(t, models.RoleMember)
	handler := NewTokenHandler(repository.NewAPITokenRepository(database))

	for name, form := range map[string]url.Values{
		"missing name":   {},
		"unknown scope":  {"name": {"x"}, "scope": {"admin"}},
		"bad expiration": {"name": {"x"}, "expires_in_days": {"-3"}},
	} {
		recorder := httptest.NewRecorder()
		handler.Create(recorder, requestWithUser(formRequest(http.MethodPost, "/tokens", form), user))
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, recorder.Code)
		}
	}
}
