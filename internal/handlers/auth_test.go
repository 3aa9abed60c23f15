package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bensuskins/family-meals/internal/config"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
	"github.com/bensuskins/family-meals/internal/testutil"
)

func newDevAuthHandler(t *testing.T) (*AuthHandler, *services.AuthService) {
	t.Helper()
	authService, err := services.NewAuthService(
		context.Background(),
		config.Config{SessionSecret: "test-secret"},
		repository.NewUserRepository(testutil.NewTestDatabase(t)),
	)
	if err != nil {
		t.Fatalf("creating auth service: %v", err)
	}
	return NewAuthHandler(authService), authService
}

func TestLoginPage_DevLoginWithoutOIDC(t *testing.T) {
	handler, authService := newDevAuthHandler(t)

	recorder := httptest.NewRecorder()
	handler.LoginPage(recorder, httptest.NewRequest(http.MethodGet, "/login?next=/grocery?week_start=2025-06-16", nil))

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d\nbody: %s", recorder.Code, recorder.Body.String())
	}
	if location := recorder.Header().Get("Location"); location != "/grocery?week_start=2025-06-16" {
		t.Errorf("expected redirect back to the grocery list, got %q", location)
	}

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	user, err := authService.GetCurrentUser(request)
	if err != nil {
		t.Fatalf("session cookie not usable: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected dev user to be admin, got %q", user.Role)
	}
}

func TestLoginPage_IgnoresForeignNext(t *testing.T) {
	handler, _ := newDevAuthHandler(t)

	recorder := httptest.NewRecorder()
	handler.LoginPage(recorder, httptest.NewRequest(http.MethodGet, "/login?next=//evil.example.com", nil))

	if location := recorder.Header().Get("Location"); location != "/" {
		t.Errorf("expected redirect to /, got %q", location)
	}
}

func TestCallback_RejectsStateMismatch(t *testing.T) {
	handler, _ := newDevAuthHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/auth/callback?state=other&code=x", nil)
	request.AddCookie(&http.Cookie{Name: stateCookieName, Value: "expected"})
	recorder := httptest.NewRecorder()
	handler.Callback(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}

func TestLocalPath(t *testing.T) {
	tests := map[string]string{
		"":                    "/",
		"/recipes/abc":        "/recipes/abc",
		"https://example.com": "/",
		"//example.com":       "/",
		"/\\example.com":      "/",
		"meals":               "/",
	}
	for input, want := range tests {
		if got := localPath(input); got != want {
			t.Errorf("localPath(%q): expected %q, got %q", input, want, got)
		}
	}
}
