package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/testutil"
)

func setupDatabaseWithUser(t *testing.T, role models.Role) (*sql.DB, models.User) {
	t.Helper()
	database := testutil.NewTestDatabase(t)
	user, err := repository.NewUserRepository(database).Create(context.Background(), models.User{
		Email: "cook@example.com",
		Name:  "Cook",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return database, user
}

func requestWithUser(request *http.Request, user models.User) *http.Request {
	return request.WithContext(middleware.WithUser(request.Context(), user))
}

func formRequest(method, target string, form url.Values) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("decoding response %q: %v", recorder.Body.String(), err)
	}
	return value
}
