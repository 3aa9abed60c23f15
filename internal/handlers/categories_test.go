package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_Lifecycle(t *testing.T) {
	database, admin := setupDatabaseWithUser(t, models.RoleAdmin)
	handler := NewCategoryHandler(repository.NewCategoryRepository(database))

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, requestWithUser(r, admin))
		})
	})
	router.Get("/categories", handler.List)
	router.Post("/categories", handler.Create)
	router.Post("/categories/{id}", handler.Update)
	router.Post("/categories/{id}/delete", handler.Delete)

	send := func(method, target string, form url.Values) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, formRequest(method, target, form))
		return recorder
	}

	recorder := send(http.MethodPost, "/categories", url.Values{"name": {" Vegetarian "}})
	require.Equal(t, http.StatusCreated, recorder.Code)
	vegetarian := decodeBody[models.Category](t, recorder)
	assert.Equal(t, "Vegetarian", vegetarian.Name)

	assert.Equal(t, http.StatusConflict, send(http.MethodPost, "/categories", url.Values{"name": {"vegetarian"}}).Code)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/categories", url.Values{"name": {""}}).Code)

	baking := decodeBody[models.Category](t, send(http.MethodPost, "/categories", url.Values{"name": {"Baking"}}))
	assert.Equal(t, http.StatusConflict, send(http.MethodPost, "/categories/"+baking.ID, url.Values{"name": {"VEGETARIAN"}}).Code)
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "/categories/"+baking.ID, url.Values{"name": {"baking"}}).Code)
	assert.Equal(t, http.StatusNotFound, send(http.MethodPost, "/categories/missing", url.Values{"name": {"Soups"}}).Code)

	categories := decodeBody[[]models.Category](t, send(http.MethodGet, "/categories", nil))
	require.Len(t, categories, 2)
	assert.Equal(t, "baking", categories[0].Name)

	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "/categories/"+baking.ID+"/delete", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(http.MethodPost, "/categories/"+baking.ID+"/delete", nil).Code)
}
