package handlers

import (
	"context"
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

func setupMealRouter(t *testing.T) (chi.Router, *repository.SQLiteRecipeRepository, models.User) {
	t.Helper()
	database, user := setupDatabaseWithUser(t, models.RoleMember)
	recipeRepo := repository.NewRecipeRepository(database)
	handler := NewMealHandler(repository.NewMealPlanRepository(database), recipeRepo)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, requestWithUser(r, user))
		})
	})
	router.Get("/meals", handler.Week)
	router.Post("/meals", handler.Save)
	router.Post("/meals/servings", handler.Servings)
	router.Post("/meals/delete", handler.Delete)
	return router, recipeRepo, user
}

func TestMealHandler_SaveRecipeAndCustomMeals(t *testing.T) {
	router, recipeRepo, user := setupMealRouter(t)
	recipe, err := recipeRepo.Create(context.Background(), models.Recipe{Title: "Tacos", CreatedByUserID: user.ID})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals", url.Values{
		"date": {"2025-06-20"}, "meal_type": {"dinner"}, "recipe_id": {recipe.ID}, "servings": {"6"},
	}))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	saved := decodeBody[models.MealPlan](t, recorder)
	assert.Equal(t, "Tacos", saved.Name)
	require.NotNil(t, saved.Servings)
	assert.Equal(t, 6, *saved.Servings)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals", url.Values{
		"date": {"2025-06-16"}, "meal_type": {"lunch"}, "name": {"Rester"},
	}))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/meals?week_start=2025-06-16", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	week := decodeBody[mealWeek](t, recorder)
	assert.Equal(t, "2025-06-22", week.WeekEnd)
	require.Len(t, week.Meals, 2)
	assert.Equal(t, "Rester", week.Meals[0].Name)
	assert.Equal(t, "custom:Rester", week.Meals[0].SlotValue())
	assert.Equal(t, recipe.ID, week.Meals[1].SlotValue())
}

func TestMealHandler_ServingsAndDelete(t *testing.T) {
	router, _, _ := setupMealRouter(t)
	slot := url.Values{"date": {"2025-06-17"}, "meal_type": {"dinner"}}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals/servings", url.Values{
		"date": slot["date"], "meal_type": slot["meal_type"], "servings": {"4"},
	}))
	assert.Equal(t, http.StatusNotFound, recorder.Code, "empty slot")

	router.ServeHTTP(httptest.NewRecorder(), formRequest(http.MethodPost, "/meals", url.Values{
		"date": slot["date"], "meal_type": slot["meal_type"], "name": {"Soppa"},
	}))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals/servings", url.Values{
		"date": slot["date"], "meal_type": slot["meal_type"], "servings": {"4"},
	}))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals/delete", slot))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/meals?week_start=2025-06-16", nil))
	assert.Empty(t, decodeBody[mealWeek](t, recorder).Meals)
}

func TestMealHandler_Validation(t *testing.T) {
	router, _, _ := setupMealRouter(t)

	for name, form := range map[string]url.Values{
		"bad date":       {"date": {"tomorrow"}, "meal_type": {"dinner"}, "name": {"x"}},
		"bad meal type":  {"date": {"2025-06-16"}, "meal_type": {"brunch"}, "name": {"x"}},
		"no name":        {"date": {"2025-06-16"}, "meal_type": {"dinner"}},
		"unknown recipe": {"date": {"2025-06-16"}, "meal_type": {"dinner"}, "recipe_id": {"missing"}},
		"bad servings":   {"date": {"2025-06-16"}, "meal_type": {"dinner"}, "name": {"x"}, "servings": {"0"}},
	} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, formRequest(http.MethodPost, "/meals", form))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, name)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/meals?week_start=june", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
