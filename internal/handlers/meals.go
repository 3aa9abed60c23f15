package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
)

type MealHandler struct {
	mealPlanRepo repository.MealPlanRepository
	recipeRepo   repository.RecipeRepository
}

func NewMealHandler(mealPlanRepo repository.MealPlanRepository, recipeRepo repository.RecipeRepository) *MealHandler {
	return &MealHandler{mealPlanRepo: mealPlanRepo, recipeRepo: recipeRepo}
}

type mealWeek struct {
	WeekStart string            `json:"week_start"`
	WeekEnd   string            `json:"week_end"`
	Meals     []models.MealPlan `json:"meals"`
}

// weekStartParam returns the week_start query or form value, defaulting to
// the Monday of the current week.
func weekStartParam(r *http.Request) string {
	if weekStart := r.FormValue("week_start"); weekStart != "" {
		return weekStart
	}
	return services.WeekStart(time.Now())
}

func (handler *MealHandler) Week(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, err := services.WeekRange(weekStartParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meals, err := handler.mealPlanRepo.FindAll(ctx, repository.MealPlanFilter{DateFrom: from, DateTo: to})
	if err != nil {
		slog.Error("finding meals for week", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meals")
		return
	}

	writeJSON(w, http.StatusOK, mealWeek{WeekStart: from, WeekEnd: to, Meals: nonNil(meals)})
}

// Save plans a slot with either a recipe_id or a free text name.
func (handler *MealHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	date, mealType, err := slotFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	servings, err := optionalInt(r.FormValue("servings"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "servings must be a positive number")
		return
	}

	meal := models.MealPlan{
		Date:            date,
		MealType:        mealType,
		Name:            strings.TrimSpace(r.FormValue("name")),
		Notes:           r.FormValue("notes"),
		Servings:        servings,
		CreatedByUserID: user.ID,
	}

	if recipeID := optionalString(r.FormValue("recipe_id")); recipeID != nil {
		recipe, err := handler.recipeRepo.FindByID(ctx, *recipeID)
		if repository.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "unknown recipe")
			return
		}
		if err != nil {
			slog.Error("finding recipe for meal", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save meal")
			return
		}
		meal.RecipeID = &recipe.ID
		if meal.Name == "" {
			meal.Name = recipe.Title
		}
	}

	if meal.Name == "" {
		writeError(w, http.StatusBadRequest, "name or recipe_id is required")
		return
	}

	if err := handler.mealPlanRepo.Upsert(ctx, meal); err != nil {
		slog.Error("saving meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save meal")
		return
	}

	saved, err := handler.mealPlanRepo.FindByDateAndType(ctx, date, mealType)
	if err != nil {
		slog.Error("finding saved meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meal")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Servings sets the serving override of a planned slot. An empty value
// clears it.
func (handler *MealHandler) Servings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	date, mealType, err := slotFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	servings, err := optionalInt(r.FormValue("servings"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "servings must be a positive number")
		return
	}

	if err := handler.mealPlanRepo.UpdateServings(ctx, date, mealType, servings); err != nil {
		writeNotFoundOrError(w, err, "meal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	date, mealType, err := slotFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.mealPlanRepo.Delete(ctx, date, mealType); err != nil {
		slog.Error("deleting meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func slotFromForm(r *http.Request) (string, models.MealType, error) {
	date := r.FormValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", errors.New("date must be formatted YYYY-MM-DD")
	}
	mealType := models.MealType(r.FormValue("meal_type"))
	if !mealType.Valid() {
		return "", "", errors.New("meal_type must be breakfast, lunch or dinner")
	}
	return date, mealType, nil
}
