package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bensuskins/family-meals/internal/grocery"
	"github.com/bensuskins/family-meals/internal/ingredients"
	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/services"
	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	recipeRepo   repository.RecipeRepository
	categoryRepo repository.CategoryRepository
	mealPlanRepo repository.MealPlanRepository
}

func NewRecipeHandler(recipeRepo repository.RecipeRepository, categoryRepo repository.CategoryRepository, mealPlanRepo repository.MealPlanRepository) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo, categoryRepo: categoryRepo, mealPlanRepo: mealPlanRepo}
}

type recipeDetail struct {
	models.Recipe
	CategoryName      string                   `json:"category_name,omitempty"`
	RequestedServings int                      `json:"requested_servings"`
	ScaledIngredients []models.IngredientGroup `json:"scaled_ingredients"`
}

// List returns recipes ordered by ?sort= and optionally limited to ?category_id=.
func (handler *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recipes, err := handler.recipeRepo.FindAll(ctx)
	if err != nil {
		slog.Error("finding recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}

	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		filtered := recipes[:0]
		for _, recipe := range recipes {
			if recipe.CategoryID != nil && *recipe.CategoryID == categoryID {
				filtered = append(filtered, recipe)
			}
		}
		recipes = filtered
	}

	sorted := services.SortRecipes(recipes, services.ParseRecipeSort(r.URL.Query().Get("sort")))
	writeJSON(w, http.StatusOK, nonNil(sorted))
}

// Detail returns a recipe with its ingredient lines scaled to ?servings=.
func (handler *RecipeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recipe, err := handler.recipeRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOrError(w, err, "recipe")
		return
	}

	requested, err := optionalInt(r.URL.Query().Get("servings"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "servings must be a positive number")
		return
	}

	baseServings := grocery.DefaultServings
	if recipe.Servings != nil && *recipe.Servings > 0 {
		baseServings = *recipe.Servings
	}
	detail := recipeDetail{Recipe: recipe, RequestedServings: baseServings}
	if requested != nil {
		detail.RequestedServings = *requested
	}
	detail.ScaledIngredients = scaleIngredientGroups(recipe.Ingredients, float64(detail.RequestedServings)/float64(baseServings))

	if recipe.CategoryID != nil {
		if category, err := handler.categoryRepo.FindByID(ctx, *recipe.CategoryID); err == nil {
			detail.CategoryName = category.Name
		}
	}

	writeJSON(w, http.StatusOK, detail)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	recipe := models.Recipe{CreatedByUserID: user.ID}
	if err := applyRecipeForm(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := handler.recipeRepo.Create(ctx, recipe)
	if err != nil {
		slog.Error("creating recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	recipe, err := handler.recipeRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeNotFoundOrError(w, err, "recipe")
		return
	}

	if err := applyRecipeForm(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.recipeRepo.Update(ctx, recipe); err != nil {
		slog.Error("updating recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// Delete removes a recipe. Planned meals that used it keep their name as free text.
func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipeID := chi.URLParam(r, "id")

	if err := handler.mealPlanRepo.ClearRecipeID(ctx, recipeID); err != nil {
		slog.Error("clearing recipe from meal plans", "error", err)
	}

	if err := handler.recipeRepo.Delete(ctx, recipeID); err != nil {
		slog.Error("deleting recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func applyRecipeForm(r *http.Request, recipe *models.Recipe) error {
	input := recipeInput{
		Title:     strings.TrimSpace(r.FormValue("title")),
		SourceURL: optionalString(r.FormValue("source_url")),
	}

	var err error
	if input.Servings, err = optionalInt(r.FormValue("servings")); err != nil {
		return fmt.Errorf("servings: %w", err)
	}
	if input.TotalTime, err = optionalInt(r.FormValue("total_time")); err != nil {
		return fmt.Errorf("total_time: %w", err)
	}
	if err := validate.Struct(input); err != nil {
		return validationError(err)
	}

	recipe.Title = input.Title
	recipe.Servings = input.Servings
	recipe.TotalTime = input.TotalTime
	recipe.SourceURL = input.SourceURL
	recipe.Instructions = r.FormValue("instructions")
	recipe.Ingredients = parseIngredientGroups(r)
	recipe.CategoryID = optionalString(r.FormValue("category_id"))
	recipe.PrepTime = optionalString(r.FormValue("prep_time"))
	recipe.CookTime = optionalString(r.FormValue("cook_time"))
	return nil
}

func scaleIngredientGroups(groups []models.IngredientGroup, multiplier float64) []models.IngredientGroup {
	scaled := make([]models.IngredientGroup, 0, len(groups))
	for _, group := range groups {
		items := make([]string, 0, len(group.Items))
		for _, line := range group.Items {
			items = append(items, ingredients.Scale(line, multiplier))
		}
		scaled = append(scaled, models.IngredientGroup{Name: group.Name, Items: items})
	}
	return scaled
}

// parseIngredientGroups reads numbered group_name_N / group_items_N fields
// until the first index with neither present. Items are newline separated.
func parseIngredientGroups(r *http.Request) []models.IngredientGroup {
	var groups []models.IngredientGroup
	for i := 0; ; i++ {
		name := strings.TrimSpace(r.FormValue(fmt.Sprintf("group_name_%d", i)))
		itemsRaw := r.FormValue(fmt.Sprintf("group_items_%d", i))
		if name == "" && itemsRaw == "" {
			break
		}
		var items []string
		for _, line := range strings.Split(itemsRaw, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if name == "" {
			name = "Main"
		}
		groups = append(groups, models.IngredientGroup{Name: name, Items: items})
	}
	return groups
}

func writeNotFoundOrError(w http.ResponseWriter, err error, resource string) {
	if repository.IsNotFound(err) {
		writeError(w, http.StatusNotFound, resource+" not found")
		return
	}
	slog.Error("loading "+resource, "error", err)
	writeError(w, http.StatusInternalServerError, "failed to load "+resource)
}
