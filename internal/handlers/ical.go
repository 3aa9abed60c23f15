package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/bensuskins/family-meals/internal/grocery"
	"github.com/bensuskins/family-meals/internal/middleware"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
)

type ICalHandler struct {
	tokenRepo    repository.APITokenRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	mealPlanRepo repository.MealPlanRepository
	recipeRepo   repository.RecipeRepository
	baseURL      string
}

func NewICalHandler(
	tokenRepo repository.APITokenRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	mealPlanRepo repository.MealPlanRepository,
	recipeRepo repository.RecipeRepository,
	baseURL string,
) *ICalHandler {
	return &ICalHandler{
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		mealPlanRepo: mealPlanRepo,
		recipeRepo:   recipeRepo,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// Feed serves every planned meal as an all-day event. Calendar apps cannot
// send headers, so the ical-scoped token comes from the query string.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if _, err := middleware.AuthenticateToken(ctx, handler.tokenRepo, handler.userRepo, token, models.TokenScopeICal); err != nil {
		if !repository.IsNotFound(err) && !errors.Is(err, middleware.ErrTokenWrongScope) && !errors.Is(err, middleware.ErrTokenExpired) {
			slog.Error("authenticating ical token", "error", err)
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	meals, err := handler.mealPlanRepo.FindAll(ctx, repository.MealPlanFilter{})
	if err != nil {
		slog.Error("finding meals for ical", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	var recipeIDs []string
	for _, meal := range meals {
		if meal.RecipeID != nil {
			recipeIDs = append(recipeIDs, *meal.RecipeID)
		}
	}
	recipes, err := handler.recipeRepo.FindByIDs(ctx, recipeIDs)
	if err != nil {
		slog.Error("finding recipes for ical", "error", err)
	}
	recipesByID := make(map[string]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		recipesByID[recipe.ID] = recipe
	}

	calendarName := handler.settingsRepo.GetOrDefault(ctx, repository.SettingFamilyName, defaultFamilyName) + " Meals"

	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId(fmt.Sprintf("-//%s//%s//EN", calendarName, calendarName))
	calendar.SetXWRCalName(calendarName)

	for _, meal := range meals {
		date, err := time.Parse(time.DateOnly, meal.Date)
		if err != nil {
			slog.Warn("skipping meal with invalid date", "date", meal.Date, "error", err)
			continue
		}

		event := calendar.AddEvent(fmt.Sprintf("meal-%s-%s@family-meals", meal.Date, meal.MealType))
		event.SetSummary(fmt.Sprintf("[%s] %s", capitalizeFirst(string(meal.MealType)), meal.Name))
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetDtStampTime(meal.UpdatedAt.UTC())

		var recipe *models.Recipe
		if meal.RecipeID != nil {
			if found, ok := recipesByID[*meal.RecipeID]; ok {
				recipe = &found
				event.SetURL(handler.baseURL + "/recipes/" + found.ID)
			}
		}
		if description := mealDescription(meal, recipe); description != "" {
			event.SetDescription(description)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=family-meals.ics")
	if _, err := w.Write([]byte(calendar.Serialize())); err != nil {
		slog.Error("writing ical feed", "error", err)
	}
}

// mealDescription lists the notes followed by the recipe's ingredients scaled
// to the meal's servings.
func mealDescription(meal models.MealPlan, recipe *models.Recipe) string {
	var parts []string
	if notes := strings.TrimSpace(meal.Notes); notes != "" {
		parts = append(parts, notes)
	}
	if recipe == nil {
		return strings.Join(parts, "\n\n")
	}

	baseServings := grocery.DefaultServings
	if recipe.Servings != nil && *recipe.Servings > 0 {
		baseServings = *recipe.Servings
	}
	requested := baseServings
	if meal.Servings != nil && *meal.Servings > 0 {
		requested = *meal.Servings
	}

	var lines []string
	for _, group := range scaleIngredientGroups(recipe.Ingredients, float64(requested)/float64(baseServings)) {
		if group.Name != "" {
			lines = append(lines, group.Name+":")
		}
		for _, item := range group.Items {
			lines = append(lines, "- "+item)
		}
	}
	if len(lines) > 0 {
		parts = append(parts, fmt.Sprintf("Ingredients (%d servings):\n%s", requested, strings.Join(lines, "\n")))
	}
	return strings.Join(parts, "\n\n")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
