package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bensuskins/family-meals/internal/grocery"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/bensuskins/family-meals/internal/repository"
)

const (
	dateLayout  = "2006-01-02"
	daysPerWeek = 7
)

var ErrInvalidWeek = errors.New("week start must be a date formatted YYYY-MM-DD")

type GroceryService struct {
	mealPlanRepo repository.MealPlanRepository
	recipeRepo   repository.RecipeRepository
	groceryRepo  repository.GroceryRepository
}

func NewGroceryService(mealPlanRepo repository.MealPlanRepository, recipeRepo repository.RecipeRepository, groceryRepo repository.GroceryRepository) *GroceryService {
	return &GroceryService{mealPlanRepo: mealPlanRepo, recipeRepo: recipeRepo, groceryRepo: groceryRepo}
}

type GroceryList struct {
	WeekStart string               `json:"week_start"`
	WeekEnd   string               `json:"week_end"`
	MealKeys  []string             `json:"meal_keys"`
	Items     []models.GroceryItem `json:"items"`
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) string {
	offset := (int(day.Weekday()) + 6) % daysPerWeek
	return day.AddDate(0, 0, -offset).Format(dateLayout)
}

// WeekRange returns the first and last date of the seven day window starting at weekStart.
func WeekRange(weekStart string) (string, string, error) {
	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidWeek, weekStart)
	}
	return start.Format(dateLayout), start.AddDate(0, 0, daysPerWeek-1).Format(dateLayout), nil
}

// BuildList aggregates the grocery list for the planned meals of a week.
// With no selected keys every planned slot of the week is included. The
// result carries manual items and checked state stored for the week.
func (service *GroceryService) BuildList(ctx context.Context, weekStart string, selectedKeys []string) (GroceryList, error) {
	from, to, err := WeekRange(weekStart)
	if err != nil {
		return GroceryList{}, err
	}

	plans, err := service.mealPlanRepo.FindAll(ctx, repository.MealPlanFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return GroceryList{}, fmt.Errorf("loading meal plans: %w", err)
	}

	meals := make(map[string]string, len(plans))
	mealServings := make(map[string]int)
	plannedKeys := make([]string, 0, len(plans))
	var recipeIDs []string
	for _, plan := range plans {
		key := plan.Key()
		plannedKeys = append(plannedKeys, key)
		meals[key] = plan.SlotValue()
		if plan.Servings != nil {
			mealServings[key] = *plan.Servings
		}
		if plan.RecipeID != nil && *plan.RecipeID != "" {
			recipeIDs = append(recipeIDs, *plan.RecipeID)
		}
	}

	if len(selectedKeys) == 0 {
		selectedKeys = plannedKeys
	}

	recipes, err := service.recipeRepo.FindByIDs(ctx, recipeIDs)
	if err != nil {
		return GroceryList{}, fmt.Errorf("loading recipes: %w", err)
	}

	aggregated := grocery.Categorized(grocery.Aggregate(selectedKeys, meals, recipes, mealServings))

	stored, err := service.groceryRepo.FindItemsByWeek(ctx, from)
	if err != nil {
		return GroceryList{}, fmt.Errorf("loading manual grocery items: %w", err)
	}
	manual := make([]models.GroceryItem, 0, len(stored))
	for _, item := range stored {
		manual = append(manual, item.GroceryItem())
	}

	checked, err := service.groceryRepo.FindChecked(ctx, from)
	if err != nil {
		return GroceryList{}, fmt.Errorf("loading checked grocery items: %w", err)
	}

	return GroceryList{
		WeekStart: from,
		WeekEnd:   to,
		MealKeys:  selectedKeys,
		Items:     grocery.Merge(aggregated, manual, checked),
	}, nil
}

// AddItem stores a manual item for the week, categorizing it by name when no
// category is given.
func (service *GroceryService) AddItem(ctx context.Context, item models.ManualGroceryItem) (models.ManualGroceryItem, error) {
	from, _, err := WeekRange(item.WeekStart)
	if err != nil {
		return models.ManualGroceryItem{}, err
	}
	item.WeekStart = from
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return models.ManualGroceryItem{}, errors.New("name is required")
	}
	if item.Category == "" {
		item.Category = grocery.Categorize(item.Name)
	}
	return service.groceryRepo.CreateItem(ctx, item)
}

func (service *GroceryService) DeleteItem(ctx context.Context, id string) error {
	return service.groceryRepo.DeleteItem(ctx, id)
}

// SetChecked records the checked state of an item by name.
func (service *GroceryService) SetChecked(ctx context.Context, weekStart, name string, checked bool) error {
	from, _, err := WeekRange(weekStart)
	if err != nil {
		return err
	}
	key := grocery.CheckKey(name)
	if key == "" {
		return errors.New("name is required")
	}
	return service.groceryRepo.SetChecked(ctx, from, key, checked)
}

func (service *GroceryService) ClearWeek(ctx context.Context, weekStart string) error {
	from, _, err := WeekRange(weekStart)
	if err != nil {
		return err
	}
	return service.groceryRepo.ClearWeek(ctx, from)
}
