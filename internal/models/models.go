package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type User struct {
	ID          string    `json:"id"`
	OIDCSubject string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups recipes. RecipeCount is derived when listing.
type Category struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	RecipeCount     int       `json:"recipe_count"`
	CreatedByUserID string    `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type TokenScope string

const (
	TokenScopeAPI  TokenScope = "api"
	TokenScopeICal TokenScope = "ical"
)

type APIToken struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TokenHash       string     `json:"-"`
	Scope           TokenScope `json:"scope"`
	CreatedByUserID string     `json:"created_by_user_id"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type IngredientGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type Recipe struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Instructions    string            `json:"instructions"`
	Ingredients     []IngredientGroup `json:"ingredients"`
	Servings        *int              `json:"servings"`
	PrepTime        *string           `json:"prep_time"`
	CookTime        *string           `json:"cook_time"`
	TotalTime       *int              `json:"total_time"`
	SourceURL       *string           `json:"source_url"`
	CategoryID      *string           `json:"category_id"`
	CreatedByUserID string            `json:"created_by_user_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IngredientLines flattens the ingredient groups in display order.
func (recipe Recipe) IngredientLines() []string {
	var lines []string
	for _, group := range recipe.Ingredients {
		lines = append(lines, group.Items...)
	}
	return lines
}

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

func (mealType MealType) Valid() bool {
	switch mealType {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// CustomMealPrefix marks a meal slot value that holds free text instead of a recipe id.
const CustomMealPrefix = "custom:"

type MealPlan struct {
	Date            string    `json:"date"`
	MealType        MealType  `json:"meal_type"`
	RecipeID        *string   `json:"recipe_id"`
	Name            string    `json:"name"`
	Notes           string    `json:"notes"`
	Servings        *int      `json:"servings"`
	CreatedByUserID string    `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MealKey identifies a meal slot as "<date>_<mealType>".
func MealKey(date string, mealType MealType) string {
	return date + "_" + string(mealType)
}

func (meal MealPlan) Key() string {
	return MealKey(meal.Date, meal.MealType)
}

// SlotValue is the slot reference used by grocery aggregation: the recipe id,
// or the custom prefix followed by the meal name.
func (meal MealPlan) SlotValue() string {
	if meal.RecipeID != nil && *meal.RecipeID != "" {
		return *meal.RecipeID
	}
	return CustomMealPrefix + meal.Name
}

const DefaultGroceryCategory = "other"

type GroceryItem struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Quantity        *string  `json:"quantity"`
	Unit            *string  `json:"unit"`
	Category        string   `json:"category"`
	Checked         bool     `json:"checked"`
	Manual          bool     `json:"manual,omitempty"`
	RecipeSources   []string `json:"recipe_sources"`
	QuantitySources []string `json:"quantity_sources"`
}

// ManualGroceryItem is a user-added grocery line stored for one planning week.
type ManualGroceryItem struct {
	ID              string
	WeekStart       string
	Name            string
	Quantity        *string
	Unit            *string
	Category        string
	CreatedByUserID string
	CreatedAt       time.Time
}

func (item ManualGroceryItem) GroceryItem() GroceryItem {
	category := item.Category
	if category == "" {
		category = DefaultGroceryCategory
	}
	return GroceryItem{
		ID:              item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		Category:        category,
		Manual:          true,
		RecipeSources:   []string{},
		QuantitySources: []string{},
	}
}
