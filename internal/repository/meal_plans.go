package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bensuskins/family-meals/internal/models"
)

type MealPlanFilter struct {
	DateFrom string
	DateTo   string
}

type MealPlanRepository interface {
	FindByDateAndType(ctx context.Context, date string, mealType models.MealType) (models.MealPlan, error)
	FindAll(ctx context.Context, filter MealPlanFilter) ([]models.MealPlan, error)
	FindByDate(ctx context.Context, date string) ([]models.MealPlan, error)
	Upsert(ctx context.Context, meal models.MealPlan) error
	UpdateServings(ctx context.Context, date string, mealType models.MealType, servings *int) error
	Delete(ctx context.Context, date string, mealType models.MealType) error
	ClearRecipeID(ctx context.Context, recipeID string) error
}

type SQLiteMealPlanRepository struct {
	database *sql.DB
}

func NewMealPlanRepository(database *sql.DB) *SQLiteMealPlanRepository {
	return &SQLiteMealPlanRepository{database: database}
}

const (
	mealPlanColumns   = "date, meal_type, recipe_id, name, notes, servings, created_by_user_id, created_at, updated_at"
	mealTypeOrderings = "CASE meal_type WHEN 'breakfast' THEN 1 WHEN 'lunch' THEN 2 WHEN 'dinner' THEN 3 END"
)

func scanMealPlan(row scanner) (models.MealPlan, error) {
	var meal models.MealPlan
	err := row.Scan(
		&meal.Date, &meal.MealType, &meal.RecipeID, &meal.Name, &meal.Notes,
		&meal.Servings, &meal.CreatedByUserID, &meal.CreatedAt, &meal.UpdatedAt,
	)
	return meal, err
}

func (repository *SQLiteMealPlanRepository) FindByDateAndType(ctx context.Context, date string, mealType models.MealType) (models.MealPlan, error) {
	meal, err := scanMealPlan(repository.database.QueryRowContext(ctx,
		"SELECT "+mealPlanColumns+" FROM meal_plans WHERE date = ? AND meal_type = ?", date, mealType,
	))
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("finding meal plan: %w", err)
	}
	return meal, nil
}

func (repository *SQLiteMealPlanRepository) FindAll(ctx context.Context, filter MealPlanFilter) ([]models.MealPlan, error) {
	query := "SELECT " + mealPlanColumns + " FROM meal_plans WHERE 1=1"

	var args []any

	if filter.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, filter.DateTo)
	}

	query += " ORDER BY date ASC, " + mealTypeOrderings

	return repository.query(ctx, query, args...)
}

func (repository *SQLiteMealPlanRepository) FindByDate(ctx context.Context, date string) ([]models.MealPlan, error) {
	return repository.query(ctx,
		"SELECT "+mealPlanColumns+" FROM meal_plans WHERE date = ? ORDER BY "+mealTypeOrderings,
		date,
	)
}

func (repository *SQLiteMealPlanRepository) query(ctx context.Context, query string, args ...any) ([]models.MealPlan, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding meal plans: %w", err)
	}
	defer rows.Close()

	var meals []models.MealPlan
	for rows.Next() {
		meal, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meal plan: %w", err)
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

func (repository *SQLiteMealPlanRepository) Upsert(ctx context.Context, meal models.MealPlan) error {
	now := time.Now()
	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO meal_plans ("+mealPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, meal_type) DO UPDATE SET
			recipe_id = excluded.recipe_id,
			name = excluded.name,
			notes = excluded.notes,
			servings = excluded.servings,
			updated_at = excluded.updated_at`,
		meal.Date, meal.MealType, meal.RecipeID, meal.Name, meal.Notes, meal.Servings,
		meal.CreatedByUserID, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting meal plan: %w", err)
	}
	return nil
}

// UpdateServings sets or, with a nil value, clears the serving override of a slot.
func (repository *SQLiteMealPlanRepository) UpdateServings(ctx context.Context, date string, mealType models.MealType, servings *int) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE meal_plans SET servings = ?, updated_at = ? WHERE date = ? AND meal_type = ?",
		servings, time.Now(), date, mealType,
	)
	if err != nil {
		return fmt.Errorf("updating meal servings: %w", err)
	}
	return requireAffected(result, "updating meal servings")
}

func (repository *SQLiteMealPlanRepository) Delete(ctx context.Context, date string, mealType models.MealType) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM meal_plans WHERE date = ? AND meal_type = ?", date, mealType,
	)
	if err != nil {
		return fmt.Errorf("deleting meal plan: %w", err)
	}
	return nil
}

func (repository *SQLiteMealPlanRepository) ClearRecipeID(ctx context.Context, recipeID string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE meal_plans SET recipe_id = NULL, updated_at = ? WHERE recipe_id = ?",
		time.Now(), recipeID,
	)
	if err != nil {
		return fmt.Errorf("clearing recipe id from meal plans: %w", err)
	}
	return nil
}
