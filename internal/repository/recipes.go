package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/google/uuid"
)

type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Recipe, error)
	FindAll(ctx context.Context) ([]models.Recipe, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) error
	Delete(ctx context.Context, id string) error
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, title, ingredients, instructions, servings, prep_time, cook_time, total_time,
	source_url, category_id, created_by_user_id, created_at, updated_at`

func scanRecipe(row scanner) (models.Recipe, error) {
	var recipe models.Recipe
	var ingredientsJSON string
	if err := row.Scan(
		&recipe.ID, &recipe.Title, &ingredientsJSON, &recipe.Instructions,
		&recipe.Servings, &recipe.PrepTime, &recipe.CookTime, &recipe.TotalTime,
		&recipe.SourceURL, &recipe.CategoryID, &recipe.CreatedByUserID,
		&recipe.CreatedAt, &recipe.UpdatedAt,
	); err != nil {
		return models.Recipe{}, err
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &recipe.Ingredients); err != nil {
		return models.Recipe{}, fmt.Errorf("unmarshalling ingredients: %w", err)
	}
	return recipe, nil
}

func marshalIngredients(groups []models.IngredientGroup) (string, error) {
	if groups == nil {
		groups = []models.IngredientGroup{}
	}
	ingredientsJSON, err := json.Marshal(groups)
	if err != nil {
		return "", fmt.Errorf("marshalling ingredients: %w", err)
	}
	return string(ingredientsJSON), nil
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	recipe, err := scanRecipe(repository.database.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id,
	))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}
	return recipe, nil
}

// FindByIDs loads the given recipes; unknown ids are ignored.
func (repository *SQLiteRecipeRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return repository.query(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id IN ("+placeholders+") ORDER BY created_at DESC",
		args...,
	)
}

// FindAll returns every recipe, newest first.
func (repository *SQLiteRecipeRepository) FindAll(ctx context.Context) ([]models.Recipe, error) {
	return repository.query(ctx, "SELECT "+recipeColumns+" FROM recipes ORDER BY created_at DESC, rowid DESC")
}

func (repository *SQLiteRecipeRepository) query(ctx context.Context, query string, args ...any) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.IngredientGroup{}
	}
	ingredientsJSON, err := marshalIngredients(recipe.Ingredients)
	if err != nil {
		return models.Recipe{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		recipe.ID, recipe.Title, ingredientsJSON, recipe.Instructions,
		recipe.Servings, recipe.PrepTime, recipe.CookTime, recipe.TotalTime,
		recipe.SourceURL, recipe.CategoryID, recipe.CreatedByUserID,
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) error {
	recipe.UpdatedAt = time.Now()

	ingredientsJSON, err := marshalIngredients(recipe.Ingredients)
	if err != nil {
		return err
	}

	result, err := repository.database.ExecContext(ctx,
		`UPDATE recipes SET title = ?, ingredients = ?, instructions = ?, servings = ?,
			prep_time = ?, cook_time = ?, total_time = ?, source_url = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		recipe.Title, ingredientsJSON, recipe.Instructions, recipe.Servings,
		recipe.PrepTime, recipe.CookTime, recipe.TotalTime, recipe.SourceURL, recipe.CategoryID,
		recipe.UpdatedAt, recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	return requireAffected(result, "updating recipe")
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
