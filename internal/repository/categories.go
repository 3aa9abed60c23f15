package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (models.Category, error)
	FindByName(ctx context.Context, name string) (models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category models.Category) (models.Category, error)
	Rename(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
}

type SQLiteCategoryRepository struct {
	database *sql.DB
}

func NewCategoryRepository(database *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{database: database}
}

const categorySelect = `SELECT c.id, c.name, COUNT(r.id), c.created_by_user_id, c.created_at
	FROM categories c LEFT JOIN recipes r ON r.category_id = c.id`

func scanCategory(row scanner) (models.Category, error) {
	var category models.Category
	err := row.Scan(&category.ID, &category.Name, &category.RecipeCount, &category.CreatedByUserID, &category.CreatedAt)
	return category, err
}

func (repository *SQLiteCategoryRepository) FindByID(ctx context.Context, id string) (models.Category, error) {
	return repository.findOne(ctx, "c.id = ?", id)
}

// FindByName matches case-insensitively, which is how recipe categories are
// kept unique.
func (repository *SQLiteCategoryRepository) FindByName(ctx context.Context, name string) (models.Category, error) {
	return repository.findOne(ctx, "c.name = ? COLLATE NOCASE", name)
}

func (repository *SQLiteCategoryRepository) findOne(ctx context.Context, where string, arg any) (models.Category, error) {
	category, err := scanCategory(repository.database.QueryRowContext(ctx,
		categorySelect+" WHERE "+where+" GROUP BY c.id", arg,
	))
	if err != nil {
		return models.Category{}, fmt.Errorf("finding category: %w", err)
	}
	return category, nil
}

func (repository *SQLiteCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	rows, err := repository.database.QueryContext(ctx,
		categorySelect+" GROUP BY c.id ORDER BY c.name COLLATE NOCASE",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (repository *SQLiteCategoryRepository) Create(ctx context.Context, category models.Category) (models.Category, error) {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.RecipeCount = 0
	category.CreatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO categories (id, name, created_by_user_id, created_at) VALUES (?, ?, ?, ?)",
		category.ID, category.Name, category.CreatedByUserID, category.CreatedAt,
	)
	if err != nil {
		return models.Category{}, fmt.Errorf("creating category: %w", err)
	}
	return category, nil
}

func (repository *SQLiteCategoryRepository) Rename(ctx context.Context, id string, name string) error {
	result, err := repository.database.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	return requireAffected(result, "renaming category")
}

// Delete removes the category; its recipes fall back to uncategorized through
// the ON DELETE SET NULL reference.
func (repository *SQLiteCategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return requireAffected(result, "deleting category")
}
