package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/google/uuid"
)

// GroceryRepository stores the per-week state that sits on top of the
// aggregated list: manually added items and the checked-off names.
type GroceryRepository interface {
	CreateItem(ctx context.Context, item models.ManualGroceryItem) (models.ManualGroceryItem, error)
	FindItemsByWeek(ctx context.Context, weekStart string) ([]models.ManualGroceryItem, error)
	DeleteItem(ctx context.Context, id string) error
	FindChecked(ctx context.Context, weekStart string) (map[string]bool, error)
	SetChecked(ctx context.Context, weekStart, itemKey string, checked bool) error
	ClearWeek(ctx context.Context, weekStart string) error
}

type SQLiteGroceryRepository struct {
	database *sql.DB
}

func NewGroceryRepository(database *sql.DB) *SQLiteGroceryRepository {
	return &SQLiteGroceryRepository{database: database}
}

const groceryItemColumns = "id, week_start, name, quantity, unit, category, created_by_user_id, created_at"

func scanGroceryItem(row scanner) (models.ManualGroceryItem, error) {
	var item models.ManualGroceryItem
	err := row.Scan(
		&item.ID, &item.WeekStart, &item.Name, &item.Quantity, &item.Unit,
		&item.Category, &item.CreatedByUserID, &item.CreatedAt,
	)
	return item, err
}

func (repository *SQLiteGroceryRepository) CreateItem(ctx context.Context, item models.ManualGroceryItem) (models.ManualGroceryItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Category == "" {
		item.Category = models.DefaultGroceryCategory
	}
	item.CreatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO grocery_items ("+groceryItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.WeekStart, item.Name, item.Quantity, item.Unit,
		item.Category, item.CreatedByUserID, item.CreatedAt,
	)
	if err != nil {
		return models.ManualGroceryItem{}, fmt.Errorf("creating grocery item: %w", err)
	}
	return item, nil
}

func (repository *SQLiteGroceryRepository) FindItemsByWeek(ctx context.Context, weekStart string) ([]models.ManualGroceryItem, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+groceryItemColumns+" FROM grocery_items WHERE week_start = ? ORDER BY created_at ASC, rowid ASC",
		weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("finding grocery items: %w", err)
	}
	defer rows.Close()

	var items []models.ManualGroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning grocery item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repository *SQLiteGroceryRepository) DeleteItem(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM grocery_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting grocery item: %w", err)
	}
	return requireAffected(result, "deleting grocery item")
}

// FindChecked returns the checked item keys of a week as a set.
func (repository *SQLiteGroceryRepository) FindChecked(ctx context.Context, weekStart string) (map[string]bool, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT item_key FROM grocery_checks WHERE week_start = ?", weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("finding checked grocery items: %w", err)
	}
	defer rows.Close()

	checked := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning checked grocery item: %w", err)
		}
		checked[key] = true
	}
	return checked, rows.Err()
}

func (repository *SQLiteGroceryRepository) SetChecked(ctx context.Context, weekStart, itemKey string, checked bool) error {
	var err error
	if checked {
		_, err = repository.database.ExecContext(ctx,
			`INSERT INTO grocery_checks (week_start, item_key, checked_at) VALUES (?, ?, ?)
			ON CONFLICT (week_start, item_key) DO NOTHING`,
			weekStart, itemKey, time.Now(),
		)
	} else {
		_, err = repository.database.ExecContext(ctx,
			"DELETE FROM grocery_checks WHERE week_start = ? AND item_key = ?", weekStart, itemKey,
		)
	}
	if err != nil {
		return fmt.Errorf("setting grocery item checked: %w", err)
	}
	return nil
}

// ClearWeek removes the manual items and checked state of a week.
func (repository *SQLiteGroceryRepository) ClearWeek(ctx context.Context, weekStart string) error {
	tx, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM grocery_items WHERE week_start = ?", weekStart); err != nil {
		return fmt.Errorf("clearing grocery items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM grocery_checks WHERE week_start = ?", weekStart); err != nil {
		return fmt.Errorf("clearing grocery checks: %w", err)
	}
	return tx.Commit()
}
