package grocery

import (
	"strings"

	"github.com/bensuskins/family-meals/internal/models"
)

// CheckKey is the key under which an item's checked state is stored.
func CheckKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Merge combines the aggregated list with user-added items and applies the
// checked state. Aggregated items come first, in their original order.
func Merge(aggregated []models.GroceryItem, manual []models.GroceryItem, checked map[string]bool) []models.GroceryItem {
	merged := make([]models.GroceryItem, 0, len(aggregated)+len(manual))
	for _, item := range aggregated {
		item.Checked = checked[CheckKey(item.Name)]
		merged = append(merged, item)
	}
	for _, item := range manual {
		item.Checked = checked[CheckKey(item.Name)]
		merged = append(merged, item)
	}
	return merged
}

// Categorized assigns a category to every item still in the default category.
func Categorized(items []models.GroceryItem) []models.GroceryItem {
	for i := range items {
		if items[i].Category == "" || items[i].Category == models.DefaultGroceryCategory {
			items[i].Category = Categorize(items[i].Name)
		}
	}
	return items
}
