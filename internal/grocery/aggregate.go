// Package grocery turns a selection of planned meals into a deduplicated
// grocery list.
package grocery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bensuskins/family-meals/internal/ingredients"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultServings is used when a recipe or a meal slot has no usable serving count.
const DefaultServings = 2

// list accumulates items keyed by normalized name in first-seen order.
type list struct {
	index map[string]int
	items []models.GroceryItem
}

func newList() *list {
	return &list{index: make(map[string]int)}
}

func (l *list) find(key string) (*models.GroceryItem, bool) {
	position, ok := l.index[key]
	if !ok {
		return nil, false
	}
	return &l.items[position], true
}

func (l *list) add(key string, item models.GroceryItem) {
	l.index[key] = len(l.items)
	l.items = append(l.items, item)
}

// Aggregate builds the grocery list for the selected meal slots. meals maps a
// slot key to a recipe id or to custom text prefixed with "custom:", and
// mealServings holds per-slot serving overrides. Slots that are missing or
// reference unknown recipes are skipped.
func Aggregate(selectedMealKeys []string, meals map[string]string, recipes []models.Recipe, mealServings map[string]int) []models.GroceryItem {
	recipesByID := make(map[string]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		recipesByID[recipe.ID] = recipe
	}

	accumulator := newList()

	for _, key := range selectedMealKeys {
		value, ok := meals[key]
		if !ok {
			continue
		}

		if strings.HasPrefix(value, models.CustomMealPrefix) {
			accumulator.addCustom(strings.TrimSpace(value[len(models.CustomMealPrefix):]))
			continue
		}

		recipe, ok := recipesByID[value]
		if !ok {
			continue
		}

		recipeServings := servingsOrDefault(recipe.Servings)
		requestedServings := recipeServings
		if override, ok := mealServings[key]; ok && override > 0 {
			requestedServings = override
		}
		multiplier := float64(requestedServings) / float64(recipeServings)

		label := sourceLabel(recipe.Title, requestedServings, multiplier)

		for _, line := range recipe.IngredientLines() {
			accumulator.addLine(line, multiplier, label)
		}
	}

	if accumulator.items == nil {
		return []models.GroceryItem{}
	}
	return accumulator.items
}

func (l *list) addCustom(text string) {
	if text == "" {
		return
	}
	if existing, ok := l.find(text); ok {
		appendSource(existing, text)
		return
	}
	l.add(text, models.GroceryItem{
		Name:            text,
		Category:        models.DefaultGroceryCategory,
		RecipeSources:   []string{text},
		QuantitySources: []string{},
	})
}

func (l *list) addLine(line string, multiplier float64, label string) {
	cleaned := ingredients.CleanLine(line)
	if cleaned == "" {
		return
	}

	scaled := ingredients.Scale(cleaned, multiplier)
	key := ingredients.NormalizeName(cleaned)
	parsed := ingredients.Parse(scaled)

	existing, ok := l.find(key)
	if !ok {
		item := models.GroceryItem{
			Name:            parsed.Name,
			Unit:            parsed.Unit,
			Category:        models.DefaultGroceryCategory,
			RecipeSources:   []string{label},
			QuantitySources: []string{},
		}
		if parsed.Quantity != nil {
			quantity := formatNumber(*parsed.Quantity)
			item.Quantity = &quantity
		}
		l.add(key, item)
		return
	}

	appendSource(existing, label)

	// Quantities only add up when the units match; otherwise the first seen
	// quantity is kept.
	if existing.Quantity == nil || parsed.Quantity == nil || !sameUnit(existing.Unit, parsed.Unit) {
		return
	}
	current, err := decimal.NewFromString(*existing.Quantity)
	if err != nil {
		return
	}
	sum := current.Add(decimal.NewFromFloat(*parsed.Quantity)).String()
	existing.Quantity = &sum
}

func appendSource(item *models.GroceryItem, label string) {
	if !slices.Contains(item.RecipeSources, label) {
		item.RecipeSources = append(item.RecipeSources, label)
	}
}

func sameUnit(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func servingsOrDefault(servings *int) int {
	if servings == nil || *servings <= 0 {
		return DefaultServings
	}
	return *servings
}

func sourceLabel(title string, requestedServings int, multiplier float64) string {
	if multiplier == 1 {
		return title
	}
	return fmt.Sprintf("%s (×%d)", title, requestedServings)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
