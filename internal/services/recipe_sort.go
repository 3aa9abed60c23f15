package services

import (
	"slices"

	"github.com/bensuskins/family-meals/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type RecipeSort string

const (
	RecipeSortNewest   RecipeSort = "newest"
	RecipeSortOldest   RecipeSort = "oldest"
	RecipeSortName     RecipeSort = "name"
	RecipeSortQuickest RecipeSort = "quickest"
	RecipeSortLongest  RecipeSort = "longest"
)

func ParseRecipeSort(value string) RecipeSort {
	switch sortBy := RecipeSort(value); sortBy {
	case RecipeSortOldest, RecipeSortName, RecipeSortQuickest, RecipeSortLongest:
		return sortBy
	}
	return RecipeSortNewest
}

// SortRecipes returns a sorted copy of recipes, which are expected newest first.
// Recipes without a total time sort last for both time orders.
func SortRecipes(recipes []models.Recipe, sortBy RecipeSort) []models.Recipe {
	sorted := slices.Clone(recipes)

	switch sortBy {
	case RecipeSortOldest:
		slices.Reverse(sorted)
	case RecipeSortName:
		collator := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(sorted, func(a, b models.Recipe) int {
			return collator.CompareString(a.Title, b.Title)
		})
	case RecipeSortQuickest:
		slices.SortStableFunc(sorted, func(a, b models.Recipe) int {
			return compareTotalTime(a.TotalTime, b.TotalTime, false)
		})
	case RecipeSortLongest:
		slices.SortStableFunc(sorted, func(a, b models.Recipe) int {
			return compareTotalTime(a.TotalTime, b.TotalTime, true)
		})
	}

	return sorted
}

func compareTotalTime(a, b *int, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if descending {
		return *b - *a
	}
	return *a - *b
}
