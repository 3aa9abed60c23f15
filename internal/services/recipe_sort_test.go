package services

import (
	"testing"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/stretchr/testify/assert"
)

func titles(recipes []models.Recipe) []string {
	var result []string
	for _, recipe := range recipes {
		result = append(result, recipe.Title)
	}
	return result
}

func timedRecipe(title string, minutes *int) models.Recipe {
	return models.Recipe{ID: title, Title: title, TotalTime: minutes}
}

func minutes(value int) *int {
	return &value
}

func TestSortRecipes_NewestAndOldest(t *testing.T) {
	recipes := []models.Recipe{timedRecipe("C", nil), timedRecipe("B", nil), timedRecipe("A", nil)}

	assert.Equal(t, []string{"C", "B", "A"}, titles(SortRecipes(recipes, RecipeSortNewest)))
	assert.Equal(t, []string{"A", "B", "C"}, titles(SortRecipes(recipes, RecipeSortOldest)))
	assert.Equal(t, []string{"C", "B", "A"}, titles(recipes), "input must not be mutated")
}

func TestSortRecipes_Name(t *testing.T) {
	recipes := []models.Recipe{
		timedRecipe("zucchinipasta", nil),
		timedRecipe("Ölbröd", nil),
		timedRecipe("apple pie", nil),
		timedRecipe("Banana bread", nil),
	}

	assert.Equal(t,
		[]string{"apple pie", "Banana bread", "Ölbröd", "zucchinipasta"},
		titles(SortRecipes(recipes, RecipeSortName)),
	)
}

func TestSortRecipes_TimeWithNilLast(t *testing.T) {
	recipes := []models.Recipe{
		timedRecipe("untimed-1", nil),
		timedRecipe("slow", minutes(90)),
		timedRecipe("untimed-2", nil),
		timedRecipe("fast", minutes(15)),
		timedRecipe("medium", minutes(45)),
		timedRecipe("untimed-3", nil),
	}

	assert.Equal(t,
		[]string{"fast", "medium", "slow", "untimed-1", "untimed-2", "untimed-3"},
		titles(SortRecipes(recipes, RecipeSortQuickest)),
	)
	assert.Equal(t,
		[]string{"slow", "medium", "fast", "untimed-1", "untimed-2", "untimed-3"},
		titles(SortRecipes(recipes, RecipeSortLongest)),
	)
}

func TestParseRecipeSort(t *testing.T) {
	assert.Equal(t, RecipeSortQuickest, ParseRecipeSort("quickest"))
	assert.Equal(t, RecipeSortNewest, ParseRecipeSort(""))
	assert.Equal(t, RecipeSortNewest, ParseRecipeSort("random"))
}
