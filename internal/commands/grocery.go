package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bensuskins/family-meals/internal/grocery"
	"github.com/bensuskins/family-meals/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// plan is the YAML or TOML input of the grocery command. Meals map a slot key
// such as "2025-06-16_dinner" to a recipe id or to "custom:<text>".
type plan struct {
	Recipes  []planRecipe      `yaml:"recipes" toml:"recipes"`
	Meals    map[string]string `yaml:"meals" toml:"meals"`
	Selected []string          `yaml:"selected" toml:"selected"`
	Servings map[string]int    `yaml:"servings" toml:"servings"`
}

type planRecipe struct {
	ID          string            `yaml:"id" toml:"id"`
	Title       string            `yaml:"title" toml:"title"`
	Servings    *int              `yaml:"servings" toml:"servings"`
	Ingredients []planIngredients `yaml:"ingredients" toml:"ingredients"`
}

type planIngredients struct {
	Name  string   `yaml:"name" toml:"name"`
	Items []string `yaml:"items" toml:"items"`
}

func newGroceryCommand() *cobra.Command {
	var planPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "grocery",
		Short: "Print the grocery list for a meal plan file (.yaml, .yml or .toml)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(planPath)
			if err != nil {
				return fmt.Errorf("reading plan: %w", err)
			}

			parsed, err := parsePlan(data, filepath.Ext(planPath))
			if err != nil {
				return err
			}

			items := buildGroceryList(parsed)
			if asJSON {
				return writeGroceryJSON(cmd.OutOrStdout(), items)
			}
			return writeGroceryTable(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "path to the meal plan file (required)")
	_ = cmd.MarkFlagRequired("plan")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")

	return cmd
}

func parsePlan(data []byte, extension string) (plan, error) {
	var parsed plan
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(extension, ".toml") {
		unmarshal = toml.Unmarshal
	}
	if err := unmarshal(data, &parsed); err != nil {
		return plan{}, fmt.Errorf("parsing plan: %w", err)
	}
	for i, recipe := range parsed.Recipes {
		if recipe.ID == "" {
			return plan{}, fmt.Errorf("recipe %d has no id", i+1)
		}
	}
	return parsed, nil
}

// buildGroceryList aggregates the selected meals, or every meal in key order
// when nothing is selected.
func buildGroceryList(parsed plan) []models.GroceryItem {
	selected := parsed.Selected
	if len(selected) == 0 {
		for key := range parsed.Meals {
			selected = append(selected, key)
		}
		slices.Sort(selected)
	}

	recipes := make([]models.Recipe, 0, len(parsed.Recipes))
	for _, recipe := range parsed.Recipes {
		groups := make([]models.IngredientGroup, 0, len(recipe.Ingredients))
		for _, group := range recipe.Ingredients {
			groups = append(groups, models.IngredientGroup{Name: group.Name, Items: group.Items})
		}
		title := recipe.Title
		if title == "" {
			title = recipe.ID
		}
		recipes = append(recipes, models.Recipe{ID: recipe.ID, Title: title, Servings: recipe.Servings, Ingredients: groups})
	}

	return grocery.Categorized(grocery.Aggregate(selected, parsed.Meals, recipes, parsed.Servings))
}

func writeGroceryJSON(w io.Writer, items []models.GroceryItem) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if items == nil {
		items = []models.GroceryItem{}
	}
	return encoder.Encode(items)
}

func writeGroceryTable(w io.Writer, items []models.GroceryItem) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	list := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "ITEM", "AMOUNT", "FOR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, item := range items {
		list.Row(item.Category, item.Name, amount(item), strings.Join(item.RecipeSources, ", "))
	}

	_, err := fmt.Fprintln(w, list.Render())
	return err
}

func amount(item models.GroceryItem) string {
	var parts []string
	if item.Quantity != nil {
		parts = append(parts, *item.Quantity)
	}
	if item.Unit != nil {
		parts = append(parts, *item.Unit)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
