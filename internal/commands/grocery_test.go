package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
		"testing"

	"github.com/bensuskins/family-meals/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
recipes:
  - id: gryta
    title: Kycklinggryta
    servings: 4
    ingredients:
      - name: Main
        items:
          - 600 g kyckling
          - 2 dl grädde (steg 3)
  - id: soppa
    title: Soppa
    ingredients:
      - items:
          - 1 dl grädde
meals:
  2025-06-16_dinner: gryta
  2025-06-17_lunch: soppa
  2025-06-18_dinner: "custom:Pizza"
servings:
  2025-06-16_dinner: 8
`

func writePlan(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGroceryCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "grocery", "--plan", writePlan(t, "plan.yaml", samplePlan), "--json")
	require.NoError(t, err)

	var items []models.GroceryItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "kyckling", items[0].Name)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, "1200", *items[0].Quantity)
	assert.Equal(t, []string{"Kycklinggryta (×8)"}, items[0].RecipeSources)

	assert.Equal(t, "grädde", items[1].Name)
	require.NotNil(t, items[1].Quantity)
	assert.Equal(t, "5", *items[1].Quantity)
	assert.Equal(t, []string{"Kycklinggryta (×8)", "Soppa"}, items[1].RecipeSources)

	assert.Equal(t, "Pizza", items[2].Name)
	assert.Nil(t, items[2].Quantity)
}

func TestGroceryCommand_SelectionAndTable(t *testing.T) {
	planWithSelection := samplePlan + "selected:\n  - 2025-06-17_lunch\n"

	out, err := runCommand(t, "grocery", "--plan", writePlan(t, "plan.yaml", planWithSelection))
	require.NoError(t, err)

	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "grädde")
	assert.Contains(t, out, "1 dl")
	assert.Contains(t, out, "Soppa")
	assert.NotContains(t, out, "kyckling")
}

func TestGroceryCommand_TOMLPlan(t *testing.T) {
	tomlPlan := `
selected = ["2025-06-16_dinner"]

[meals]
"2025-06-16_dinner" = "pannkakor"

[servings]
"2025-06-16_dinner" = 4

[[recipes]]
id = "pannkakor"
title = "Pannkakor"
servings = 2

[[recipes.ingredients]]
items = ["3 dl mjölk", "1 ägg"]
`

	out, err := runCommand(t, "grocery", "--plan", writePlan(t, "plan.toml", tomlPlan), "--json")
	require.NoError(t, err)

	var items []models.GroceryItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "mjölk", items[0].Name)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, "6", *items[0].Quantity)
	assert.Equal(t, []string{"Pannkakor (×4)"}, items[0].RecipeSources)
}

func TestGroceryCommand_Errors(t *testing.T) {
	_, err := runCommand(t, "grocery")
	assert.Error(t, err, "plan flag is required")

	_, err = runCommand(t, "grocery", "--plan", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading plan")

	_, err = runCommand(t, "grocery", "--plan", writePlan(t, "plan.yaml", "recipes: [{title: No id}]"))
	assert.ErrorContains(t, err, "has no id")

	_, err = runCommand(t, "grocery", "--plan", writePlan(t, "plan.yml", "meals: ["))
	assert.ErrorContains(t, err, "parsing plan")
}

func TestBuildGroceryList_Empty(t *testing.T) {
	assert.Empty(t, buildGroceryList(plan{}))
}
