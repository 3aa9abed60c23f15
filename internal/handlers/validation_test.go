package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_UsesFormNames(t *testing.T) {
	tooMany := 101
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"missing title", recipeInput{}, "title is required"},
		{"servings bound", recipeInput{Title: "Gryta", Servings: &tooMany}, "servings must be at most 100"},
		{"unknown scope", tokenInput{Name: "cal", Scope: "admin"}, "scope must be one of: api ical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)
			assert.EqualError(t, validationError(err), tt.want)
		})
	}

	assert.NoError(t, validate.Struct(tokenInput{Name: "cal", Scope: "ical"}))
}
