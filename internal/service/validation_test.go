package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/testhelpers"
)

func TestValidateRecipe(t *testing.T) {
	assert.NoError(t, service.ValidateRecipe(testhelpers.SampleRecipe()))

	tests := []struct {
		name   string
		mutate func(r *model.Recipe)
		field  string
	}{
		{"missing title", func(r *model.Recipe) { r.Title = "" }, "Title"},
		{"no ingredients", func(r *model.Recipe) { r.Ingredients = nil }, "Ingredients"},
		{"unnamed ingredient", func(r *model.Recipe) { r.Ingredients[0].Name = "" }, "Name"},
		{"no instructions", func(r *model.Recipe) { r.Instructions = []string{} }, "Instructions"},
		{"negative servings", func(r *model.Recipe) { r.Servings = -1 }, "Servings"},
		{"negative calories", func(r *model.Recipe) { r.TotalMacros.Calories = -5 }, "Calories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testhelpers.SampleRecipe()
			tt.mutate(r)
			err := service.ValidateRecipe(r)
			assert.ErrorIs(t, err, service.ErrInvalidModelOutput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
