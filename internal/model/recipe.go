package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// TitlePlaceholder is the example title embedded in the prompt. A recipe that
// comes back with it was not given a real title by the model.
const TitlePlaceholder = "Recipe Name"

// Macros holds nutrition totals for an ingredient or a whole recipe.
type Macros struct {
	ProteinG float64 `json:"protein_g" validate:"gte=0"`
	CarbsG   float64 `json:"carbs_g" validate:"gte=0"`
	FatG     float64 `json:"fat_g" validate:"gte=0"`
	Calories float64 `json:"calories" validate:"gte=0"`
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Amount   string  `json:"amount"`
	Cost     string  `json:"cost"`
	ProteinG float64 `json:"protein_g" validate:"gte=0"`
	CarbsG   float64 `json:"carbs_g" validate:"gte=0"`
	FatG     float64 `json:"fat_g" validate:"gte=0"`
	Calories float64 `json:"calories" validate:"gte=0"`
}

// Recipe is the structured result of an extraction.
type Recipe struct {
	Title                string            `json:"title" validate:"required"`
	Servings             int               `json:"servings" validate:"gte=0"`
	PrepTimeMinutes      int               `json:"prep_time_minutes" validate:"gte=0"`
	CookTimeMinutes      int               `json:"cook_time_minutes" validate:"gte=0"`
	Equipment            []string          `json:"equipment"`
	Ingredients          []Ingredient      `json:"ingredients" validate:"min=1,dive"`
	Instructions         []string          `json:"instructions" validate:"min=1"`
	Notes                string            `json:"notes"`
	TotalCostEstimate    string            `json:"total_cost_estimate"`
	TotalMacros          Macros            `json:"total_macros"`
	DietarySubstitutions map[string]string `json:"dietary_substitutions"`
	ImageURL             string            `json:"image_url,omitempty"`
}

// Value implements the driver.Valuer interface so a Recipe can be stored as a JSON column
func (r Recipe) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (r *Recipe) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*r = Recipe{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported recipe column type")
	}
	return json.Unmarshal(bytes, r)
}

// ErrorResult is the uniform failure shape returned by every entry point.
type ErrorResult struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Notes        string   `json:"notes"`
	Error        string   `json:"error"`
}

// NewErrorResult builds an ErrorResult whose arrays serialize as [] rather than null.
func NewErrorResult(message string) ErrorResult {
	return ErrorResult{
		Ingredients:  []string{},
		Instructions: []string{},
		Error:        message,
	}
}
