package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRecipe checks model output against the recipe schema: a title, at
// least one named ingredient and one instruction, and no negative quantities.
func ValidateRecipe(r *model.Recipe) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidModelOutput, strings.Join(fields, "; "))
}
