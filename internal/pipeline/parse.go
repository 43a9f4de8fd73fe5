package pipeline

import (
	"strings"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// ParseIngredients splits raw input on commas, trims each piece and drops empty ones
func ParseIngredients(raw string) types.IngredientList {
	return types.NewIngredientList(strings.Split(raw, ","))
}
