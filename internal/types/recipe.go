package types

import "strings"

// IngredientList is an ordered list of non-empty, trimmed ingredient names
type IngredientList []string

// NewIngredientList trims every entry and drops the ones left empty
func NewIngredientList(items []string) IngredientList {
	list := make(IngredientList, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		list = append(list, item)
	}
	return list
}

// Recipe represents a generated recipe. It is never modified once returned by a generator.
type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Servings     int      `json:"servings"`
}

// Ref returns the key the nutrition and image services use to refer to this recipe
func (r *Recipe) Ref() RecipeRef {
	return RecipeRef{Title: r.Title}
}

// RecipeRef identifies a recipe for the downstream generation stages.
// Only the title is carried today; richer backends can grow this struct
// without touching the callers that build it with Recipe.Ref.
type RecipeRef struct {
	Title string
}

// Key returns the wire key for the referenced recipe
func (r RecipeRef) Key() string {
	return r.Title
}

// NutritionInfo represents estimated single-serving macros for a recipe
type NutritionInfo struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"servingSize"`
}

// GeneratedImage represents a representative image for a recipe
type GeneratedImage struct {
	ImageURL string `json:"imageUrl"`
}
