package service

import (
	"context"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// RecipeGenerator produces a structured recipe from an ingredient list
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, error)
}

// NutritionEstimator estimates single-serving macros for a recipe
type NutritionEstimator interface {
	EstimateNutrition(ctx context.Context, ref types.RecipeRef) (*types.NutritionInfo, error)
}

// ImageGenerator produces a representative image URL for a recipe
type ImageGenerator interface {
	GenerateImage(ctx context.Context, ref types.RecipeRef) (*types.GeneratedImage, error)
}

// Generators bundles the three generation capabilities the pipeline depends on
type Generators struct {
	Recipes   RecipeGenerator
	Nutrition NutritionEstimator
	Images    ImageGenerator
}
