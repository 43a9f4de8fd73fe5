package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// Staples are appended to every generated recipe after the requested ingredients
var Staples = []string{
	"Salt to taste",
	"Black pepper",
	"Olive oil",
	"Garlic cloves",
	"Herbs of choice",
}

// RecipeService generates stand-in recipes from an ingredient list
type RecipeService struct {
	latency time.Duration
	rand    Rand
	log     *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(opts ...Option) *RecipeService {
	latency, r, log := buildOptions(RecipeLatency, opts)
	return &RecipeService{
		latency: latency,
		rand:    r,
		log:     log.With(zap.String("component", "recipe_service")),
	}
}

// GenerateRecipe builds a recipe around the given ingredients
func (s *RecipeService) GenerateRecipe(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	if err := simulateWork(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("recipe generation interrupted: %w", err)
	}

	first, rest := ingredients[0], ingredients[1:]

	decorated := make([]string, 0, len(ingredients)+len(Staples))
	for _, ingredient := range ingredients {
		decorated = append(decorated, "Fresh "+ingredient)
	}
	decorated = append(decorated, Staples...)

	instructions := []string{
		"Gather and prepare all ingredients.",
		fmt.Sprintf("Clean and chop %s.", strings.Join(ingredients, ", ")),
		"Heat olive oil in a large pan over medium heat.",
		"Add minced garlic and sauté until fragrant.",
		fmt.Sprintf("Add %s and cook for 5 minutes.", first),
	}
	if len(rest) > 0 {
		instructions = append(instructions, fmt.Sprintf("Incorporate %s.", strings.Join(rest, " and ")))
	}
	instructions = append(instructions,
		"Season with salt and pepper.",
		"Cook until desired tenderness is achieved.",
		"Garnish with fresh herbs and serve hot.",
	)

	recipe := &types.Recipe{
		Title:        recipeTitle(first, rest),
		Ingredients:  decorated,
		Instructions: instructions,
		PrepTime:     fmt.Sprintf("%d minutes", between(s.rand, 10, 15)),
		CookTime:     fmt.Sprintf("%d minutes", between(s.rand, 15, 20)),
		Servings:     between(s.rand, 2, 4),
	}

	s.log.Debug("generated recipe",
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(ingredients)))

	return recipe, nil
}

func recipeTitle(first string, rest []string) string {
	title := capitalize(first) + " Special"
	if len(rest) > 0 {
		title += " with " + strings.Join(rest, " and ")
	}
	return title
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
