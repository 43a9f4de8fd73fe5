package service

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// fixedRand always returns the same offset, clamped to the requested range
type fixedRand struct{ max bool }

func (r fixedRand) IntN(n int) int {
	if r.max {
		return n - 1
	}
	return 0
}

var minutesPattern = regexp.MustCompile(`^(\d+) minutes$`)

func minutes(t *testing.T, s string) int {
	t.Helper()
	m := minutesPattern.FindStringSubmatch(s)
	require.Len(t, m, 2, "%q is not a minutes duration", s)
	n, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return n
}

func TestGenerateRecipe(t *testing.T) {
	svc := NewRecipeService(WithLatency(0))

	recipe, err := svc.GenerateRecipe(context.Background(), types.IngredientList{"chicken", "broccoli", "rice"})
	require.NoError(t, err)

	assert.Equal(t, "Chicken Special with broccoli and rice", recipe.Title)
	assert.Equal(t, []string{
		"Fresh chicken", "Fresh broccoli", "Fresh rice",
		"Salt to taste", "Black pepper", "Olive oil", "Garlic cloves", "Herbs of choice",
	}, recipe.Ingredients)
	assert.Len(t, recipe.Instructions, 9)
	assert.Equal(t, "Clean and chop chicken, broccoli, rice.", recipe.Instructions[1])
	assert.Equal(t, "Add chicken and cook for 5 minutes.", recipe.Instructions[4])
	assert.Equal(t, "Incorporate broccoli and rice.", recipe.Instructions[5])
}

func TestGenerateRecipeSingleIngredient(t *testing.T) {
	svc := NewRecipeService(WithLatency(0))

	recipe, err := svc.GenerateRecipe(context.Background(), types.IngredientList{"éclair"})
	require.NoError(t, err)

	assert.Equal(t, "Éclair Special", recipe.Title)
	assert.Len(t, recipe.Ingredients, 1+len(Staples))
	assert.Len(t, recipe.Instructions, 8)
	for _, step := range recipe.Instructions {
		assert.NotContains(t, step, "Incorporate")
	}
}

func TestGenerateRecipeRequiresIngredients(t *testing.T) {
	svc := NewRecipeService(WithLatency(0))

	_, err := svc.GenerateRecipe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoIngredients)
}

func TestGenerateRecipeBounds(t *testing.T) {
	svc := NewRecipeService(WithLatency(0))
	input := types.IngredientList{"tofu", "peppers"}

	for i := 0; i < 300; i++ {
		recipe, err := svc.GenerateRecipe(context.Background(), input)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, len(recipe.Ingredients), len(input))
		assert.NotEmpty(t, recipe.Instructions)
		assert.GreaterOrEqual(t, recipe.Servings, 2)
		assert.LessOrEqual(t, recipe.Servings, 5)

		prep := minutes(t, recipe.PrepTime)
		assert.GreaterOrEqual(t, prep, 10)
		assert.LessOrEqual(t, prep, 24)

		cook := minutes(t, recipe.CookTime)
		assert.GreaterOrEqual(t, cook, 15)
		assert.LessOrEqual(t, cook, 34)
	}
}

func TestGenerateRecipeRangeEdges(t *testing.T) {
	low, err := NewRecipeService(WithLatency(0), WithRand(fixedRand{})).
		GenerateRecipe(context.Background(), types.IngredientList{"kale"})
	require.NoError(t, err)
	assert.Equal(t, "10 minutes", low.PrepTime)
	assert.Equal(t, "15 minutes", low.CookTime)
	assert.Equal(t, 2, low.Servings)

	high, err := NewRecipeService(WithLatency(0), WithRand(fixedRand{max: true})).
		GenerateRecipe(context.Background(), types.IngredientList{"kale"})
	require.NoError(t, err)
	assert.Equal(t, "24 minutes", high.PrepTime)
	assert.Equal(t, "34 minutes", high.CookTime)
	assert.Equal(t, 5, high.Servings)
}

func TestGenerateRecipeHonorsContext(t *testing.T) {
	svc := NewRecipeService(WithLatency(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateRecipe(ctx, types.IngredientList{"kale"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstimateNutritionBounds(t *testing.T) {
	svc := NewNutritionService(WithLatency(0))
	ref := types.RecipeRef{Title: "Kale Special"}

	for i := 0; i < 300; i++ {
		info, err := svc.EstimateNutrition(context.Background(), ref)
		require.NoError(t, err)

		assert.True(t, info.Calories >= 200 && info.Calories <= 499, "calories %v", info.Calories)
		assert.True(t, info.Protein >= 10 && info.Protein <= 24, "protein %v", info.Protein)
		assert.True(t, info.Carbs >= 20 && info.Carbs <= 49, "carbs %v", info.Carbs)
		assert.True(t, info.Fat >= 5 && info.Fat <= 19, "fat %v", info.Fat)
		assert.Equal(t, DefaultServingSize, info.ServingSize)
	}
}

func TestEstimateNutritionRangeEdges(t *testing.T) {
	ref := types.RecipeRef{Title: "Kale Special"}

	high, err := NewNutritionService(WithLatency(0), WithRand(fixedRand{max: true})).
		EstimateNutrition(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, &types.NutritionInfo{Calories: 499, Protein: 24, Carbs: 49, Fat: 19, ServingSize: DefaultServingSize}, high)
}

func TestEstimateNutritionRequiresKey(t *testing.T) {
	_, err := NewNutritionService(WithLatency(0)).EstimateNutrition(context.Background(), types.RecipeRef{Title: "  "})
	assert.ErrorIs(t, err, ErrEmptyRecipeKey)
}

func TestGenerateImage(t *testing.T) {
	svc := NewImageService(WithLatency(0))
	candidates := ImageCandidates()

	for i := 0; i < 100; i++ {
		img, err := svc.GenerateImage(context.Background(), types.RecipeRef{Title: "Kale Special"})
		require.NoError(t, err)
		require.NotEmpty(t, img.ImageURL)
		assert.Contains(t, candidates, img.ImageURL)

		u, err := url.ParseRequestURI(img.ImageURL)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, "800", u.Query().Get("w"))
		assert.Equal(t, "600", u.Query().Get("h"))
		assert.Equal(t, "crop", u.Query().Get("fit"))
	}
}

func TestGenerateImageRequiresKey(t *testing.T) {
	_, err := NewImageService(WithLatency(0)).GenerateImage(context.Background(), types.RecipeRef{})
	assert.ErrorIs(t, err, ErrEmptyRecipeKey)
}

func TestGenerateImageHonorsContext(t *testing.T) {
	svc := NewImageService(WithLatency(50 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := svc.GenerateImage(ctx, types.RecipeRef{Title: "Kale Special"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewStandIn(t *testing.T) {
	gens := NewStandIn(LatencyOptions(false)...)
	require.NotNil(t, gens.Recipes)
	require.NotNil(t, gens.Nutrition)
	require.NotNil(t, gens.Images)

	assert.Nil(t, LatencyOptions(true))
}
