// Package mocks provides testify mocks of the generation services and the notifier.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-assistant/backend/internal/notify"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// MockGenerators is a mock implementation of all three generation services
type MockGenerators struct {
	mock.Mock
}

// Generators exposes the mock as every capability
func (m *MockGenerators) Generators() service.Generators {
	return service.Generators{Recipes: m, Nutrition: m, Images: m}
}

// GenerateRecipe mocks the GenerateRecipe method
func (m *MockGenerators) GenerateRecipe(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, error) {
	args := m.Called(ctx, ingredients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// EstimateNutrition mocks the EstimateNutrition method
func (m *MockGenerators) EstimateNutrition(ctx context.Context, ref types.RecipeRef) (*types.NutritionInfo, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.NutritionInfo), args.Error(1)
}

// GenerateImage mocks the GenerateImage method
func (m *MockGenerators) GenerateImage(ctx context.Context, ref types.RecipeRef) (*types.GeneratedImage, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeneratedImage), args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

// Notify mocks the Notify method
func (m *MockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
