package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// DefaultServingSize is reported for every stand-in estimate
const DefaultServingSize = "1 cup (250g)"

// Single-serving bounds of the stand-in estimates, as [lo, lo+span)
const (
	caloriesLo, caloriesSpan = 200, 300
	proteinLo, proteinSpan   = 10, 15
	carbsLo, carbsSpan       = 20, 30
	fatLo, fatSpan           = 5, 15
)

// NutritionService estimates stand-in nutrition values for a recipe
type NutritionService struct {
	latency time.Duration
	rand    Rand
	log     *zap.Logger
}

// NewNutritionService creates a new NutritionService instance
func NewNutritionService(opts ...Option) *NutritionService {
	latency, r, log := buildOptions(NutritionLatency, opts)
	return &NutritionService{
		latency: latency,
		rand:    r,
		log:     log.With(zap.String("component", "nutrition_service")),
	}
}

// EstimateNutrition returns plausible single-serving macros for the referenced recipe
func (s *NutritionService) EstimateNutrition(ctx context.Context, ref types.RecipeRef) (*types.NutritionInfo, error) {
	if blank(ref.Key()) {
		return nil, ErrEmptyRecipeKey
	}

	if err := simulateWork(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("nutrition estimation interrupted: %w", err)
	}

	info := &types.NutritionInfo{
		Calories:    float64(between(s.rand, caloriesLo, caloriesSpan)),
		Protein:     float64(between(s.rand, proteinLo, proteinSpan)),
		Carbs:       float64(between(s.rand, carbsLo, carbsSpan)),
		Fat:         float64(between(s.rand, fatLo, fatSpan)),
		ServingSize: DefaultServingSize,
	}

	s.log.Debug("estimated nutrition",
		zap.String("recipe", ref.Key()),
		zap.Float64("calories", info.Calories))

	return info, nil
}
