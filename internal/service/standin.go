package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
)

// Simulated processing delays of the stand-in services
const (
	RecipeLatency    = 1000 * time.Millisecond
	NutritionLatency = 500 * time.Millisecond
	ImageLatency     = 800 * time.Millisecond
)

var (
	// ErrNoIngredients is returned when a recipe is requested for an empty ingredient list
	ErrNoIngredients = errors.New("at least one ingredient is required")
	// ErrEmptyRecipeKey is returned when a nutrition or image request names no recipe
	ErrEmptyRecipeKey = errors.New("recipe key is required")
)

// Rand is the randomness the stand-in services draw from
type Rand interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type options struct {
	latency *time.Duration
	rand    Rand
	log     *zap.Logger
}

// Option configures a stand-in service
type Option func(*options)

// WithLatency overrides the simulated processing delay. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = &d }
}

// WithRand sets the source of randomness
func WithRand(r Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(defaultLatency time.Duration, opts []Option) (time.Duration, Rand, *zap.Logger) {
	o := options{rand: globalRand{}}
	for _, opt := range opts {
		opt(&o)
	}
	latency := defaultLatency
	if o.latency != nil {
		latency = *o.latency
	}
	return latency, o.rand, logger.OrNop(o.log)
}

// NewStandIn returns the stand-in implementations of all three generators
func NewStandIn(opts ...Option) Generators {
	return Generators{
		Recipes:   NewRecipeService(opts...),
		Nutrition: NewNutritionService(opts...),
		Images:    NewImageService(opts...),
	}
}

// LatencyOptions returns the options that disable simulated delays when simulate is false
func LatencyOptions(simulate bool) []Option {
	if simulate {
		return nil
	}
	return []Option{WithLatency(0)}
}

// between returns a value in [lo, lo+span)
func between(r Rand, lo, span int) int {
	return lo + r.IntN(span)
}

// simulateWork blocks for d or until ctx is done
func simulateWork(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
