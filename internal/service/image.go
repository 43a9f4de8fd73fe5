package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// DisplayQuery sizes every returned image for the recipe card
const DisplayQuery = "w=800&h=600&fit=crop"

// imageCandidates are the food photos the stand-in service picks from
var imageCandidates = []string{
	"https://images.unsplash.com/photo-1546069901-ba9599a7e63c",
	"https://images.unsplash.com/photo-1504674900247-0877df9cc836",
	"https://images.unsplash.com/photo-1512621776951-a57141f2eefd",
	"https://images.unsplash.com/photo-1495521821757-a1efb6729352",
}

// ImageCandidates returns the display URLs the stand-in service can return
func ImageCandidates() []string {
	urls := make([]string, len(imageCandidates))
	for i, c := range imageCandidates {
		urls[i] = DisplayURL(c)
	}
	return urls
}

// DisplayURL appends the display-size parameters to an image URL
func DisplayURL(base string) string {
	return base + "?" + DisplayQuery
}

// ImageService picks stand-in images for recipes
type ImageService struct {
	latency time.Duration
	rand    Rand
	log     *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(opts ...Option) *ImageService {
	latency, r, log := buildOptions(ImageLatency, opts)
	return &ImageService{
		latency: latency,
		rand:    r,
		log:     log.With(zap.String("component", "image_service")),
	}
}

// GenerateImage returns a representative image for the referenced recipe
func (s *ImageService) GenerateImage(ctx context.Context, ref types.RecipeRef) (*types.GeneratedImage, error) {
	if blank(ref.Key()) {
		return nil, ErrEmptyRecipeKey
	}

	if err := simulateWork(ctx, s.latency); err != nil {
		return nil, fmt.Errorf("image generation interrupted: %w", err)
	}

	imageURL := DisplayURL(imageCandidates[s.rand.IntN(len(imageCandidates))])
	s.log.Debug("generated image", zap.String("recipe", ref.Key()), zap.String("url", imageURL))

	return &types.GeneratedImage{ImageURL: imageURL}, nil
}
