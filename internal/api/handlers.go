// Package api exposes the generation services over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/middleware"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

// Error messages returned to clients
const (
	MsgNoIngredients    = "Please enter at least one ingredient"
	MsgNoRecipeKey      = "recipeKey is required"
	MsgGenerationFailed = "Failed to get recipe suggestions"
)

// GenerationHandler serves the recipe, nutrition and image endpoints
type GenerationHandler struct {
	gens service.Generators
	log  *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler instance
func NewGenerationHandler(gens service.Generators, log *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		gens: gens,
		log:  logger.OrNop(log).With(zap.String("component", "api")),
	}
}

// RegisterRoutes registers the generation routes behind the given middleware
func (h *GenerationHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	gen := router.Group("", mw...)
	{
		gen.POST("/recipe", h.GenerateRecipe)
		gen.GET("/nutrition", h.EstimateNutrition)
		gen.POST("/nutrition", h.EstimateNutrition)
		gen.POST("/image", h.GenerateImage)
	}
}

// GenerateRecipe handles POST /recipe
func (h *GenerationHandler) GenerateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ingredients := types.NewIngredientList(req.Ingredients)
	if len(ingredients) == 0 {
		badRequest(c, MsgNoIngredients)
		return
	}

	recipe, err := h.gens.Recipes.GenerateRecipe(c.Request.Context(), ingredients)
	if err != nil {
		h.fail(c, "recipe", err)
		return
	}
	c.JSON(http.StatusOK, types.RecipeResponse{Recipe: *recipe})
}

// EstimateNutrition handles GET and POST /nutrition
func (h *GenerationHandler) EstimateNutrition(c *gin.Context) {
	ref, ok := bindRecipeRef(c)
	if !ok {
		return
	}

	info, err := h.gens.Nutrition.EstimateNutrition(c.Request.Context(), ref)
	if err != nil {
		h.fail(c, "nutrition", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GenerateImage handles POST /image
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	ref, ok := bindRecipeRef(c)
	if !ok {
		return
	}

	img, err := h.gens.Images.GenerateImage(c.Request.Context(), ref)
	if err != nil {
		h.fail(c, "image", err)
		return
	}
	c.JSON(http.StatusOK, types.ImageResponse{ImageURL: img.ImageURL})
}

func bindRecipeRef(c *gin.Context) (types.RecipeRef, bool) {
	var req types.RecipeKeyRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		badRequest(c, "Invalid request body")
		return types.RecipeRef{}, false
	}

	title := strings.TrimSpace(req.RecipeKey)
	if title == "" {
		badRequest(c, MsgNoRecipeKey)
		return types.RecipeRef{}, false
	}
	return types.RecipeRef{Title: title}, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: msg})
}

func (h *GenerationHandler) fail(c *gin.Context, stage string, err error) {
	_ = c.Error(&types.Error{Kind: types.KindGenerationFailure, Stage: stage, Err: err})

	switch {
	case errors.Is(err, service.ErrNoIngredients), errors.Is(err, service.ErrEmptyRecipeKey):
		badRequest(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "timeout", Message: MsgGenerationFailed})
	default:
		h.log.Error("generation failed",
			zap.String("stage", stage),
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "generation_failed", Message: MsgGenerationFailed})
	}
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
