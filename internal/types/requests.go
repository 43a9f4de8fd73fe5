package types

// RecipeRequest represents the request body for POST /recipe
type RecipeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// RecipeResponse represents the response body for POST /recipe
type RecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}

// RecipeKeyRequest represents the request body for /nutrition and /image
type RecipeKeyRequest struct {
	RecipeKey string `json:"recipeKey" form:"recipeKey"`
}

// ImageResponse represents the response body for POST /image
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
