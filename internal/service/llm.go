package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

const llmSystemPrompt = `You are a professional chef. Create one recipe that uses the ingredients the user lists. Please provide your response in JSON format with the following structure:
{
    "title": "Recipe name",
    "ingredients": ["2 cups rice", "1 tbsp olive oil"],
    "instructions": ["Rinse the rice.", "Heat the oil in a pan."],
    "prep_time": "15 minutes",
    "cook_time": "25 minutes",
    "servings": 4
}

Note: servings must be a number. Every listed ingredient must appear in the recipe.`

// LLMConfig configures the chat-completion backend
type LLMConfig struct {
	APIKey string
	APIURL string
	Model  string
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat-completions API
type ChatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// Servings accepts both string and number values
type Servings int

func (s *Servings) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Servings(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				*s = Servings(n)
				return nil
			}
		}
	}

	return fmt.Errorf("invalid servings format: %s", data)
}

// llmRecipe is the JSON document the model is asked to produce
type llmRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     Servings `json:"servings"`
}

// LLMRecipeService generates recipes with a DeepSeek-compatible chat-completions API
type LLMRecipeService struct {
	cfg  LLMConfig
	http *http.Client
	log  *zap.Logger
}

var _ RecipeGenerator = (*LLMRecipeService)(nil)

// NewLLMRecipeService creates a new LLMRecipeService instance
func NewLLMRecipeService(cfg LLMConfig, httpClient *http.Client, log *zap.Logger) (*LLMRecipeService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key must be set")
	}
	if cfg.APIURL == "" || cfg.Model == "" {
		return nil, errors.New("LLM API URL and model must be set")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &LLMRecipeService{
		cfg:  cfg,
		http: httpClient,
		log:  logger.OrNop(log).With(zap.String("service", "llm")),
	}, nil
}

// GenerateRecipe asks the model for a recipe built around ingredients
func (s *LLMRecipeService) GenerateRecipe(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}

	content, err := s.complete(ctx, []Message{
		{Role: "system", Content: llmSystemPrompt},
		{Role: "user", Content: "Create a recipe using: " + strings.Join(ingredients, ", ")},
	})
	if err != nil {
		return nil, err
	}

	var out llmRecipe
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}

	recipe, err := out.toRecipe(ingredients)
	if err != nil {
		s.log.Warn("rejected model recipe", zap.Error(err), zap.String("content", content))
		return nil, err
	}

	s.log.Info("recipe generated", zap.String("title", recipe.Title), zap.Int("steps", len(recipe.Instructions)))
	return recipe, nil
}

// toRecipe validates the model output and normalizes it. Requested
// ingredients the model left out are appended.
func (r llmRecipe) toRecipe(requested types.IngredientList) (*types.Recipe, error) {
	title := strings.TrimSpace(r.Title)
	instructions := types.NewIngredientList(r.Instructions)
	if title == "" || len(instructions) == 0 {
		return nil, errors.New("model returned an incomplete recipe")
	}
	if r.Servings < 1 {
		return nil, fmt.Errorf("model returned invalid servings %d", r.Servings)
	}

	prep, err := minutes(r.PrepTime)
	if err != nil {
		return nil, fmt.Errorf("prep_time: %w", err)
	}
	cook, err := minutes(r.CookTime)
	if err != nil {
		return nil, fmt.Errorf("cook_time: %w", err)
	}

	lines := types.NewIngredientList(r.Ingredients)
	if len(lines) == 0 {
		return nil, errors.New("model returned no ingredients")
	}
	for _, ingredient := range requested {
		if !mentions(lines, ingredient) {
			lines = append(lines, "Fresh "+ingredient)
		}
	}

	return &types.Recipe{
		Title:        title,
		Ingredients:  lines,
		Instructions: instructions,
		PrepTime:     prep,
		CookTime:     cook,
		Servings:     int(r.Servings),
	}, nil
}

var leadingNumber = regexp.MustCompile(`\d+`)

// minutes rewrites durations like "15 mins" or "1 hour" as "<n> minutes"
func minutes(s string) (string, error) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return "", fmt.Errorf("no duration in %q", s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return "", fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if strings.Contains(strings.ToLower(s), "hour") {
		n *= 60
	}
	return fmt.Sprintf("%d minutes", n), nil
}

func mentions(lines []string, ingredient string) bool {
	want := strings.ToLower(ingredient)
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), want) {
			return true
		}
	}
	return false
}

func (s *LLMRecipeService) complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := ChatRequest{
		Model:          s.cfg.Model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.9,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("chat completion failed", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}
	s.log.Debug("chat completion", zap.ByteString("body", body))

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}
