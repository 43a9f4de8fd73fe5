// Package client implements the generation capabilities against a remote
// recipe-assistant API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/logger"
	"github.com/pageza/recipe-assistant/backend/internal/service"
	"github.com/pageza/recipe-assistant/backend/internal/types"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// StatusError is returned when the remote API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote API returned %d: %s", e.StatusCode, e.Message)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client talks to the HTTP API served by cmd/api
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

var (
	_ service.RecipeGenerator    = (*Client)(nil)
	_ service.NutritionEstimator = (*Client)(nil)
	_ service.ImageGenerator     = (*Client)(nil)
)

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrNop(c.log).With(zap.String("component", "client"))
	return c, nil
}

// Generators exposes the client as all three capabilities
func (c *Client) Generators() service.Generators {
	return service.Generators{Recipes: c, Nutrition: c, Images: c}
}

// GenerateRecipe calls POST /recipe
func (c *Client) GenerateRecipe(ctx context.Context, ingredients types.IngredientList) (*types.Recipe, error) {
	var resp types.RecipeResponse
	if err := c.do(ctx, http.MethodPost, "/recipe", types.RecipeRequest{Ingredients: ingredients}, &resp); err != nil {
		return nil, err
	}
	return &resp.Recipe, nil
}

// EstimateNutrition calls POST /nutrition
func (c *Client) EstimateNutrition(ctx context.Context, ref types.RecipeRef) (*types.NutritionInfo, error) {
	var info types.NutritionInfo
	if err := c.do(ctx, http.MethodPost, "/nutrition", types.RecipeKeyRequest{RecipeKey: ref.Key()}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GenerateImage calls POST /image
func (c *Client) GenerateImage(ctx context.Context, ref types.RecipeRef) (*types.GeneratedImage, error) {
	var resp types.ImageResponse
	if err := c.do(ctx, http.MethodPost, "/image", types.RecipeKeyRequest{RecipeKey: ref.Key()}, &resp); err != nil {
		return nil, err
	}
	return &types.GeneratedImage{ImageURL: resp.ImageURL}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("remote call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body types.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && (body.Message != "" || body.Error != "") {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
