package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-assistant/backend/internal/types"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "Create a recipe using: tofu, bok choy", req.Messages[1].Content)

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newLLM(t *testing.T, url string) *LLMRecipeService {
	t.Helper()
	s, err := NewLLMRecipeService(LLMConfig{APIKey: "sk-test", APIURL: url, Model: "deepseek-chat"}, nil, nil)
	require.NoError(t, err)
	return s
}

func TestLLMGenerateRecipe(t *testing.T) {
	content := `{"title":" Tofu Stir-Fry ","ingredients":["200g tofu","1 head bok choy"],"instructions":["Press the tofu.","Stir-fry everything."],"prep_time":"10 minutes","cook_time":"12 minutes","servings":"2 people"}`
	s := newLLM(t, chatServer(t, http.StatusOK, content).URL)

	recipe, err := s.GenerateRecipe(context.Background(), types.IngredientList{"tofu", "bok choy"})
	require.NoError(t, err)
	assert.Equal(t, "Tofu Stir-Fry", recipe.Title)
	assert.Equal(t, []string{"200g tofu", "1 head bok choy"}, recipe.Ingredients)
	assert.Len(t, recipe.Instructions, 2)
	assert.Equal(t, "12 minutes", recipe.CookTime)
	assert.Equal(t, 2, recipe.Servings)
}

func TestLLMGenerateRecipeNormalizes(t *testing.T) {
	content := `{"title":"Tofu Soup","ingredients":["300g silken tofu","1 litre stock"],"instructions":["Simmer."],"prep_time":"10 mins","cook_time":"1 hour","servings":4}`
	s := newLLM(t, chatServer(t, http.StatusOK, content).URL)

	recipe, err := s.GenerateRecipe(context.Background(), types.IngredientList{"tofu", "bok choy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"300g silken tofu", "1 litre stock", "Fresh bok choy"}, recipe.Ingredients)
	assert.Equal(t, "10 minutes", recipe.PrepTime)
	assert.Equal(t, "60 minutes", recipe.CookTime)
	assert.Equal(t, 4, recipe.Servings)
}

func TestLLMGenerateRecipeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{"error status", http.StatusUnauthorized, ""},
		{"not json", http.StatusOK, "Sure! Here is a recipe"},
		{"missing title", http.StatusOK, `{"instructions":["Cook."],"servings":2}`},
		{"no instructions", http.StatusOK, `{"title":"Tofu","servings":2}`},
		{"bad servings", http.StatusOK, `{"title":"Tofu","instructions":["Cook."],"servings":"a few"}`},
		{"zero servings", http.StatusOK, `{"title":"Tofu","ingredients":["tofu"],"instructions":["Cook."],"prep_time":"5 minutes","cook_time":"5 minutes","servings":0}`},
		{"no ingredients", http.StatusOK, `{"title":"Tofu","ingredients":[" "],"instructions":["Cook."],"prep_time":"5 minutes","cook_time":"5 minutes","servings":2}`},
		{"blank prep time", http.StatusOK, `{"title":"Tofu","ingredients":["tofu"],"instructions":["Cook."],"prep_time":"","cook_time":"5 minutes","servings":2}`},
		{"cook time without number", http.StatusOK, `{"title":"Tofu","ingredients":["tofu"],"instructions":["Cook."],"prep_time":"5 minutes","cook_time":"a while","servings":2}`},
		{"empty soup", http.StatusOK, `{"title":"Soup","ingredients":[],"instructions":["Boil."],"prep_time":"","cook_time":"","servings":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newLLM(t, chatServer(t, tt.status, tt.content).URL)
			_, err := s.GenerateRecipe(context.Background(), types.IngredientList{"tofu", "bok choy"})
			assert.Error(t, err)
		})
	}
}

func TestLLMRequiresIngredientsAndConfig(t *testing.T) {
	s := newLLM(t, "http://127.0.0.1:0")
	_, err := s.GenerateRecipe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoIngredients)

	_, err = NewLLMRecipeService(LLMConfig{APIURL: "http://x", Model: "m"}, nil, nil)
	assert.Error(t, err)
	_, err = NewLLMRecipeService(LLMConfig{APIKey: "k"}, nil, nil)
	assert.Error(t, err)
}

func TestServingsUnmarshal(t *testing.T) {
	for raw, want := range map[string]Servings{`4`: 4, `"6"`: 6, `"2 people"`: 2, `3.0`: 3} {
		var s Servings
		require.NoError(t, json.Unmarshal([]byte(raw), &s), raw)
		assert.Equal(t, want, s, raw)
	}
	var s Servings
	assert.Error(t, json.Unmarshal([]byte(`{"n":1}`), &s))
}
