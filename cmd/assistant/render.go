package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pageza/recipe-assistant/backend/internal/pipeline"
)

const helpText = `Type ingredients separated by commas and press Enter to get a recipe.
Commands:
  :voice   speak your ingredients
  :stop    stop listening early
  (empty)  submit the current ingredients again
  :help    show this help
  :quit    exit`

// renderState writes the user-visible change between prev and next, if any
func renderState(w io.Writer, prev, next pipeline.State) {
	if next.Listening != prev.Listening {
		if next.Listening {
			fmt.Fprintln(w, "Listening... speak your ingredients.")
		} else {
			fmt.Fprintln(w, "Stopped listening.")
		}
	}

	if next.Phase == prev.Phase && next.SubmissionID == prev.SubmissionID {
		return
	}
	switch next.Phase {
	case pipeline.PhaseLoading:
		fmt.Fprintln(w, "Generating recipe...")
	case pipeline.PhaseReady:
		renderRecipe(w, next)
	}
}

// renderRecipe prints the recipe card of a Ready state
func renderRecipe(w io.Writer, s pipeline.State) {
	if s.Recipe == nil {
		return
	}
	r := s.Recipe

	fmt.Fprintf(w, "\n== %s ==\n", r.Title)
	fmt.Fprintf(w, "Prep: %s | Cook: %s | Serves: %d\n", r.PrepTime, r.CookTime, r.Servings)
	if s.Image != nil {
		fmt.Fprintf(w, "Image: %s\n", s.Image.ImageURL)
	}

	fmt.Fprintln(w, "\nIngredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}

	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range r.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	if n := s.Nutrition; n != nil {
		fmt.Fprintf(w, "\nNutrition (per %s):\n", n.ServingSize)
		fmt.Fprintf(w, "  Calories %.0f | Protein %.0fg | Carbs %.0fg | Fat %.0fg\n", n.Calories, n.Protein, n.Carbs, n.Fat)
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}
