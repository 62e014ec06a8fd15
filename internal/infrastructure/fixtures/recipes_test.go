package fixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/scancook/backend/internal/domain"
)

func TestRecipeSource_FetchRecommended_NoFilters(t *testing.T) {
	source := NewRecipeSource(0, nil)

	recipes, err := source.FetchRecommended(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("FetchRecommended() error = %v", err)
	}

	if len(recipes) != 4 {
		t.Errorf("recipes length = %d, want the full table of 4", len(recipes))
	}
}

func TestRecipeSource_FetchRecommended_TagFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters []string
		wantIDs map[string]bool
	}{
		{
			name:    "single tag",
			filters: []string{"santé"},
			wantIDs: map[string]bool{"2": true, "4": true},
		},
		{
			name:    "multiple tags union",
			filters: []string{"santé", "budget"},
			wantIDs: map[string]bool{"1": true, "2": true, "3": true, "4": true},
		},
		{
			name:    "no matching tag",
			filters: []string{"végan"},
			wantIDs: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRecipeSource(0, nil)

			recipes, err := source.FetchRecommended(context.Background(), nil, tt.filters)
			if err != nil {
				t.Fatalf("FetchRecommended() error = %v", err)
			}

			if len(recipes) != len(tt.wantIDs) {
				t.Fatalf("recipes length = %d, want %d", len(recipes), len(tt.wantIDs))
			}
			for _, recipe := range recipes {
				if !tt.wantIDs[recipe.ID] {
					t.Errorf("unexpected recipe %s in result", recipe.ID)
				}
			}
		})
	}
}

func TestRecipeSource_FetchRecommended_PromotesScannedIngredients(t *testing.T) {
	source := NewRecipeSource(0, nil)

	// "Lait demi-écrémé" is an ingredient of recipe 4 only
	scanned := []domain.Product{{ID: "1", Name: "Lait demi-écrémé"}}

	recipes, err := source.FetchRecommended(context.Background(), scanned, nil)
	if err != nil {
		t.Fatalf("FetchRecommended() error = %v", err)
	}

	if len(recipes) == 0 || recipes[0].ID != "4" {
		t.Errorf("first recipe = %v, want recipe 4 promoted to front", recipes[0].ID)
	}
}

func TestRecipeSource_FetchByID(t *testing.T) {
	source := NewRecipeSource(0, nil)

	recipe, err := source.FetchByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchByID() error = %v", err)
	}
	if recipe.Name != "Pasta Carbonara" {
		t.Errorf("Name = %q, want Pasta Carbonara", recipe.Name)
	}
	if len(recipe.Ingredients) != 4 {
		t.Errorf("Ingredients length = %d, want 4", len(recipe.Ingredients))
	}

	_, err = source.FetchByID(context.Background(), "999")
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("FetchByID(999) error = %v, want ErrRecipeNotFound", err)
	}
}
