package fixtures

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/scancook/backend/internal/domain"
)

// recipeTable is the canned recipe list served when the recommender webhook
// is unreachable or returns nothing usable
var recipeTable = []domain.Recipe{
	{
		ID:       "1",
		Name:     "Pasta Carbonara",
		ImageURL: "https://images.unsplash.com/photo-1612874742237-6526221588e3?auto=format&fit=crop&q=80&w=300",
		Ingredients: []domain.Product{
			{ID: "2", Name: "Pâtes complètes", Brand: "Panzani", Price: 1.89},
			{ID: "3", Name: "Œufs", Price: 2.50},
			{ID: "4", Name: "Parmesan", Price: 3.75},
			{ID: "5", Name: "Lardons", Price: 2.30},
		},
		Duration:       20,
		Difficulty:     domain.DifficultyEasy,
		CostPerServing: 2.61,
		TotalCost:      10.44,
		Tags:           []string{"rapide", "budget"},
		Instructions: []string{
			"Faire cuire les pâtes al dente.",
			"Dans un bol, battre les œufs avec le parmesan râpé.",
			"Faire revenir les lardons à sec.",
			"Égoutter les pâtes et les mélanger hors du feu avec les œufs et les lardons.",
		},
	},
	{
		ID:       "2",
		Name:     "Salade de quinoa aux légumes grillés",
		ImageURL: "https://images.unsplash.com/photo-1505576399279-565b52d4ac71?auto=format&fit=crop&q=80&w=300",
		Ingredients: []domain.Product{
			{ID: "6", Name: "Quinoa", Price: 3.99},
			{ID: "7", Name: "Courgette", Price: 1.20},
			{ID: "8", Name: "Poivron", Price: 1.50},
			{ID: "9", Name: "Feta", Price: 2.80},
		},
		Duration:       25,
		Difficulty:     domain.DifficultyMedium,
		CostPerServing: 2.37,
		TotalCost:      9.49,
		Tags:           []string{"santé"},
		Instructions: []string{
			"Cuire le quinoa selon les instructions du paquet.",
			"Couper les légumes et les faire griller.",
			"Mélanger le quinoa et les légumes grillés.",
			"Ajouter la feta émiettée et un filet d'huile d'olive.",
		},
	},
	{
		ID:       "3",
		Name:     "Risotto aux champignons",
		ImageURL: "https://images.unsplash.com/photo-1476124369491-e7addf5db371?auto=format&fit=crop&q=80&w=300",
		Ingredients: []domain.Product{
			{ID: "10", Name: "Riz arborio", Price: 2.99},
			{ID: "11", Name: "Champignons de Paris", Price: 2.50},
			{ID: "12", Name: "Oignon", Price: 0.80},
			{ID: "13", Name: "Bouillon de légumes", Price: 1.20},
			{ID: "14", Name: "Vin blanc", Price: 4.50},
		},
		Duration:       40,
		Difficulty:     domain.DifficultyHard,
		CostPerServing: 3.00,
		TotalCost:      11.99,
		Tags:           []string{"budget"},
		Instructions: []string{
			"Faire revenir l'oignon émincé.",
			"Ajouter le riz et le faire nacrer.",
			"Déglacer avec le vin blanc.",
			"Ajouter le bouillon petit à petit en remuant.",
			"Incorporer les champignons et finir la cuisson.",
		},
	},
	{
		ID:       "4",
		Name:     "Bowl de lait et céréales",
		ImageURL: "https://images.unsplash.com/photo-1521483451569-e33803c5027c?auto=format&fit=crop&q=80&w=300",
		Ingredients: []domain.Product{
			{ID: "15", Name: "Lait demi-écrémé", Brand: "Lactel", Price: 1.15},
			{ID: "16", Name: "Céréales", Price: 3.20},
			{ID: "17", Name: "Fruits rouges", Price: 3.50},
		},
		Duration:       5,
		Difficulty:     domain.DifficultyEasy,
		CostPerServing: 3.93,
		TotalCost:      7.85,
		Tags:           []string{"rapide", "santé"},
		Instructions: []string{
			"Verser les céréales dans un bol.",
			"Ajouter le lait.",
			"Garnir de fruits rouges.",
		},
	},
}

// RecipeSource serves canned recipes with tag filtering and a simulated
// relevance reordering based on the scanned products
type RecipeSource struct {
	latency time.Duration
	ranker  Ranker
}

// Ranker scores a recipe's relevance against the scanned products. A nil
// ranker falls back to plain substring matching.
type Ranker interface {
	Score(recipe domain.Recipe, scanned []domain.Product) float64
}

// NewRecipeSource creates a fixture-backed recipe source
func NewRecipeSource(latency time.Duration, ranker Ranker) *RecipeSource {
	return &RecipeSource{latency: latency, ranker: ranker}
}

// FetchRecommended returns the recipe table filtered by tag membership, with
// recipes relevant to the scanned products promoted to the front. The sort is
// stable so the fixture ordering is preserved among equals.
func (s *RecipeSource) FetchRecommended(ctx context.Context, scanned []domain.Product, filters []string) ([]domain.Recipe, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	recipes := make([]domain.Recipe, 0, len(recipeTable))
	for _, recipe := range recipeTable {
		if matchesFilters(&recipe, filters) {
			recipes = append(recipes, recipe)
		}
	}

	if len(scanned) > 0 {
		sort.SliceStable(recipes, func(i, j int) bool {
			return s.score(recipes[i], scanned) > s.score(recipes[j], scanned)
		})
	}

	return recipes, nil
}

// FetchByID returns the recipe with the given id from the table
func (s *RecipeSource) FetchByID(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	for _, recipe := range recipeTable {
		if recipe.ID == id {
			found := recipe
			return &found, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

// matchesFilters reports whether the recipe carries at least one of the
// requested tags. An empty filter list matches everything.
func matchesFilters(r *domain.Recipe, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, filter := range filters {
		if r.HasTag(filter) {
			return true
		}
	}
	return false
}

func (s *RecipeSource) score(recipe domain.Recipe, scanned []domain.Product) float64 {
	if s.ranker != nil {
		return s.ranker.Score(recipe, scanned)
	}
	if hasScannedIngredient(recipe, scanned) {
		return 1
	}
	return 0
}

// hasScannedIngredient reports whether any ingredient name appears inside a
// scanned product name (case-insensitive substring match)
func hasScannedIngredient(recipe domain.Recipe, scanned []domain.Product) bool {
	for _, ingredient := range recipe.Ingredients {
		name := strings.ToLower(ingredient.Name)
		for _, product := range scanned {
			if strings.Contains(strings.ToLower(product.Name), name) {
				return true
			}
		}
	}
	return false
}
