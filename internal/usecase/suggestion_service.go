package usecase

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/scancook/backend/internal/domain"
	"github.com/scancook/backend/internal/infrastructure/recommender"
)

// Serving bounds for the recipe detail view. Fixture recipes are written for
// baseServings people.
const (
	baseServings = 4
	minServings  = 1
	maxServings  = 12
)

// SuggestionService produces recipe suggestions and fridge analyses. The
// remote recommender is tried first; any failure or unusable response falls
// back to the local fixture recipes so the screen never fails.
type SuggestionService struct {
	client domain.RecommenderClient
	source domain.RecipeSource
	state  *StateService
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(client domain.RecommenderClient, source domain.RecipeSource, state *StateService) *SuggestionService {
	return &SuggestionService{
		client: client,
		source: source,
		state:  state,
	}
}

// Suggest fetches recipe suggestions for the session, stores them as the new
// suggestion list and returns them
func (s *SuggestionService) Suggest(ctx context.Context, sessionID string, filters []string) ([]domain.Recipe, error) {
	current, err := s.state.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recipes := s.fetchRemote(ctx, current, filters)
	if recipes == nil {
		recipes, err = s.source.FetchRecommended(ctx, current.ScannedProducts, filters)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.state.SetSuggestedRecipes(ctx, sessionID, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// fetchRemote asks the recommender webhook for suggestions. It returns nil
// (meaning "use the fallback") on transport errors, on unrecognized response
// shapes and on empty batches.
func (s *SuggestionService) fetchRemote(ctx context.Context, state domain.SessionState, filters []string) []domain.Recipe {
	if s.client == nil {
		return nil
	}

	raw, err := s.client.RequestRecommendations(ctx, state.ScannedProducts, state.FridgeItems, filters)
	if err != nil {
		log.Printf("[SUGGESTIONS] recommender unavailable, using fixtures: %v", err)
		return nil
	}

	switch payload := recommender.DecodePayload(raw).(type) {
	case *recommender.RecipeBatch:
		recipes := recommender.NormalizeRecipes(payload, time.Now())
		if len(recipes) == 0 {
			return nil
		}
		return recipes
	case *recommender.FridgeCheck:
		// A fridge analysis is not a suggestion batch; treat as no data
		return nil
	case recommender.UnknownPayload:
		log.Printf("[SUGGESTIONS] unrecognized recommender response, using fixtures")
		return nil
	default:
		return nil
	}
}

// CheckFridge submits a fridge photo for analysis and merges detected items
// into the session fridge. Failures and unusable responses degrade to an
// empty detection, never an error surfaced to the screen.
func (s *SuggestionService) CheckFridge(ctx context.Context, sessionID, imageBase64 string) ([]domain.FridgeItem, *domain.FridgeSummary, domain.SessionState, error) {
	state, err := s.state.GetState(ctx, sessionID)
	if err != nil {
		return nil, nil, domain.SessionState{}, err
	}

	items := []domain.FridgeItem{}
	var summary *domain.FridgeSummary

	if s.client != nil {
		raw, err := s.client.AnalyzeFridgeImage(ctx, imageBase64)
		if err != nil {
			log.Printf("[FRIDGE] image analysis failed: %v", err)
		} else {
			switch payload := recommender.DecodePayload(raw).(type) {
			case *recommender.FridgeCheck:
				items, summary = recommender.NormalizeFridge(payload, time.Now())
			case *recommender.RecipeBatch, recommender.UnknownPayload:
				log.Printf("[FRIDGE] response is not a fridge check, ignoring")
			}
		}
	}

	state, err = s.state.MergeFridgeItems(ctx, sessionID, items, summary)
	if err != nil {
		return nil, nil, domain.SessionState{}, err
	}
	return items, summary, state, nil
}

// RecipeDetail returns a recipe with ingredient prices scaled to the
// requested serving count. Fixture quantities assume baseServings; the count
// is clamped to [minServings, maxServings] and defaults to the base.
func (s *SuggestionService) RecipeDetail(ctx context.Context, id string, servings int) (*domain.Recipe, error) {
	recipe, err := s.source.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if servings <= 0 {
		servings = baseServings
	}
	if servings < minServings {
		servings = minServings
	}
	if servings > maxServings {
		servings = maxServings
	}

	if servings != baseServings {
		ratio := float64(servings) / float64(baseServings)
		scaled := make([]domain.Product, len(recipe.Ingredients))
		copy(scaled, recipe.Ingredients)
		for i := range scaled {
			if scaled[i].Price > 0 {
				scaled[i].Price = math.Round(scaled[i].Price*ratio*100) / 100
			}
		}
		recipe.Ingredients = scaled
	}

	return recipe, nil
}

// AddRecipeToCart resolves a recipe (scaled to the requested servings) and
// bundles its ingredients into the cart
func (s *SuggestionService) AddRecipeToCart(ctx context.Context, sessionID, recipeID string, servings int) (domain.SessionState, error) {
	recipe, err := s.RecipeDetail(ctx, recipeID, servings)
	if err != nil {
		return domain.SessionState{}, err
	}
	return s.state.AddRecipeToCart(ctx, sessionID, *recipe)
}
