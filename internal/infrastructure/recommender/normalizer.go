package recommender

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/scancook/backend/internal/domain"
)

// Webhook action tags carried in the response envelope
const (
	actionRecipeRecommendation = "RECIPE_RECOMMENDATION"
	actionFridgeCheck          = "FRIDGE_CHECK"
)

// assumedServings is the serving count the webhook's estimated_cost is spread
// over when deriving a per-serving price. Note the recipe detail endpoint
// scales against a base of 4 servings; see DESIGN.md.
const assumedServings = 2

// fallbackExpiryDays applies when an expiry estimate carries no parsable
// number of days
const fallbackExpiryDays = 30

var leadingIntRegex = regexp.MustCompile(`(\d+)`)

// Metadata carries response provenance from the webhook
type Metadata struct {
	Timestamp  string `json:"timestamp"`
	APIVersion string `json:"api_version"`
	Source     string `json:"source"`
}

// envelope is the loosely-typed outer shape of every webhook response
type envelope struct {
	Status       string          `json:"status"`
	Action       string          `json:"action"`
	ResponseType string          `json:"response_type"`
	BatchSize    int             `json:"batch_size"`
	Metadata     *Metadata       `json:"metadata"`
	Data         json.RawMessage `json:"data"`
}

// Payload is the decoded webhook response: exactly one of RecipeBatch,
// FridgeCheck, or UnknownPayload. The closed set keeps shape handling an
// exhaustive switch instead of a runtime guess.
type Payload interface {
	payloadKind() string
}

// BatchItem pairs one product with one recommended recipe
type BatchItem struct {
	Product struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Brand      string   `json:"brand"`
		ImageURL   string   `json:"image_url"`
		Categories []string `json:"categories"`
	} `json:"product"`
	Recipe struct {
		Name            string   `json:"name"`
		ImageURL        string   `json:"image_url"`
		PreparationTime int      `json:"preparation_time"`
		Difficulty      string   `json:"difficulty"`
		Ingredients     []string `json:"ingredients"`
		Instructions    []string `json:"instructions"`
		EstimatedCost   float64  `json:"estimated_cost"`
		DietaryType     []string `json:"dietary_type"`
		Compatibility   float64  `json:"compatibility"`
	} `json:"recipe"`
}

// RecipeBatch is a recipe-recommendation batch response
type RecipeBatch struct {
	Metadata *Metadata
	Items    []BatchItem
}

func (*RecipeBatch) payloadKind() string { return actionRecipeRecommendation }

// DetectedItem is one item the image analysis found in the fridge
type DetectedItem struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Confidence         float64 `json:"confidence"`
	QuantityEstimation string  `json:"quantity_estimation"`
	ExpiryEstimation   string  `json:"expiry_estimation"`
}

// FridgeCheck is a fridge-contents analysis response
type FridgeCheck struct {
	Metadata      *Metadata
	DetectedItems []DetectedItem
	Summary       struct {
		TotalItems   int      `json:"total_items"`
		Categories   []string `json:"categories"`
		ExpiringSoon []string `json:"expiring_soon"`
	}
}

func (*FridgeCheck) payloadKind() string { return actionFridgeCheck }

// UnknownPayload stands for any response shape the app does not understand.
// It normalizes to "no data", never an error.
type UnknownPayload struct{}

func (UnknownPayload) payloadKind() string { return "UNKNOWN" }

// DecodePayload classifies a raw webhook response body. No schema validation
// happens beyond shape detection: missing optional fields stay zero-valued,
// and anything unrecognized or malformed comes back as UnknownPayload.
func DecodePayload(raw []byte) Payload {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return UnknownPayload{}
	}

	switch {
	case env.Action == actionRecipeRecommendation && env.ResponseType == "batch":
		var items []BatchItem
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return UnknownPayload{}
		}
		return &RecipeBatch{Metadata: env.Metadata, Items: items}

	case env.Action == actionFridgeCheck:
		var data struct {
			DetectedItems []DetectedItem `json:"detected_items"`
			FridgeSummary struct {
				TotalItems   int      `json:"total_items"`
				Categories   []string `json:"categories"`
				ExpiringSoon []string `json:"expiring_soon"`
			} `json:"fridge_summary"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return UnknownPayload{}
		}
		check := &FridgeCheck{Metadata: env.Metadata, DetectedItems: data.DetectedItems}
		check.Summary.TotalItems = data.FridgeSummary.TotalItems
		check.Summary.Categories = data.FridgeSummary.Categories
		check.Summary.ExpiringSoon = data.FridgeSummary.ExpiringSoon
		return check

	default:
		return UnknownPayload{}
	}
}

// NormalizeRecipes maps a recipe batch to canonical recipes. Recipe ids are
// synthesized from list position plus a time token, so they are unique within
// the response but not stable across calls. Ingredient names become
// placeholder products keyed by their position within the recipe.
func NormalizeRecipes(batch *RecipeBatch, now time.Time) []domain.Recipe {
	if batch == nil {
		return []domain.Recipe{}
	}

	token := now.UnixMilli()
	recipes := make([]domain.Recipe, 0, len(batch.Items))

	for index, item := range batch.Items {
		src := item.Recipe

		ingredients := make([]domain.Product, 0, len(src.Ingredients))
		for idx, name := range src.Ingredients {
			ingredients = append(ingredients, domain.Product{
				ID:   fmt.Sprintf("ingredient-%d", idx),
				Name: name,
			})
		}

		recipes = append(recipes, domain.Recipe{
			ID:             fmt.Sprintf("recipe-%d-%d", index, token),
			Name:           src.Name,
			ImageURL:       src.ImageURL,
			Ingredients:    ingredients,
			Duration:       src.PreparationTime,
			Difficulty:     domain.ParseDifficulty(src.Difficulty),
			Instructions:   src.Instructions,
			Tags:           src.DietaryType,
			TotalCost:      src.EstimatedCost,
			CostPerServing: src.EstimatedCost / assumedServings,
		})
	}

	return recipes
}

// NormalizeFridge maps a fridge check to canonical fridge items and a summary.
// Detected quantities are free text and are not parsed: every item lands at
// quantity 1. Expiry estimates like "5 jours" become a date that many days
// from now; estimates with no parsable number fall back to 30 days, and empty
// estimates yield no expiry at all.
func NormalizeFridge(check *FridgeCheck, now time.Time) ([]domain.FridgeItem, *domain.FridgeSummary) {
	if check == nil {
		return []domain.FridgeItem{}, nil
	}

	items := make([]domain.FridgeItem, 0, len(check.DetectedItems))
	for _, detected := range check.DetectedItems {
		item := domain.FridgeItem{
			Product: domain.Product{
				ID:       detected.ID,
				Name:     detected.Name,
				Category: detected.Category,
			},
			Quantity: 1,
		}

		if detected.ExpiryEstimation != "" {
			expiry := now.AddDate(0, 0, parseExpiryDays(detected.ExpiryEstimation))
			item.Expiry = &expiry
		}

		items = append(items, item)
	}

	summary := &domain.FridgeSummary{
		TotalItems:   check.Summary.TotalItems,
		Categories:   check.Summary.Categories,
		ExpiringSoon: check.Summary.ExpiringSoon,
	}

	return items, summary
}

// parseExpiryDays extracts the leading integer from an expiry estimate such
// as "7 jours"
func parseExpiryDays(estimate string) int {
	match := leadingIntRegex.FindString(estimate)
	if match == "" {
		return fallbackExpiryDays
	}

	var days int
	if _, err := fmt.Sscanf(match, "%d", &days); err != nil {
		return fallbackExpiryDays
	}
	return days
}
