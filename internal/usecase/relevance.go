package usecase

import (
	"regexp"
	"strings"

	"github.com/scancook/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Token weights for relevance scoring
const (
	weightSubstringMatch = 10.0 // ingredient name contained in a scanned product name
	weightTokenOverlap   = 3.0  // shared token between ingredient and product
	weightTagHit         = 1.0  // recipe tag appears among scanned categories
)

// stopWords are filler terms stripped before token comparison; the fixture
// catalog is French, the recommender vocabulary mixes French and English
var stopWords = map[string]bool{
	// French
	"de": true, "du": true, "des": true, "le": true, "la": true, "les": true,
	"un": true, "une": true, "au": true, "aux": true, "et": true, "en": true,
	// English
	"a": true, "an": true, "the": true, "and": true, "of": true, "with": true,
	// Packaging / quantity noise
	"g": true, "kg": true, "ml": true, "cl": true, "l": true, "pack": true,
}

// RelevanceRanker scores recipes against the products a user has scanned,
// promoting recipes that can be cooked from what is already at hand
type RelevanceRanker struct{}

// NewRelevanceRanker creates a new ranker
func NewRelevanceRanker() *RelevanceRanker {
	return &RelevanceRanker{}
}

// Score returns a relevance score for the recipe given the scanned products.
// Higher is more relevant; zero means no overlap at all.
func (r *RelevanceRanker) Score(recipe domain.Recipe, scanned []domain.Product) float64 {
	if len(scanned) == 0 {
		return 0
	}

	productNames := make([]string, 0, len(scanned))
	productTokens := make(map[string]bool)
	categories := make(map[string]bool)
	for _, product := range scanned {
		name := normalizeName(product.Name)
		productNames = append(productNames, name)
		for _, token := range tokenize(name) {
			productTokens[token] = true
		}
		if product.Category != "" {
			categories[strings.ToLower(product.Category)] = true
		}
	}

	score := 0.0
	for _, ingredient := range recipe.Ingredients {
		name := normalizeName(ingredient.Name)
		if name == "" {
			continue
		}

		for _, productName := range productNames {
			if strings.Contains(productName, name) {
				score += weightSubstringMatch
				break
			}
		}

		for _, token := range tokenize(name) {
			if productTokens[token] {
				score += weightTokenOverlap
			}
		}
	}

	for _, tag := range recipe.Tags {
		if categories[strings.ToLower(tag)] {
			score += weightTagHit
		}
	}

	return score
}

// normalizeName lowercases a product or ingredient name and strips
// punctuation and duplicate whitespace
func normalizeName(name string) string {
	result := strings.ToLower(name)
	result = punctuationRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// tokenize splits a normalized name into significant tokens
func tokenize(name string) []string {
	fields := strings.Fields(name)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
