package domain

import "strings"

// Difficulty is one of three ordinal cooking difficulty levels
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// difficultyVocabulary maps the free-text values the recommender emits
// (French and English variants) to canonical levels
var difficultyVocabulary = map[string]Difficulty{
	"easy":      DifficultyEasy,
	"medium":    DifficultyMedium,
	"hard":      DifficultyHard,
	"facile":    DifficultyEasy,
	"moyen":     DifficultyMedium,
	"difficile": DifficultyHard,
}

// ParseDifficulty normalizes a free-text difficulty value. Unrecognized
// values map to the middle level rather than failing.
func ParseDifficulty(s string) Difficulty {
	if d, ok := difficultyVocabulary[strings.ToLower(s)]; ok {
		return d
	}
	return DifficultyMedium
}

// Recipe represents a cooking recipe. Ingredient order is display-significant:
// placeholder ingredient ids are derived from list position.
type Recipe struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	Ingredients    []Product  `json:"ingredients"`
	Duration       int        `json:"duration,omitempty"` // minutes
	Difficulty     Difficulty `json:"difficulty,omitempty"`
	Instructions   []string   `json:"instructions"`
	Tags           []string   `json:"tags,omitempty"`
	TotalCost      float64    `json:"totalCost,omitempty"`
	CostPerServing float64    `json:"costPerServing,omitempty"`
}

// HasTag reports whether the recipe carries the given tag
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
