package domain

import "testing"

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Difficulty
	}{
		{name: "english lowercase", input: "easy", want: DifficultyEasy},
		{name: "english uppercase", input: "EASY", want: DifficultyEasy},
		{name: "english mixed case", input: "Hard", want: DifficultyHard},
		{name: "french easy", input: "facile", want: DifficultyEasy},
		{name: "french medium", input: "moyen", want: DifficultyMedium},
		{name: "french hard", input: "difficile", want: DifficultyHard},
		{name: "unrecognized defaults to medium", input: "bizarre", want: DifficultyMedium},
		{name: "empty defaults to medium", input: "", want: DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDifficulty(tt.input)
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecipe_HasTag(t *testing.T) {
	recipe := Recipe{Tags: []string{"rapide", "budget"}}

	if !recipe.HasTag("rapide") {
		t.Errorf("HasTag(rapide) = false, want true")
	}
	if recipe.HasTag("santé") {
		t.Errorf("HasTag(santé) = true, want false")
	}
}
