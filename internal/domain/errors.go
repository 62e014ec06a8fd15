package domain

import "errors"

var (
	// ErrRecipeNotFound is returned when a recipe id is not in the recipe source
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidBarcode is returned when a scanned code does not look like an
	// EAN barcode; callers drop these silently and keep scanning
	ErrInvalidBarcode = errors.New("invalid barcode format")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRecommenderFailure is returned when the recommender webhook request fails
	ErrRecommenderFailure = errors.New("recommender webhook request failed")
)
