package domain

import "time"

// Product represents a grocery product, either from the catalog (barcode
// lookup) or synthesized as a placeholder (unknown barcode, recipe
// ingredient).
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Brand     string     `json:"brand,omitempty"`
	Category  string     `json:"category,omitempty"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Barcode   string     `json:"barcode,omitempty"`
	Nutrients *Nutrients `json:"nutrients,omitempty"`
	Price     float64    `json:"price,omitempty"`
}

// Nutrients contains the key macronutrients per 100g
type Nutrients struct {
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"` // grams
	Carbs    float64 `json:"carbs,omitempty"`   // grams
	Fat      float64 `json:"fat,omitempty"`     // grams
}

// CartItem is a product with a positive quantity. The cart holds at most one
// entry per product id; adding the same product again merges quantities.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// FridgeItem is a product sitting in the virtual fridge, optionally with an
// expiry date. Same one-entry-per-product-id rule as the cart.
type FridgeItem struct {
	Product  Product    `json:"product"`
	Quantity int        `json:"quantity"`
	Expiry   *time.Time `json:"expiryDate,omitempty"`
}

// FridgeSummary is the aggregate view returned by a fridge-check analysis
type FridgeSummary struct {
	TotalItems   int      `json:"totalItems"`
	Categories   []string `json:"categories"`
	ExpiringSoon []string `json:"expiringSoon"` // detected item ids
}
