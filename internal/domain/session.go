package domain

import "time"

// SessionState holds the per-session application state: everything the mobile
// app shows lives here for the duration of the session, nothing is persisted.
type SessionState struct {
	ID               string         `json:"id"`
	ScannedProducts  []Product      `json:"scannedProducts"`
	LastScanned      *Product       `json:"lastScanned,omitempty"`
	CartItems        []CartItem     `json:"cartItems"`
	FridgeItems      []FridgeItem   `json:"fridgeItems"`
	SuggestedRecipes []Recipe       `json:"suggestedRecipes"`
	FridgeSummary    *FridgeSummary `json:"fridgeSummary,omitempty"`
	FirstVisit       bool           `json:"firstVisit"`
	LastActive       time.Time      `json:"-"`
}

// AddScannedProduct appends the product to the scanned list unless its id is
// already present, and marks it as last scanned either way. Returns true when
// the product was actually appended.
func (s *SessionState) AddScannedProduct(p Product) bool {
	last := p
	s.LastScanned = &last

	for _, existing := range s.ScannedProducts {
		if existing.ID == p.ID {
			return false
		}
	}
	s.ScannedProducts = append(s.ScannedProducts, p)
	return true
}

// AddToCart inserts a cart entry, or merges quantities when an entry with the
// same product id already exists
func (s *SessionState) AddToCart(p Product, quantity int) {
	for _, item := range s.CartItems {
		if item.Product.ID == p.ID {
			s.UpdateCartItemQuantity(p.ID, item.Quantity+quantity)
			return
		}
	}
	s.CartItems = append(s.CartItems, CartItem{Product: p, Quantity: quantity})
}

// UpdateCartItemQuantity replaces the quantity in place, preserving position.
// A quantity of zero or less removes the entry entirely. Returns true when an
// entry was actually touched; absent ids are a no-op.
func (s *SessionState) UpdateCartItemQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveFromCart(productID)
	}
	for i, item := range s.CartItems {
		if item.Product.ID == productID {
			s.CartItems[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveFromCart deletes the entry if present. Returns true when an entry was
// removed; absent ids are a no-op.
func (s *SessionState) RemoveFromCart(productID string) bool {
	for i, item := range s.CartItems {
		if item.Product.ID == productID {
			s.CartItems = append(s.CartItems[:i], s.CartItems[i+1:]...)
			return true
		}
	}
	return false
}

// AddToFridge inserts a fridge entry, or merges quantities on duplicate
// product id. The expiry only applies to newly inserted entries.
func (s *SessionState) AddToFridge(p Product, quantity int, expiry *time.Time) {
	for _, item := range s.FridgeItems {
		if item.Product.ID == p.ID {
			s.UpdateFridgeItemQuantity(p.ID, item.Quantity+quantity)
			return
		}
	}
	s.FridgeItems = append(s.FridgeItems, FridgeItem{Product: p, Quantity: quantity, Expiry: expiry})
}

// UpdateFridgeItemQuantity replaces the quantity in place; zero or less
// removes. Returns true when an entry was actually touched.
func (s *SessionState) UpdateFridgeItemQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveFromFridge(productID)
	}
	for i, item := range s.FridgeItems {
		if item.Product.ID == productID {
			s.FridgeItems[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveFromFridge deletes the entry if present. Returns true when an entry
// was removed; absent ids are a no-op.
func (s *SessionState) RemoveFromFridge(productID string) bool {
	for i, item := range s.FridgeItems {
		if item.Product.ID == productID {
			s.FridgeItems = append(s.FridgeItems[:i], s.FridgeItems[i+1:]...)
			return true
		}
	}
	return false
}

// AddRecipeToCart adds every ingredient of the recipe to the cart at quantity
// 1 each. Each ingredient add is independent; there is no atomicity to speak
// of since in-memory adds cannot fail.
func (s *SessionState) AddRecipeToCart(r Recipe) {
	for _, ingredient := range r.Ingredients {
		s.AddToCart(ingredient, 1)
	}
}

// SetSuggestedRecipes replaces the suggestion list wholesale
func (s *SessionState) SetSuggestedRecipes(recipes []Recipe) {
	s.SuggestedRecipes = recipes
}

// Snapshot returns a copy of the state with detached slices, safe to hand out
// after the session lock is released
func (s *SessionState) Snapshot() SessionState {
	snap := *s
	snap.ScannedProducts = append([]Product(nil), s.ScannedProducts...)
	snap.CartItems = append([]CartItem(nil), s.CartItems...)
	snap.FridgeItems = append([]FridgeItem(nil), s.FridgeItems...)
	snap.SuggestedRecipes = append([]Recipe(nil), s.SuggestedRecipes...)
	if s.LastScanned != nil {
		last := *s.LastScanned
		snap.LastScanned = &last
	}
	if s.FridgeSummary != nil {
		summary := *s.FridgeSummary
		snap.FridgeSummary = &summary
	}
	return snap
}
