package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/scancook/backend/internal/domain"
)

// StateService is the single source of truth for session state. Every
// mutation goes through the session repository's serialized Update, emits a
// user-facing notification synchronously, and returns the new snapshot.
type StateService struct {
	sessions domain.SessionRepository
	notifier domain.Notifier
}

// NewStateService creates a new state service with dependencies
func NewStateService(sessions domain.SessionRepository, notifier domain.Notifier) *StateService {
	return &StateService{
		sessions: sessions,
		notifier: notifier,
	}
}

// NewSession allocates a fresh session
func (s *StateService) NewSession(ctx context.Context) (domain.SessionState, error) {
	return s.sessions.Create(ctx)
}

// GetState returns the current session snapshot without side effects
func (s *StateService) GetState(ctx context.Context, sessionID string) (domain.SessionState, error) {
	return s.sessions.Get(ctx, sessionID)
}

// ClientState returns the session snapshot for the client and consumes the
// one-shot first-visit flag: this snapshot reports it, later reads will not.
// Internal reads go through GetState and never touch the flag.
func (s *StateService) ClientState(ctx context.Context, sessionID string) (domain.SessionState, error) {
	var firstVisit bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		firstVisit = st.FirstVisit
		st.FirstVisit = false
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	state.FirstVisit = firstVisit
	return state, nil
}

// EndSession discards a session
func (s *StateService) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// AddScannedProduct records a scan. Re-scanning an already-seen product only
// refreshes "last scanned"; the notification fires for new products only.
func (s *StateService) AddScannedProduct(ctx context.Context, sessionID string, product domain.Product) (domain.SessionState, error) {
	var added bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		added = st.AddScannedProduct(product)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if added {
		s.notify(sessionID, "success", fmt.Sprintf("%s a été scanné", product.Name))
	}
	return state, nil
}

// AddToCart adds a product to the cart, merging quantities on duplicate ids.
// A non-positive quantity defaults to 1.
func (s *StateService) AddToCart(ctx context.Context, sessionID string, product domain.Product, quantity int) (domain.SessionState, error) {
	if quantity <= 0 {
		quantity = 1
	}

	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		st.AddToCart(product, quantity)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	s.notify(sessionID, "success", fmt.Sprintf("%s a été ajouté au panier", product.Name))
	return state, nil
}

// UpdateCartItemQuantity sets a cart entry's quantity; zero or less removes
// it. The notification only fires when an entry was actually touched.
func (s *StateService) UpdateCartItemQuantity(ctx context.Context, sessionID, productID string, quantity int) (domain.SessionState, error) {
	var changed bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		changed = st.UpdateCartItemQuantity(productID, quantity)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if changed {
		if quantity <= 0 {
			s.notify(sessionID, "info", "Produit retiré du panier")
		} else {
			s.notify(sessionID, "info", "Quantité mise à jour")
		}
	}
	return state, nil
}

// RemoveFromCart deletes a cart entry; absent ids are a quiet no-op
func (s *StateService) RemoveFromCart(ctx context.Context, sessionID, productID string) (domain.SessionState, error) {
	var removed bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		removed = st.RemoveFromCart(productID)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if removed {
		s.notify(sessionID, "info", "Produit retiré du panier")
	}
	return state, nil
}

// AddToFridge adds a product to the fridge, merging quantities on duplicate
// ids. A non-positive quantity defaults to 1.
func (s *StateService) AddToFridge(ctx context.Context, sessionID string, product domain.Product, quantity int, expiry *time.Time) (domain.SessionState, error) {
	if quantity <= 0 {
		quantity = 1
	}

	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		st.AddToFridge(product, quantity, expiry)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	s.notify(sessionID, "success", fmt.Sprintf("%s a été ajouté à votre frigo", product.Name))
	return state, nil
}

// UpdateFridgeItemQuantity sets a fridge entry's quantity; zero or less
// removes it. The notification only fires when an entry was actually touched.
func (s *StateService) UpdateFridgeItemQuantity(ctx context.Context, sessionID, productID string, quantity int) (domain.SessionState, error) {
	var changed bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		changed = st.UpdateFridgeItemQuantity(productID, quantity)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if changed {
		if quantity <= 0 {
			s.notify(sessionID, "info", "Produit retiré du frigo")
		} else {
			s.notify(sessionID, "info", "Quantité mise à jour")
		}
	}
	return state, nil
}

// RemoveFromFridge deletes a fridge entry; absent ids are a quiet no-op
func (s *StateService) RemoveFromFridge(ctx context.Context, sessionID, productID string) (domain.SessionState, error) {
	var removed bool
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		removed = st.RemoveFromFridge(productID)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if removed {
		s.notify(sessionID, "info", "Produit retiré du frigo")
	}
	return state, nil
}

// AddRecipeToCart bundles every ingredient of the recipe into the cart at
// quantity 1 each
func (s *StateService) AddRecipeToCart(ctx context.Context, sessionID string, recipe domain.Recipe) (domain.SessionState, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		st.AddRecipeToCart(recipe)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	s.notify(sessionID, "success", fmt.Sprintf("Les ingrédients de %s ont été ajoutés au panier", recipe.Name))
	return state, nil
}

// SetSuggestedRecipes replaces the suggestion list wholesale
func (s *StateService) SetSuggestedRecipes(ctx context.Context, sessionID string, recipes []domain.Recipe) (domain.SessionState, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		st.SetSuggestedRecipes(recipes)
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	s.notify(sessionID, "info", fmt.Sprintf("%d recettes suggérées", len(recipes)))
	return state, nil
}

// MergeFridgeItems adds every detected fridge item to the session fridge and
// records the analysis summary
func (s *StateService) MergeFridgeItems(ctx context.Context, sessionID string, items []domain.FridgeItem, summary *domain.FridgeSummary) (domain.SessionState, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) {
		for _, item := range items {
			st.AddToFridge(item.Product, item.Quantity, item.Expiry)
		}
		if summary != nil {
			st.FridgeSummary = summary
		}
	})
	if err != nil {
		return domain.SessionState{}, err
	}

	if len(items) > 0 {
		s.notify(sessionID, "success", fmt.Sprintf("%d produits détectés dans votre frigo", len(items)))
	}
	return state, nil
}

func (s *StateService) notify(sessionID, level, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(sessionID, domain.Notification{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
}
