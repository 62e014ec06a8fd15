package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scancook/backend/internal/domain"
	"github.com/scancook/backend/internal/infrastructure/session"
)

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mutex         sync.Mutex
	notifications []domain.Notification
}

func (n *recordingNotifier) Notify(sessionID string, notification domain.Notification) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) last(t *testing.T) domain.Notification {
	t.Helper()
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if len(n.notifications) == 0 {
		t.Fatalf("no notifications recorded")
	}
	return n.notifications[len(n.notifications)-1]
}

func (n *recordingNotifier) count() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.notifications)
}

func newTestStateService(t *testing.T) (*StateService, *recordingNotifier, string) {
	t.Helper()

	notifier := &recordingNotifier{}
	service := NewStateService(session.NewMemoryStore(time.Hour), notifier)

	state, err := service.NewSession(context.Background())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return service, notifier, state.ID
}

func TestStateService_AddToCart_MergesAndNotifies(t *testing.T) {
	service, notifier, sessionID := newTestStateService(t)
	ctx := context.Background()
	milk := domain.Product{ID: "1", Name: "Lait demi-écrémé"}

	state, err := service.AddToCart(ctx, sessionID, milk, 1)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if len(state.CartItems) != 1 || state.CartItems[0].Quantity != 1 {
		t.Fatalf("CartItems = %+v, want one entry qty 1", state.CartItems)
	}

	// Notification fires synchronously with the mutation
	n := notifier.last(t)
	if n.Level != "success" {
		t.Errorf("notification level = %q, want success", n.Level)
	}

	state, err = service.AddToCart(ctx, sessionID, milk, 2)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if len(state.CartItems) != 1 {
		t.Fatalf("CartItems length = %d, want 1 after duplicate add", len(state.CartItems))
	}
	if state.CartItems[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3 (sum of additions)", state.CartItems[0].Quantity)
	}
}

func TestStateService_AddToCart_DefaultQuantity(t *testing.T) {
	service, _, sessionID := newTestStateService(t)

	state, err := service.AddToCart(context.Background(), sessionID, domain.Product{ID: "1", Name: "Lait"}, 0)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	if state.CartItems[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want default 1", state.CartItems[0].Quantity)
	}
}

func TestStateService_UpdateCartItemQuantity_RemovesAtZero(t *testing.T) {
	service, notifier, sessionID := newTestStateService(t)
	ctx := context.Background()

	service.AddToCart(ctx, sessionID, domain.Product{ID: "1", Name: "Lait"}, 4)
	service.AddToCart(ctx, sessionID, domain.Product{ID: "2", Name: "Pâtes"}, 1)

	state, err := service.UpdateCartItemQuantity(ctx, sessionID, "1", 0)
	if err != nil {
		t.Fatalf("UpdateCartItemQuantity() error = %v", err)
	}
	if len(state.CartItems) != 1 {
		t.Errorf("CartItems length = %d, want 1 (entry removed regardless of prior quantity)", len(state.CartItems))
	}

	n := notifier.last(t)
	if n.Level != "info" {
		t.Errorf("removal notification level = %q, want info", n.Level)
	}
}

func TestStateService_AddScannedProduct_DuplicateIsQuiet(t *testing.T) {
	service, notifier, sessionID := newTestStateService(t)
	ctx := context.Background()
	milk := domain.Product{ID: "1", Name: "Lait demi-écrémé"}

	if _, err := service.AddScannedProduct(ctx, sessionID, milk); err != nil {
		t.Fatalf("AddScannedProduct() error = %v", err)
	}
	countAfterFirst := notifier.count()

	state, err := service.AddScannedProduct(ctx, sessionID, milk)
	if err != nil {
		t.Fatalf("AddScannedProduct() duplicate error = %v, want nil (no-op)", err)
	}
	if len(state.ScannedProducts) != 1 {
		t.Errorf("ScannedProducts length = %d, want 1", len(state.ScannedProducts))
	}
	if state.LastScanned == nil || state.LastScanned.ID != "1" {
		t.Errorf("LastScanned = %v, want product 1 refreshed", state.LastScanned)
	}
	if notifier.count() != countAfterFirst {
		t.Errorf("duplicate scan emitted a notification, want none")
	}
}

func TestStateService_Fridge(t *testing.T) {
	service, _, sessionID := newTestStateService(t)
	ctx := context.Background()
	expiry := time.Now().AddDate(0, 0, 5)

	state, err := service.AddToFridge(ctx, sessionID, domain.Product{ID: "1", Name: "Lait"}, 1, &expiry)
	if err != nil {
		t.Fatalf("AddToFridge() error = %v", err)
	}
	if len(state.FridgeItems) != 1 || state.FridgeItems[0].Expiry == nil {
		t.Fatalf("FridgeItems = %+v, want one entry with expiry", state.FridgeItems)
	}

	state, _ = service.AddToFridge(ctx, sessionID, domain.Product{ID: "1", Name: "Lait"}, 2, nil)
	if state.FridgeItems[0].Quantity != 3 {
		t.Errorf("merged Quantity = %d, want 3", state.FridgeItems[0].Quantity)
	}

	state, _ = service.UpdateFridgeItemQuantity(ctx, sessionID, "1", -1)
	if len(state.FridgeItems) != 0 {
		t.Errorf("FridgeItems length = %d, want 0 after negative update", len(state.FridgeItems))
	}
}

func TestStateService_AddRecipeToCart(t *testing.T) {
	service, notifier, sessionID := newTestStateService(t)

	recipe := domain.Recipe{
		ID:   "1",
		Name: "Pasta Carbonara",
		Ingredients: []domain.Product{
			{ID: "2", Name: "Pâtes complètes"},
			{ID: "3", Name: "Œufs"},
		},
	}

	state, err := service.AddRecipeToCart(context.Background(), sessionID, recipe)
	if err != nil {
		t.Fatalf("AddRecipeToCart() error = %v", err)
	}
	if len(state.CartItems) != 2 {
		t.Fatalf("CartItems length = %d, want 2", len(state.CartItems))
	}
	for _, item := range state.CartItems {
		if item.Quantity != 1 {
			t.Errorf("bundle ingredient %s quantity = %d, want 1", item.Product.ID, item.Quantity)
		}
	}

	n := notifier.last(t)
	if n.Level != "success" {
		t.Errorf("bundle notification level = %q, want success", n.Level)
	}
}

func TestStateService_UnknownSession(t *testing.T) {
	service, _, _ := newTestStateService(t)

	_, err := service.AddToCart(context.Background(), "nope", domain.Product{ID: "1"}, 1)
	if err == nil {
		t.Errorf("AddToCart() with unknown session error = nil, want ErrSessionNotFound")
	}
}

func TestStateService_AbsentEntryMutationsAreQuiet(t *testing.T) {
	service, notifier, sessionID := newTestStateService(t)
	ctx := context.Background()

	service.AddToCart(ctx, sessionID, domain.Product{ID: "1", Name: "Lait"}, 1)
	before := notifier.count()

	// None of these touch an entry, so none may claim a change happened
	if _, err := service.UpdateCartItemQuantity(ctx, sessionID, "ghost", 5); err != nil {
		t.Fatalf("UpdateCartItemQuantity() error = %v", err)
	}
	if _, err := service.RemoveFromCart(ctx, sessionID, "ghost"); err != nil {
		t.Fatalf("RemoveFromCart() error = %v", err)
	}
	if _, err := service.UpdateFridgeItemQuantity(ctx, sessionID, "ghost", 5); err != nil {
		t.Fatalf("UpdateFridgeItemQuantity() error = %v", err)
	}
	if _, err := service.RemoveFromFridge(ctx, sessionID, "ghost"); err != nil {
		t.Fatalf("RemoveFromFridge() error = %v", err)
	}

	if got := notifier.count(); got != before {
		t.Errorf("notifications after no-op mutations = %d, want %d", got, before)
	}

	// A real update still announces itself
	if _, err := service.UpdateCartItemQuantity(ctx, sessionID, "1", 5); err != nil {
		t.Fatalf("UpdateCartItemQuantity() error = %v", err)
	}
	if got := notifier.count(); got != before+1 {
		t.Errorf("notifications after real update = %d, want %d", got, before+1)
	}
}

func TestStateService_ClientStateConsumesFirstVisit(t *testing.T) {
	service, _, sessionID := newTestStateService(t)
	ctx := context.Background()

	// Internal reads leave the flag alone
	for i := 0; i < 2; i++ {
		state, err := service.GetState(ctx, sessionID)
		if err != nil {
			t.Fatalf("GetState() error = %v", err)
		}
		if !state.FirstVisit {
			t.Fatalf("GetState() #%d FirstVisit = false, want true (internal reads must not consume)", i+1)
		}
	}

	state, err := service.ClientState(ctx, sessionID)
	if err != nil {
		t.Fatalf("ClientState() error = %v", err)
	}
	if !state.FirstVisit {
		t.Errorf("first ClientState() FirstVisit = false, want true")
	}

	state, _ = service.ClientState(ctx, sessionID)
	if state.FirstVisit {
		t.Errorf("second ClientState() FirstVisit = true, want false")
	}
}
