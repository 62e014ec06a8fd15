package domain

import (
	"context"
	"encoding/json"
	"time"
)

// SessionRepository defines the interface for session state storage. Update
// runs the mutation under the store's lock and returns the resulting
// snapshot, so callers never hold live state across requests.
type SessionRepository interface {
	Create(ctx context.Context) (SessionState, error)
	Get(ctx context.Context, id string) (SessionState, error)
	Update(ctx context.Context, id string, mutate func(*SessionState)) (SessionState, error)
	Delete(ctx context.Context, id string) error
}

// ProductCatalog defines the interface for barcode product lookup. A lookup
// never fails for "not found": unmapped barcodes yield a placeholder product.
type ProductCatalog interface {
	FetchByBarcode(ctx context.Context, barcode string) (Product, error)
}

// RecipeSource defines the interface for the local recipe table used as a
// fallback when the recommender is unreachable
type RecipeSource interface {
	FetchRecommended(ctx context.Context, scanned []Product, filters []string) ([]Recipe, error)
	FetchByID(ctx context.Context, id string) (*Recipe, error)
}

// RecommenderClient defines the interface for the remote recommendation
// webhook. Responses are opaque JSON handed to the normalizer.
type RecommenderClient interface {
	RequestRecommendations(ctx context.Context, scanned []Product, fridge []FridgeItem, filters []string) (json.RawMessage, error)
	AnalyzeFridgeImage(ctx context.Context, imageBase64 string) (json.RawMessage, error)
	NotifyScan(ctx context.Context, barcode, productName string) error
	Query(ctx context.Context, message string) (json.RawMessage, error)
}

// Notification is a user-facing message describing a state change
type Notification struct {
	Level   string    `json:"level"` // "success" or "info"
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier broadcasts notifications to the session's connected clients
type Notifier interface {
	Notify(sessionID string, n Notification)
}
