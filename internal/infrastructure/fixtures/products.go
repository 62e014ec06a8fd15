package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/scancook/backend/internal/domain"
)

// unknownProductImage is the generic picture shown for unmapped barcodes
const unknownProductImage = "https://images.unsplash.com/photo-1598026595010-5c748532645b?auto=format&fit=crop&q=80&w=300"

// productTable maps barcodes to sample products, standing in for a real
// product database during development
var productTable = map[string]domain.Product{
	"3256540000080": {
		ID:       "1",
		Name:     "Lait demi-écrémé",
		Brand:    "Lactel",
		Barcode:  "3256540000080",
		Category: "Produits laitiers",
		ImageURL: "https://images.unsplash.com/photo-1564466809058-bf4114d55352?auto=format&fit=crop&q=80&w=300",
		Price:    1.15,
		Nutrients: &domain.Nutrients{
			Calories: 46,
			Protein:  3.2,
			Carbs:    4.8,
			Fat:      1.6,
		},
	},
	"3038350208705": {
		ID:       "2",
		Name:     "Pâtes complètes",
		Brand:    "Panzani",
		Barcode:  "3038350208705",
		Category: "Féculents",
		ImageURL: "https://images.unsplash.com/photo-1603729362753-f8162ac6c3df?auto=format&fit=crop&q=80&w=300",
		Price:    1.89,
		Nutrients: &domain.Nutrients{
			Calories: 350,
			Protein:  12,
			Carbs:    70,
			Fat:      2,
		},
	},
	"3560070976553": {
		ID:       "3",
		Name:     "Yaourt nature",
		Brand:    "Activia",
		Barcode:  "3560070976553",
		Category: "Produits laitiers",
		ImageURL: "https://images.unsplash.com/photo-1584278858536-52532423b9ea?auto=format&fit=crop&q=80&w=300",
		Price:    2.45,
		Nutrients: &domain.Nutrients{
			Calories: 59,
			Protein:  4.2,
			Carbs:    5.5,
			Fat:      3.0,
		},
	},
}

// ProductCatalog serves products from the fixed barcode table after a
// simulated network delay
type ProductCatalog struct {
	latency time.Duration
	now     func() time.Time
}

// NewProductCatalog creates a fixture-backed product catalog
func NewProductCatalog(latency time.Duration) *ProductCatalog {
	return &ProductCatalog{
		latency: latency,
		now:     time.Now,
	}
}

// FetchByBarcode returns the matching product, or a synthesized unknown
// product placeholder when the barcode is not in the table. It never reports
// "not found" as an error; the only error is context cancellation during the
// simulated delay.
func (c *ProductCatalog) FetchByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	if err := simulateLatency(ctx, c.latency); err != nil {
		return domain.Product{}, err
	}

	if product, ok := productTable[barcode]; ok {
		return product, nil
	}

	return domain.Product{
		ID:       fmt.Sprintf("%d", c.now().UnixMilli()),
		Name:     "Produit inconnu",
		Barcode:  barcode,
		Price:    0,
		ImageURL: unknownProductImage,
	}, nil
}

// simulateLatency blocks for the configured delay, honoring cancellation
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
