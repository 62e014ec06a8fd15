package usecase

import (
	"context"
	"log"
	"regexp"
	"time"

	"github.com/scancook/backend/internal/domain"
)

// barcodeRegex matches EAN-8 and EAN-13 codes, the formats the mobile
// scanner decodes. Anything else is ignored and scanning continues.
var barcodeRegex = regexp.MustCompile(`^(\d{8}|\d{13})$`)

// ScanService resolves scanned barcodes to products and records them in the
// session
type ScanService struct {
	catalog     domain.ProductCatalog
	state       *StateService
	recommender domain.RecommenderClient
}

// NewScanService creates a new scan service. The recommender is optional;
// when present each scan is reported to it for recommendation context.
func NewScanService(catalog domain.ProductCatalog, state *StateService, recommender domain.RecommenderClient) *ScanService {
	return &ScanService{
		catalog:     catalog,
		state:       state,
		recommender: recommender,
	}
}

// Scan validates the barcode, resolves it against the catalog and records the
// product in the session. Invalid codes return domain.ErrInvalidBarcode so
// the handler can drop them silently.
func (s *ScanService) Scan(ctx context.Context, sessionID, barcode string) (domain.Product, domain.SessionState, error) {
	if !barcodeRegex.MatchString(barcode) {
		return domain.Product{}, domain.SessionState{}, domain.ErrInvalidBarcode
	}

	product, err := s.catalog.FetchByBarcode(ctx, barcode)
	if err != nil {
		return domain.Product{}, domain.SessionState{}, err
	}

	state, err := s.state.AddScannedProduct(ctx, sessionID, product)
	if err != nil {
		return domain.Product{}, domain.SessionState{}, err
	}

	// Report the scan for recommendation context. Failures only lose
	// context, never the scan itself.
	if s.recommender != nil {
		go func() {
			reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.recommender.NotifyScan(reportCtx, barcode, product.Name); err != nil {
				log.Printf("[SCAN] scan report failed: %v", err)
			}
		}()
	}

	return product, state, nil
}
