package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/scancook/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Request type tags understood by the recommendation webhook
const (
	RequestTypeBarcodeScan    = "BARCODE_SCAN"
	RequestTypeTextQuery      = "TEXT_QUERY"
	RequestTypeImageAnalysis  = "IMAGE_ANALYSIS"
	RequestTypeRecommendation = "RECIPE_RECOMMENDATION"
)

// webhookRequest is the outbound envelope; the content shape varies by
// request type
type webhookRequest struct {
	UserID  string      `json:"user_id"`
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// Client handles communication with the recommendation webhook. Responses
// come back as raw JSON; shape detection belongs to the normalizer.
type Client struct {
	httpClient  *http.Client
	webhookURL  string
	userID      string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new recommender webhook client. requestsPerHour bounds
// the outbound call rate.
func NewClient(webhookURL, userID string, timeout time.Duration, requestsPerHour int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		webhookURL:  webhookURL,
		userID:      userID,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// RequestRecommendations asks the webhook for recipe suggestions given the
// scanned and fridge products plus the active filter tags
func (c *Client) RequestRecommendations(ctx context.Context, scanned []domain.Product, fridge []domain.FridgeItem, filters []string) (json.RawMessage, error) {
	fridgeProducts := make([]domain.Product, 0, len(fridge))
	for _, item := range fridge {
		fridgeProducts = append(fridgeProducts, item.Product)
	}

	content := map[string]interface{}{
		"scanned_products": scanned,
		"fridge_products":  fridgeProducts,
		"filters":          filters,
	}
	return c.post(ctx, RequestTypeRecommendation, content)
}

// AnalyzeFridgeImage submits a base64 fridge photo for content detection
func (c *Client) AnalyzeFridgeImage(ctx context.Context, imageBase64 string) (json.RawMessage, error) {
	content := map[string]interface{}{
		"image": imageBase64,
	}
	return c.post(ctx, RequestTypeImageAnalysis, content)
}

// NotifyScan reports a barcode scan event for recommendation context. The
// response body is ignored.
func (c *Client) NotifyScan(ctx context.Context, barcode, productName string) error {
	content := map[string]interface{}{
		"barcode":      barcode,
		"product_name": productName,
	}
	_, err := c.post(ctx, RequestTypeBarcodeScan, content)
	return err
}

// Query sends a free-text request to the webhook
func (c *Client) Query(ctx context.Context, message string) (json.RawMessage, error) {
	content := map[string]interface{}{
		"message": message,
	}
	return c.post(ctx, RequestTypeTextQuery, content)
}

// post executes the webhook call with rate limiting and up to 3 attempts for
// transient failures
func (c *Client) post(ctx context.Context, requestType string, content interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(webhookRequest{
		UserID:  c.userID,
		Type:    requestType,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[RECOMMENDER] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		respBody, err := c.doRequest(ctx, body)
		if err == nil {
			if c.debug {
				log.Printf("[RECOMMENDER] %s response: %s", requestType, truncate(respBody, 512))
			}
			return respBody, nil
		}

		log.Printf("[RECOMMENDER] %s request error (attempt %d): %v", requestType, attempt, err)
		lastErr = err

		if attempt < 3 {
			select {
			case <-time.After(exponentialBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	log.Printf("[RECOMMENDER] All retries failed for %s", requestType)
	return nil, lastErr
}

// doRequest executes a single HTTP POST against the webhook
func (c *Client) doRequest(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ScanCook/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommenderFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrRecommenderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrRecommenderFailure, resp.StatusCode, truncate(respBody, 256))
	}

	return respBody, nil
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
