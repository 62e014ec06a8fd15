package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/scancook/backend/internal/domain"
	"github.com/scancook/backend/internal/infrastructure/notify"
	"github.com/scancook/backend/internal/usecase"
)

// sessionHeader carries the session id on every stateful request
const sessionHeader = "X-Session-ID"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	state       *usecase.StateService
	scans       *usecase.ScanService
	suggestions *usecase.SuggestionService
	hub         *notify.Hub
	upgrader    websocket.Upgrader
}

// NewHandler creates a new HTTP handler
func NewHandler(state *usecase.StateService, scans *usecase.ScanService, suggestions *usecase.SuggestionService, hub *notify.Hub, allowedOrigins []string) *Handler {
	return &Handler{
		state:       state,
		scans:       scans,
		suggestions: suggestions,
		hub:         hub,
		upgrader: websocket.Upgrader{
			// The CORS middleware only withholds headers; the upgrade has to
			// vet browser origins itself. No Origin header means a
			// non-browser client.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return isAllowedOrigin(origin, allowedOrigins)
			},
		},
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scancook-backend",
		"version": "1.0.0",
	})
}

// CreateSession allocates a new session and returns its initial state
func (h *Handler) CreateSession(c *gin.Context) {
	state, err := h.state.NewSession(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetSession returns the current session snapshot. The firstVisit flag is
// reported once and cleared by this read; internal state reads never touch it.
func (h *Handler) GetSession(c *gin.Context) {
	state, err := h.state.ClientState(c.Request.Context(), h.sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type scanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// ScanBarcode resolves a barcode and records the product in the session.
// Codes that do not look like EAN barcodes are ignored, not rejected: the
// scanner keeps running and the response says so.
func (h *Handler) ScanBarcode(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	product, state, err := h.scans.Scan(c.Request.Context(), h.sessionID(c), req.Barcode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBarcode) {
			c.JSON(http.StatusOK, gin.H{"ignored": true})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"state":   state,
	})
}

type cartItemRequest struct {
	Product  domain.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity"`
}

// AddCartItem adds a product to the cart (quantity defaults to 1)
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product with id is required"})
		return
	}

	state, err := h.state.AddToCart(c.Request.Context(), h.sessionID(c), req.Product, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a cart entry's quantity; zero or less removes the entry
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	state, err := h.state.UpdateCartItemQuantity(c.Request.Context(), h.sessionID(c), c.Param("id"), req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveCartItem deletes a cart entry; absent ids are a no-op
func (h *Handler) RemoveCartItem(c *gin.Context) {
	state, err := h.state.RemoveFromCart(c.Request.Context(), h.sessionID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type recipeToCartRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
	Servings int    `json:"servings"`
}

// AddRecipeToCart bundles a recipe's ingredients into the cart
func (h *Handler) AddRecipeToCart(c *gin.Context) {
	var req recipeToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeId is required"})
		return
	}

	state, err := h.suggestions.AddRecipeToCart(c.Request.Context(), h.sessionID(c), req.RecipeID, req.Servings)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type fridgeItemRequest struct {
	Product  domain.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity"`
	Expiry   *time.Time     `json:"expiryDate"`
}

// AddFridgeItem adds a product to the fridge (quantity defaults to 1)
func (h *Handler) AddFridgeItem(c *gin.Context) {
	var req fridgeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product with id is required"})
		return
	}

	state, err := h.state.AddToFridge(c.Request.Context(), h.sessionID(c), req.Product, req.Quantity, req.Expiry)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdateFridgeItem sets a fridge entry's quantity; zero or less removes it
func (h *Handler) UpdateFridgeItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	state, err := h.state.UpdateFridgeItemQuantity(c.Request.Context(), h.sessionID(c), c.Param("id"), req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveFridgeItem deletes a fridge entry; absent ids are a no-op
func (h *Handler) RemoveFridgeItem(c *gin.Context) {
	state, err := h.state.RemoveFromFridge(c.Request.Context(), h.sessionID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type fridgeCheckRequest struct {
	Image string `json:"image" binding:"required"` // base64 photo
}

// FridgeCheck analyzes a fridge photo and merges detected items into the
// session fridge
func (h *Handler) FridgeCheck(c *gin.Context) {
	var req fridgeCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	items, summary, state, err := h.suggestions.CheckFridge(c.Request.Context(), h.sessionID(c), req.Image)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detectedItems": items,
		"summary":       summary,
		"state":         state,
	})
}

// GetSuggestions fetches recipe suggestions, optionally filtered by tags
// (comma-separated)
func (h *Handler) GetSuggestions(c *gin.Context) {
	var filters []string
	if tags := c.Query("tags"); tags != "" {
		filters = strings.Split(tags, ",")
	}

	recipes, err := h.suggestions.Suggest(c.Request.Context(), h.sessionID(c), filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns one recipe, scaled to the requested serving count
func (h *Handler) GetRecipe(c *gin.Context) {
	servings, _ := strconv.Atoi(c.Query("servings"))

	recipe, err := h.suggestions.RecipeDetail(c.Request.Context(), c.Param("id"), servings)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Notifications upgrades the connection to a websocket and streams the
// session's mutation notifications until the client disconnects
func (h *Handler) Notifications(c *gin.Context) {
	sessionID := h.sessionID(c)
	if _, err := h.state.GetState(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[NOTIFY] websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(sessionID, conn)
	defer h.hub.Unregister(sessionID, conn)

	// Drain client frames; the stream is server-to-client only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// sessionID extracts the session id from the request. Websocket clients
// cannot always set headers, so a query parameter works as fallback.
func (h *Handler) sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	return c.Query("session")
}

// fail maps domain errors to HTTP status codes
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
	case errors.Is(err, domain.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
