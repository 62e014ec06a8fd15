package http

import (
	"github.com/gin-gonic/gin"
	"github.com/scancook/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", handler.CreateSession)
		v1.GET("/session", handler.GetSession)

		v1.POST("/scan", handler.ScanBarcode)

		cart := v1.Group("/cart")
		{
			cart.POST("/items", handler.AddCartItem)
			cart.PATCH("/items/:id", handler.UpdateCartItem)
			cart.DELETE("/items/:id", handler.RemoveCartItem)
			cart.POST("/recipe", handler.AddRecipeToCart)
		}

		fridge := v1.Group("/fridge")
		{
			fridge.POST("/items", handler.AddFridgeItem)
			fridge.PATCH("/items/:id", handler.UpdateFridgeItem)
			fridge.DELETE("/items/:id", handler.RemoveFridgeItem)
			fridge.POST("/check", handler.FridgeCheck)
		}

		v1.GET("/suggestions", handler.GetSuggestions)
		v1.GET("/recipes/:id", handler.GetRecipe)

		v1.GET("/ws/notifications", handler.Notifications)
	}

	return router
}
