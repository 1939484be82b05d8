package routes

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"scholia_back_end/internal/handlers"
	"scholia_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api", middleware.APIRateLimit())

	// Session panier invité (point d'entrée, pas de jeton requis)
	api.POST("/cart/session", h.CreateSession)

	// Recherche catalogue (publique)
	api.GET("/catalog/search", middleware.SearchRateLimit(), h.SearchCatalog)

	// Tout le reste est rattaché à un panier identifié par son jeton
	authed := api.Group("", middleware.CartTokenRequired())
	{
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/add", middleware.CartRateLimit(), h.AddToCart)
		authed.DELETE("/cart/clear", h.ClearCart)
		authed.DELETE("/cart/:productId", h.RemoveFromCart)
		authed.POST("/cart/revalidate", h.Revalidate)
		authed.GET("/cart/ws", h.CartWebSocket)

		authed.POST("/payment/checkout", middleware.CheckoutRateLimit(), h.Checkout)
		authed.GET("/payment/success", h.Success)
	}
}
