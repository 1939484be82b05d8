package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/config"
	"scholia_back_end/internal/database"
	"scholia_back_end/internal/handlers"
	"scholia_back_end/internal/routes"
	"scholia_back_end/internal/services"
)

func main() {
	config.Load()

	// Stripe sert uniquement à résoudre l'URL de la page de paiement
	// hébergée ; sans clé on retombe sur PAYMENT_PAGE_URL
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ Clé Stripe absente, résolution via PAYMENT_PAGE_URL")
	} else {
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()
	defer database.CloseScylla()

	// ✅ Prepared statements du journal de checkout
	database.InitPreparedStatements()

	store := cart.NewStore(
		cart.NewRedisPersistence(database.Redis),
		cart.NewRedisNotifier(database.Redis),
	)

	search := services.NewCatalogSearch()
	revalidator := services.NewRevalidationClient(store, config.APIBase(), search)
	journal := services.NewJournal()
	redirect := services.NewStripeRedirect(config.PaymentPageTemplate())
	submitter := services.NewCheckoutSubmitter(config.APIBase(), redirect, journal)

	h := handlers.NewHandler(store, revalidator, submitter, journal, search)

	r := gin.Default()
	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Scholia lancé sur le port", port)
	r.Run(":" + port)
}
