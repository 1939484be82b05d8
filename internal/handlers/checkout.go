package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"scholia_back_end/internal/cache"
	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/models"
	"scholia_back_end/internal/services"
	"scholia_back_end/internal/utils"
)

//
// 💳 POST /api/payment/checkout
//
func (h *Handler) Checkout(c *gin.Context) {
	cartID := c.GetString("cart_id")

	var contact models.ContactInfo
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	items := h.Store.Items(c.Request.Context(), cartID)

	result, err := h.Submitter.Submit(c.Request.Context(), cartID, contact, items)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingContact),
			errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrNoValidItems):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCheckoutInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			// Le détail (corps de la réponse amont inclus) part dans les
			// logs ; le front reçoit un message générique
			log.Printf("❌ Checkout panier %s échoué: %v", cartID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur lors de la création du paiement, réessayez"})
		}
		return
	}

	// Contact mémorisé pour l'email de confirmation du retour de paiement
	if err := cache.StoreCheckoutContact(cartID, contact.Email); err != nil {
		log.Printf("⚠️ Contact checkout non mémorisé pour %s: %v", cartID, err)
	}

	qr, err := utils.GeneratePaymentQR(result.URL)
	if err != nil {
		log.Printf("⚠️ QR de paiement non généré pour %s: %v", result.SessionID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": result.SessionID,
		"url":       result.URL,
		"qr":        qr,
	})
}

//
// ✅ GET /api/payment/success
//
func (h *Handler) Success(c *gin.Context) {
	cartID := c.GetString("cart_id")
	sessionID := c.Query("session_id")

	// Récap avant vidage pour l'email de confirmation
	items := h.Store.Items(c.Request.Context(), cartID)
	total := cart.Total(items)

	h.Store.Clear(c.Request.Context(), cartID)

	if sessionID != "" && h.Journal != nil {
		h.Journal.RecordSessionCompleted(sessionID)
	}

	email := cache.GetCheckoutContact(cartID)
	if email != "" && len(items) > 0 {
		go func() {
			if err := utils.SendCheckoutConfirmation(email, items, total); err != nil {
				log.Printf("⚠️ Email de confirmation non envoyé à %s: %v", email, err)
			}
		}()
		cache.ForgetCheckoutContact(cartID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Paiement confirmé, panier vidé",
	})
}
