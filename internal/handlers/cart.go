package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/models"
	"scholia_back_end/internal/services"
	"scholia_back_end/internal/utils"
)

// Handler regroupe les dépendances injectées des routes de la vitrine
type Handler struct {
	Store       *cart.Store
	Revalidator *services.RevalidationClient
	Submitter   *services.CheckoutSubmitter
	Journal     *services.Journal
	Search      *services.CatalogSearch
}

func NewHandler(store *cart.Store, revalidator *services.RevalidationClient, submitter *services.CheckoutSubmitter, journal *services.Journal, search *services.CatalogSearch) *Handler {
	return &Handler{
		Store:       store,
		Revalidator: revalidator,
		Submitter:   submitter,
		Journal:     journal,
		Search:      search,
	}
}

//
// 🎫 POST /api/cart/session
//
func (h *Handler) CreateSession(c *gin.Context) {
	cartID := uuid.NewString()

	token, err := utils.GenerateCartToken(cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_id": cartID,
		"token":   token,
	})
}

//
// 🛒 GET /api/cart
//
func (h *Handler) GetCart(c *gin.Context) {
	cartID := c.GetString("cart_id")

	items := h.Store.Items(c.Request.Context(), cartID)
	state := h.Store.State(c.Request.Context(), cartID)

	// Images du bucket média → URLs signées à durée limitée
	for i := range items {
		items[i].Image = services.SignedImageURL(c.Request.Context(), items[i].Image)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  cart.Total(items),
		"status": state.Status,
		"error":  state.Error,
	})
}

//
// 🟢 POST /api/cart/add
//
func (h *Handler) AddToCart(c *gin.Context) {
	cartID := c.GetString("cart_id")

	var input struct {
		ID          string             `json:"id"`
		ProductType models.ProductType `json:"productType"`
		Title       string             `json:"title"`
		Subtitle    string             `json:"subtitle"`
		Image       string             `json:"image"`
		Price       models.FlexFloat   `json:"price"`
		Quantity    int                `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit requis"})
		return
	}
	if !input.ProductType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de produit invalide"})
		return
	}

	item := models.CartItem{
		ID:          input.ID,
		ProductType: input.ProductType,
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Image:       input.Image,
		Price:       input.Price.Value,
		Quantity:    input.Quantity,
	}

	items, added := h.Store.Add(c.Request.Context(), cartID, item)

	message := "Produit ajouté au panier"
	if !added {
		// Doublon : no-op silencieux, au plus une ligne par produit
		message = "Produit déjà dans le panier"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"items":   items,
		"total":   cart.Total(items),
	})
}

//
// ❌ DELETE /api/cart/:productId
//
func (h *Handler) RemoveFromCart(c *gin.Context) {
	cartID := c.GetString("cart_id")
	productID := c.Param("productId")

	items := h.Store.Remove(c.Request.Context(), cartID, productID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   items,
		"total":   cart.Total(items),
	})
}

//
// 🧹 DELETE /api/cart/clear
//
func (h *Handler) ClearCart(c *gin.Context) {
	cartID := c.GetString("cart_id")

	h.Store.Clear(c.Request.Context(), cartID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé avec succès",
	})
}

//
// 🔄 POST /api/cart/revalidate
//
func (h *Handler) Revalidate(c *gin.Context) {
	cartID := c.GetString("cart_id")

	items, err := h.Revalidator.Revalidate(c.Request.Context(), cartID)
	if err != nil {
		// Le panier stocké reste intact, le front peut réessayer
		state := h.Store.State(c.Request.Context(), cartID)
		message := state.Error
		if message == "" {
			message = "Impossible de revalider le panier, réessayez plus tard"
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  message,
			"status": models.RevalidationFailed,
		})
		return
	}

	for i := range items {
		items[i].Image = services.SignedImageURL(c.Request.Context(), items[i].Image)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  cart.Total(items),
		"status": models.RevalidationSucceeded,
	})
}
