package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// 🔍 GET /api/catalog/search?q=
//
func (h *Handler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	hits, err := h.Search.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche catalogue indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": hits,
		"count":   len(hits),
	})
}
