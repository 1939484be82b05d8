package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/database"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket diffuse les changements de panier en temps réel. Chaque
// onglet abonné reçoit le panier complet après toute mutation : les
// écritures concurrentes restent en dernier-écrivain-gagnant, mais tous
// les onglets convergent vers le même état.
func (h *Handler) CartWebSocket(c *gin.Context) {
	cartID := c.GetString("cart_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal Redis de ce panier
	pubsub := database.Redis.Subscribe(ctx, "cart:"+cartID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			items := h.Store.Items(ctx, cartID)
			state := h.Store.State(ctx, cartID)

			response := map[string]interface{}{
				"type":   "cart_updated",
				"items":  items,
				"total":  cart.Total(items),
				"count":  len(items),
				"status": state.Status,
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
