package cart

import (
	"context"
	"encoding/json"
	"log"

	"scholia_back_end/internal/models"
)

// Store possède l'état du panier. Chaque mutation relit la liste complète,
// la modifie puis la réécrit via le port de persistance (dernier écrivain
// gagnant entre onglets — limitation assumée, le flux websocket la rend
// visible sans la sérialiser).
type Store struct {
	persistence Persistence
	notifier    Notifier
}

// NewStore injecte le port de persistance et un notifier optionnel (nil ok)
func NewStore(p Persistence, n Notifier) *Store {
	return &Store{persistence: p, notifier: n}
}

// Items renvoie la liste courante. Stockage absent, injoignable ou JSON
// corrompu → panier vide, jamais d'erreur remontée à l'appelant.
func (s *Store) Items(ctx context.Context, cartID string) []models.CartItem {
	raw, err := s.persistence.Load(ctx, cartID)
	if err != nil {
		log.Printf("⚠️ Lecture panier %s impossible: %v", cartID, err)
		return []models.CartItem{}
	}
	if len(raw) == 0 {
		return []models.CartItem{}
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("⚠️ Panier %s corrompu, réinitialisé: %v", cartID, err)
		return []models.CartItem{}
	}
	if items == nil {
		return []models.CartItem{}
	}
	return items
}

// Add insère l'item sauf si un item de même ID existe déjà (no-op silencieux).
// Renvoie la liste résultante et true si l'item a réellement été ajouté.
func (s *Store) Add(ctx context.Context, cartID string, item models.CartItem) ([]models.CartItem, bool) {
	items := s.Items(ctx, cartID)

	for _, existing := range items {
		if existing.ID == item.ID {
			return items, false
		}
	}

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	items = append(items, item)

	s.persist(ctx, cartID, items)
	s.notify(ctx, cartID, "updated")
	return items, true
}

// Remove retire l'item correspondant ; no-op sans erreur si absent
func (s *Store) Remove(ctx context.Context, cartID, productID string) []models.CartItem {
	items := s.Items(ctx, cartID)

	next := make([]models.CartItem, 0, len(items))
	removed := false
	for _, item := range items {
		if item.ID == productID {
			removed = true
			continue
		}
		next = append(next, item)
	}

	if removed {
		s.persist(ctx, cartID, next)
		s.notify(ctx, cartID, "updated")
	}
	return next
}

// Clear vide le panier et remet le statut de revalidation à idle
func (s *Store) Clear(ctx context.Context, cartID string) {
	if err := s.persistence.Delete(ctx, cartID); err != nil {
		log.Printf("⚠️ Vidage panier %s non persisté: %v", cartID, err)
	}
	s.SetState(ctx, cartID, models.RevalidationState{Status: models.RevalidationIdle})
	s.notify(ctx, cartID, "cleared")
}

// Replace substitue la liste entière (utilisé par la revalidation)
func (s *Store) Replace(ctx context.Context, cartID string, items []models.CartItem) {
	s.persist(ctx, cartID, items)
	s.notify(ctx, cartID, "updated")
}

// State renvoie le dernier statut de revalidation persisté (idle par défaut)
func (s *Store) State(ctx context.Context, cartID string) models.RevalidationState {
	raw, err := s.persistence.LoadState(ctx, cartID)
	if err != nil || len(raw) == 0 {
		return models.RevalidationState{Status: models.RevalidationIdle}
	}
	var state models.RevalidationState
	if err := json.Unmarshal(raw, &state); err != nil || state.Status == "" {
		return models.RevalidationState{Status: models.RevalidationIdle}
	}
	return state
}

// SetState persiste le statut de revalidation (best-effort)
func (s *Store) SetState(ctx context.Context, cartID string, state models.RevalidationState) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := s.persistence.SaveState(ctx, cartID, raw); err != nil {
		log.Printf("⚠️ Statut revalidation %s non persisté: %v", cartID, err)
	}
}

// Total calcule le montant du panier (prix × quantité)
func Total(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// persist écrit la liste complète ; l'échec est loggé, jamais bloquant —
// le panier reste juste en mémoire de requête même si l'écriture échoue
func (s *Store) persist(ctx context.Context, cartID string, items []models.CartItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Printf("⚠️ Sérialisation panier %s impossible: %v", cartID, err)
		return
	}
	if err := s.persistence.Save(ctx, cartID, raw); err != nil {
		log.Printf("⚠️ Panier %s non persisté: %v", cartID, err)
	}
}

func (s *Store) notify(ctx context.Context, cartID, event string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, cartID, event)
	}
}
