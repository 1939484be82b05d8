package cache

import (
	"context"
	"time"

	"scholia_back_end/internal/database"
)

const (
	// Le contact est gardé le temps du passage sur la page de paiement
	CheckoutContactTTL = 2 * time.Hour
)

// --- Cache générique ---

// SetCache stocke une valeur dans le cache
func SetCache(key string, value interface{}, duration time.Duration) error {
	return database.Redis.Set(context.Background(), key, value, duration).Err()
}

// GetCache récupère une valeur du cache
func GetCache(key string) (string, error) {
	return database.Redis.Get(context.Background(), key).Result()
}

// DeleteCache supprime une clé du cache
func DeleteCache(key string) error {
	return database.Redis.Del(context.Background(), key).Err()
}

// --- Contact de checkout (pour l'email de confirmation au retour) ---

func contactKey(cartID string) string { return "checkout:contact:" + cartID }

// StoreCheckoutContact mémorise l'email du contact le temps du paiement
func StoreCheckoutContact(cartID, email string) error {
	return SetCache(contactKey(cartID), email, CheckoutContactTTL)
}

// GetCheckoutContact récupère l'email mémorisé (chaîne vide si absent)
func GetCheckoutContact(cartID string) string {
	email, err := GetCache(contactKey(cartID))
	if err != nil {
		return ""
	}
	return email
}

// ForgetCheckoutContact supprime l'email après envoi de la confirmation
func ForgetCheckoutContact(cartID string) {
	DeleteCache(contactKey(cartID))
}
