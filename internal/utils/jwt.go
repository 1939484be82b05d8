package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateCartToken signe un jeton invité portant l'identifiant du panier.
// Pas de compte utilisateur : le jeton EST l'identité du panier pour toute
// la durée de la session d'achat (30 jours, alignés sur le TTL Redis).
func GenerateCartToken(cartID string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"cart_id": cartID,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
