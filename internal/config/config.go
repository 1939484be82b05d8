package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// APIBase retourne la racine de l'API de contenu (autorité prix/catalogue)
func APIBase() string {
	base := os.Getenv("CONTENT_API_BASE_URL")
	if base == "" {
		base = "http://localhost:4000"
	}
	return base
}

// PaymentPageTemplate retourne le gabarit d'URL de la page de paiement
// hébergée (utilisé quand la clé Stripe n'est pas configurée), avec un
// %s pour l'identifiant de session
func PaymentPageTemplate() string {
	return os.Getenv("PAYMENT_PAGE_URL")
}
