package services

import (
	"context"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"scholia_back_end/internal/database"
)

// Durée de validité des URLs signées servies avec le panier
const signedURLTTL = 15 * time.Minute

// SignedImageURL transforme une image du bucket média en URL signée à
// durée limitée. Les URLs externes (CDN, API de contenu) passent telles
// quelles ; en cas de problème on renvoie l'URL d'origine plutôt que de
// casser l'affichage du panier.
func SignedImageURL(ctx context.Context, image string) string {
	if database.MinIO == nil || image == "" {
		return image
	}

	bucket := os.Getenv("MINIO_BUCKET")
	publicPrefix := os.Getenv("MINIO_PUBLIC_PREFIX")
	if publicPrefix == "" || !strings.HasPrefix(image, publicPrefix) {
		return image
	}

	// Ne garder que le chemin relatif au bucket
	key := strings.TrimPrefix(image, publicPrefix)
	key = strings.TrimPrefix(key, "/")

	reqParams := make(url.Values)
	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, signedURLTTL, reqParams)
	if err != nil {
		log.Printf("⚠️ URL signée impossible pour %s: %v", key, err)
		return image
	}

	return presignedURL.String()
}
