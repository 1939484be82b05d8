package cart

import "scholia_back_end/internal/models"

// MergeAuthoritative réconcilie une ligne panier locale avec la version
// renvoyée par l'API de contenu. Chaque champ d'affichage retombe
// indépendamment sur la valeur locale quand le serveur l'omet ; quantité
// et type produit viennent toujours du local (le serveur ne les renvoie pas).
// remote nil → ligne locale inchangée (produit absent de la réponse).
func MergeAuthoritative(local models.CartItem, remote *models.ValidatedProduct) models.CartItem {
	if remote == nil {
		return local
	}

	merged := local
	if remote.Title != nil && *remote.Title != "" {
		merged.Title = *remote.Title
	}
	if remote.Subtitle != nil {
		merged.Subtitle = *remote.Subtitle
	}
	if remote.Image != nil && *remote.Image != "" {
		merged.Image = *remote.Image
	}
	if remote.Price != nil && remote.Price.Set {
		merged.Price = remote.Price.Value
	}
	return merged
}

// MergeAll applique MergeAuthoritative ligne par ligne : l'ordre et le
// nombre d'items du panier d'origine sont toujours préservés.
func MergeAll(items []models.CartItem, products []models.ValidatedProduct) []models.CartItem {
	byID := make(map[string]*models.ValidatedProduct, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	merged := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		merged = append(merged, MergeAuthoritative(item, byID[item.ID]))
	}
	return merged
}
