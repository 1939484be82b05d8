package models

// ValidatedProduct est la forme renvoyée par l'API de contenu pour
// POST /api/validate/products. Tous les champs hors ID sont optionnels :
// un champ absent signifie "garde ta valeur locale".
type ValidatedProduct struct {
	ID       string     `json:"id"`
	Title    *string    `json:"title,omitempty"`
	Subtitle *string    `json:"subtitle,omitempty"`
	Image    *string    `json:"image,omitempty"`
	Price    *FlexFloat `json:"price,omitempty"`
}

// ValidateRequest est le corps envoyé à l'API de validation
type ValidateRequest struct {
	Items []ValidateItem `json:"items"`
}

type ValidateItem struct {
	ID   string      `json:"id"`
	Type ProductType `json:"type"`
}

// ValidateResponse enveloppe la liste des produits revalidés.
// Un champ data absent ou non-tableau est une violation de contrat.
type ValidateResponse struct {
	Data    []ValidatedProduct `json:"data"`
	Message string             `json:"message,omitempty"`
}

// CatalogHit est un résultat de recherche Elasticsearch côté vitrine
type CatalogHit struct {
	ID          string      `json:"id"`
	ProductType ProductType `json:"productType"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Image       string      `json:"image,omitempty"`
	Price       float64     `json:"price"`
}
