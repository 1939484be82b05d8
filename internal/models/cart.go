package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ProductType classe le contenu pédagogique achetable
type ProductType string

const (
	ProductCourse  ProductType = "COURSE"
	ProductUnit    ProductType = "UNIT"
	ProductSubunit ProductType = "SUBUNIT"
	ProductLesson  ProductType = "LESSON"
)

// IsValid vérifie que le type fait partie de la hiérarchie connue
func (p ProductType) IsValid() bool {
	switch p {
	case ProductCourse, ProductUnit, ProductSubunit, ProductLesson:
		return true
	}
	return false
}

// FlexFloat accepte un nombre JSON ou une chaîne numérique ("12.50" → 12.5).
// L'API de validation renvoie parfois les prix sous forme de chaîne. Un null
// ou une chaîne vide laissent Set à false : la valeur est absente, jamais un
// zéro autoritaire.
type FlexFloat struct {
	Value float64
	Set   bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.Value = v
	f.Set = true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// CartItem est une ligne du panier. Au plus une ligne par ID produit :
// l'ajout d'un doublon est un no-op, jamais un cumul de quantité.
type CartItem struct {
	ID          string      `json:"id"`
	ProductType ProductType `json:"productType"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Image       string      `json:"image"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
}

// RevalidationStatus suit l'issue de la dernière réconciliation des prix
type RevalidationStatus string

const (
	RevalidationIdle      RevalidationStatus = "idle"
	RevalidationLoading   RevalidationStatus = "loading"
	RevalidationSucceeded RevalidationStatus = "succeeded"
	RevalidationFailed    RevalidationStatus = "failed"
)

// RevalidationState est persisté à côté du panier (clé cart:status:<id>)
type RevalidationState struct {
	Status RevalidationStatus `json:"status"`
	Error  string             `json:"error,omitempty"`
}
