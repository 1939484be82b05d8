package models

import (
	"time"

	"github.com/gocql/gocql"
)

// ContactInfo regroupe les champs de contact obligatoires au checkout
type ContactInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
}

// CheckoutItem est la projection minimale d'une ligne panier envoyée
// au endpoint de paiement : identifiant + type, rien d'autre
type CheckoutItem struct {
	ItemID   string      `json:"itemId"`
	ItemType ProductType `json:"itemType"`
}

// CheckoutRequest est le corps posté à {API_BASE}/api/payment/checkout
type CheckoutRequest struct {
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Country   string         `json:"country"`
	Items     []CheckoutItem `json:"items"`
}

// CheckoutResponse ne garantit qu'un sessionId ; son absence malgré un
// statut 2xx est traitée comme un échec (contrat fragile côté provider)
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
}

// États du journal de checkout (ScyllaDB)
const (
	JournalStateCreated   = "created"
	JournalStateCompleted = "completed"
)

// JournalEntry trace chaque session de paiement créée puis complétée
type JournalEntry struct {
	ID        gocql.UUID `json:"id" db:"entry_id"`
	SessionID string     `json:"session_id" db:"session_id"`
	CartID    string     `json:"cart_id" db:"cart_id"`
	Email     string     `json:"email" db:"email"`
	ItemsJSON string     `json:"items_json" db:"items_json"`
	Amount    float64    `json:"amount" db:"amount"`
	State     string     `json:"state" db:"state"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
