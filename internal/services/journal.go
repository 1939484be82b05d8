package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/database"
	"scholia_back_end/internal/models"
)

// Journal trace chaque session de paiement dans ScyllaDB. Toutes les
// écritures sont asynchrones et best-effort : un journal HS ne doit
// jamais bloquer un paiement.
type Journal struct{}

func NewJournal() *Journal {
	return &Journal{}
}

// RecordSessionCreated enregistre une session fraîchement créée
func (j *Journal) RecordSessionCreated(cartID, sessionID, email string, items []models.CartItem) {
	go func() {
		if err := j.insertEntry(cartID, sessionID, email, items); err != nil {
			log.Printf("⚠️ Journal checkout non écrit pour %s: %v", sessionID, err)
		}
	}()
}

// RecordSessionCompleted marque la session comme complétée (retour de la
// page de paiement)
func (j *Journal) RecordSessionCompleted(sessionID string) {
	go func() {
		if err := j.completeEntry(sessionID); err != nil {
			log.Printf("⚠️ Journal checkout non mis à jour pour %s: %v", sessionID, err)
		}
	}()
}

// newJournalEntry construit la ligne de journal d'une session créée
func newJournalEntry(cartID, sessionID, email string, items []models.CartItem) (models.JournalEntry, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return models.JournalEntry{}, err
	}

	return models.JournalEntry{
		ID:        gocql.TimeUUID(),
		SessionID: sessionID,
		CartID:    cartID,
		Email:     email,
		ItemsJSON: string(itemsJSON),
		Amount:    cart.Total(items),
		State:     models.JournalStateCreated,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (j *Journal) insertEntry(cartID, sessionID, email string, items []models.CartItem) error {
	session, err := database.GetCheckoutSession()
	if err != nil {
		return err
	}

	entry, err := newJournalEntry(cartID, sessionID, email, items)
	if err != nil {
		return err
	}

	if stmt := database.GetPreparedInsertJournalEntry(); stmt != nil {
		return stmt.Bind(entry.SessionID, entry.ID, entry.CartID, entry.Email,
			entry.ItemsJSON, entry.Amount, entry.State, entry.CreatedAt).Exec()
	}

	return session.Query(`INSERT INTO checkout_journal (session_id, entry_id, cart_id, email, items_json, amount, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID, entry.ID, entry.CartID, entry.Email,
		entry.ItemsJSON, entry.Amount, entry.State, entry.CreatedAt).Exec()
}

func (j *Journal) completeEntry(sessionID string) error {
	session, err := database.GetCheckoutSession()
	if err != nil {
		return err
	}

	if stmt := database.GetPreparedCompleteJournalEntry(); stmt != nil {
		return stmt.Bind(models.JournalStateCompleted, sessionID).Exec()
	}

	return session.Query("UPDATE checkout_journal SET state = ? WHERE session_id = ?",
		models.JournalStateCompleted, sessionID).Exec()
}
