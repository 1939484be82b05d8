package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour le journal de checkout
	stmtInsertJournalEntry   *gocql.Query
	stmtCompleteJournalEntry *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetCheckoutSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		// Insertion d'une session de paiement créée
		stmtInsertJournalEntry = session.Query(`INSERT INTO checkout_journal (session_id, entry_id, cart_id, email, items_json, amount, state, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

		// Passage d'une session à l'état completed
		stmtCompleteJournalEntry = session.Query("UPDATE checkout_journal SET state = ? WHERE session_id = ?")

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedInsertJournalEntry() *gocql.Query {
	return stmtInsertJournalEntry
}

func GetPreparedCompleteJournalEntry() *gocql.Query {
	return stmtCompleteJournalEntry
}
