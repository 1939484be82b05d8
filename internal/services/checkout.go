package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"scholia_back_end/internal/models"
)

// Erreurs de validation détectées AVANT tout appel réseau
var (
	ErrMissingContact   = errors.New("tous les champs de contact sont requis")
	ErrEmptyCart        = errors.New("le panier est vide")
	ErrNoValidItems     = errors.New("aucun article valide dans le panier")
	ErrCheckoutInFlight = errors.New("un paiement est déjà en cours pour ce panier")
	ErrMissingSessionID = errors.New("réponse de paiement sans sessionId")
)

// PaymentRedirect résout l'URL de la page de paiement hébergée à partir
// d'un identifiant de session. Collaborateur externe interchangeable.
type PaymentRedirect interface {
	ResolveURL(ctx context.Context, sessionID string) (string, error)
}

// CheckoutRecorder trace les sessions créées (journal ScyllaDB). Nil ok.
type CheckoutRecorder interface {
	RecordSessionCreated(cartID, sessionID, email string, items []models.CartItem)
}

// CheckoutResult est ce que le handler renvoie au front
type CheckoutResult struct {
	SessionID string
	URL       string
}

// CheckoutSubmitter convertit un panier en session de paiement via le
// endpoint de checkout de l'API de contenu, puis résout la redirection.
type CheckoutSubmitter struct {
	baseURL    string
	httpClient *http.Client
	redirect   PaymentRedirect
	recorder   CheckoutRecorder

	mu         sync.Mutex
	submitting map[string]bool
}

func NewCheckoutSubmitter(baseURL string, redirect PaymentRedirect, recorder CheckoutRecorder) *CheckoutSubmitter {
	return &CheckoutSubmitter{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		redirect:   redirect,
		recorder:   recorder,
		submitting: make(map[string]bool),
	}
}

// BuildPayload valide le contact et filtre les articles incomplets.
// Les articles sans id ou sans type valide sont écartés silencieusement ;
// si plus rien ne reste, le checkout est abandonné sans appel réseau.
func BuildPayload(contact models.ContactInfo, items []models.CartItem) (*models.CheckoutRequest, error) {
	if contact.Email == "" || contact.FirstName == "" || contact.LastName == "" || contact.Country == "" {
		return nil, ErrMissingContact
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	valid := make([]models.CheckoutItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || !item.ProductType.IsValid() {
			continue
		}
		valid = append(valid, models.CheckoutItem{ItemID: item.ID, ItemType: item.ProductType})
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}

	return &models.CheckoutRequest{
		Email:     contact.Email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Country:   contact.Country,
		Items:     valid,
	}, nil
}

// Submit poste le panier au endpoint de checkout et résout l'URL de
// redirection. Le verrou "submitting" est toujours relâché, quel que
// soit le chemin de sortie — le bouton ne reste jamais gelé.
func (s *CheckoutSubmitter) Submit(ctx context.Context, cartID string, contact models.ContactInfo, items []models.CartItem) (*CheckoutResult, error) {
	payload, err := BuildPayload(contact, items)
	if err != nil {
		return nil, err
	}

	if !s.acquire(cartID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.release(cartID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sérialisation checkout impossible: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/payment/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construction requête checkout impossible: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appel checkout échoué: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lecture réponse checkout impossible: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Le corps est toujours remonté dans l'erreur, jamais avalé
		return nil, fmt.Errorf("checkout refusé (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var session models.CheckoutResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("réponse checkout illisible: %w", err)
	}
	if session.SessionID == "" {
		// 2xx sans sessionId : contrat provider fragile, on échoue fermé
		return nil, ErrMissingSessionID
	}

	url, err := s.redirect.ResolveURL(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("résolution page de paiement impossible: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordSessionCreated(cartID, session.SessionID, contact.Email, items)
	}

	log.Printf("💳 Session de paiement %s créée pour %s (%d articles)", session.SessionID, contact.Email, len(payload.Items))
	return &CheckoutResult{SessionID: session.SessionID, URL: url}, nil
}

func (s *CheckoutSubmitter) acquire(cartID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting[cartID] {
		return false
	}
	s.submitting[cartID] = true
	return true
}

func (s *CheckoutSubmitter) release(cartID string) {
	s.mu.Lock()
	delete(s.submitting, cartID)
	s.mu.Unlock()
}
