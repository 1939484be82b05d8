package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/models"
)

const genericRevalidationError = "Impossible de revalider le panier, réessayez plus tard"

// CatalogIndexer reçoit les produits fraîchement revalidés (ré-indexation
// de la recherche). Nil accepté : l'indexation est un à-côté.
type CatalogIndexer interface {
	IndexCartProducts(ctx context.Context, items []models.CartItem)
}

// RevalidationClient réconcilie le panier local avec l'API de contenu.
// Un seul appel en vol par panier : un nouvel appel annule le précédent
// via son contexte (jeton d'annulation explicite, pas un simple flag).
type RevalidationClient struct {
	store      *cart.Store
	baseURL    string
	httpClient *http.Client
	indexer    CatalogIndexer

	mu       sync.Mutex
	inflight map[string]*inflightToken
}

// inflightToken identifie un appel en vol ; son annulation supplante l'appel
type inflightToken struct {
	cancel context.CancelFunc
}

func NewRevalidationClient(store *cart.Store, baseURL string, indexer CatalogIndexer) *RevalidationClient {
	return &RevalidationClient{
		store:      store,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		indexer:    indexer,
		inflight:   make(map[string]*inflightToken),
	}
}

// Revalidate rafraîchit titre/sous-titre/image/prix depuis le serveur.
// Panier vide → résolution immédiate sans appel réseau. En cas d'échec
// (HTTP ou contrat), le panier stocké n'est JAMAIS modifié.
func (r *RevalidationClient) Revalidate(ctx context.Context, cartID string) ([]models.CartItem, error) {
	items := r.store.Items(ctx, cartID)
	if len(items) == 0 {
		return []models.CartItem{}, nil
	}

	ctx, token := r.begin(ctx, cartID)
	defer r.finish(cartID, token)

	r.store.SetState(ctx, cartID, models.RevalidationState{Status: models.RevalidationLoading})

	reqBody := models.ValidateRequest{Items: make([]models.ValidateItem, 0, len(items))}
	for _, item := range items {
		reqBody.Items = append(reqBody.Items, models.ValidateItem{ID: item.ID, Type: item.ProductType})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, r.fail(ctx, cartID, genericRevalidationError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/validate/products", bytes.NewReader(payload))
	if err != nil {
		return nil, r.fail(ctx, cartID, genericRevalidationError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Appel supplanté par une revalidation plus récente : on ne
			// touche ni au panier ni au statut
			return nil, ctx.Err()
		}
		return nil, r.fail(ctx, cartID, genericRevalidationError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.fail(ctx, cartID, genericRevalidationError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := genericRevalidationError
		var serverErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &serverErr); err == nil && serverErr.Message != "" {
			message = serverErr.Message
		}
		return nil, r.fail(ctx, cartID, message, fmt.Errorf("validation refusée (HTTP %d)", resp.StatusCode))
	}

	// Le champ data doit être présent ET être un tableau, sinon le
	// payload est ambigu et on échoue fermé (null compris)
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, r.fail(ctx, cartID, genericRevalidationError, fmt.Errorf("réponse de validation malformée"))
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, r.fail(ctx, cartID, genericRevalidationError, fmt.Errorf("champ data absent ou non-tableau"))
	}

	var products []models.ValidatedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, r.fail(ctx, cartID, genericRevalidationError, fmt.Errorf("champ data invalide: %v", err))
	}

	merged := cart.MergeAll(items, products)

	if ctx.Err() != nil {
		// Supplanté pendant le merge : le résultat périmé est jeté
		return nil, ctx.Err()
	}

	r.store.Replace(ctx, cartID, merged)
	r.store.SetState(ctx, cartID, models.RevalidationState{Status: models.RevalidationSucceeded})

	if r.indexer != nil {
		r.indexer.IndexCartProducts(ctx, merged)
	}

	log.Printf("🛒 Panier %s revalidé (%d articles)", cartID, len(merged))
	return merged, nil
}

// begin enregistre l'appel en vol et annule l'éventuel appel précédent
func (r *RevalidationClient) begin(ctx context.Context, cartID string) (context.Context, *inflightToken) {
	ctx, cancel := context.WithCancel(ctx)
	token := &inflightToken{cancel: cancel}

	r.mu.Lock()
	if previous, ok := r.inflight[cartID]; ok {
		previous.cancel()
	}
	r.inflight[cartID] = token
	r.mu.Unlock()

	return ctx, token
}

func (r *RevalidationClient) finish(cartID string, token *inflightToken) {
	r.mu.Lock()
	if current, ok := r.inflight[cartID]; ok && current == token {
		delete(r.inflight, cartID)
	}
	r.mu.Unlock()
	token.cancel()
}

// fail persiste l'échec sans toucher aux articles ; renvoie l'erreur enrichie
func (r *RevalidationClient) fail(ctx context.Context, cartID, message string, cause error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Printf("❌ Revalidation panier %s échouée: %v", cartID, cause)
	r.store.SetState(context.WithoutCancel(ctx), cartID, models.RevalidationState{
		Status: models.RevalidationFailed,
		Error:  message,
	})
	return fmt.Errorf("%s: %w", message, cause)
}
