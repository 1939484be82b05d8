package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"scholia_back_end/internal/database"
	"scholia_back_end/internal/models"
)

const catalogIndex = "catalog"

// CatalogSearch indexe et recherche le catalogue de contenus dans
// Elasticsearch. L'index est rafraîchi au fil des revalidations de
// panier : la vitrine ne montre jamais un prix plus périmé que le panier.
type CatalogSearch struct{}

func NewCatalogSearch() *CatalogSearch {
	return &CatalogSearch{}
}

// IndexCartProducts ré-indexe les articles revalidés (best-effort)
func (s *CatalogSearch) IndexCartProducts(ctx context.Context, items []models.CartItem) {
	if database.Elastic == nil {
		return
	}

	for _, item := range items {
		hit := models.CatalogHit{
			ID:          item.ID,
			ProductType: item.ProductType,
			Title:       item.Title,
			Subtitle:    item.Subtitle,
			Image:       item.Image,
			Price:       item.Price,
		}

		data, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		req := esapi.IndexRequest{
			Index:      catalogIndex,
			DocumentID: item.ID,
			Body:       bytes.NewReader(data),
		}

		res, err := req.Do(ctx, database.Elastic)
		if err != nil {
			log.Println("⚠️ Erreur envoi Elastic:", err)
			continue
		}
		res.Body.Close()

		if res.IsError() {
			log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", item.ID, res.String())
		}
	}
}

// Search cherche dans le catalogue par titre ou sous-titre
func (s *CatalogSearch) Search(ctx context.Context, query string) ([]models.CatalogHit, error) {
	if database.Elastic == nil {
		return nil, errors.New("recherche catalogue indisponible")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "subtitle"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{catalogIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.CatalogHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("erreur décodage réponse Elastic: %v", err)
	}

	hits := make([]models.CatalogHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, h.Source)
	}
	return hits, nil
}
