package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/models"
)

func seedCart(t *testing.T, store *cart.Store, cartID string, items ...models.CartItem) {
	t.Helper()
	for _, item := range items {
		_, added := store.Add(context.Background(), cartID, item)
		require.True(t, added)
	}
}

func TestRevalidate_EmptyCartSkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	client := NewRevalidationClient(store, server.URL, nil)

	items, err := client.Revalidate(context.Background(), "c1")

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRevalidate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/validate/products", r.URL.Path)

		var req models.ValidateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "L1", req.Items[0].ID)
		assert.Equal(t, models.ProductLesson, req.Items[0].Type)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"L1","price":"12.50"}]}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1", models.CartItem{
		ID: "L1", ProductType: models.ProductLesson, Title: "Intro", Price: 10, Quantity: 1,
	})

	client := NewRevalidationClient(store, server.URL, nil)
	items, err := client.Revalidate(context.Background(), "c1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 12.5, items[0].Price)
	assert.Equal(t, "Intro", items[0].Title)
	assert.Equal(t, 1, items[0].Quantity)

	// Le résultat remplace le panier persisté et le statut passe à succeeded
	stored := store.Items(context.Background(), "c1")
	require.Len(t, stored, 1)
	assert.Equal(t, 12.5, stored[0].Price)
	assert.Equal(t, models.RevalidationSucceeded, store.State(context.Background(), "c1").Status)
}

func TestRevalidate_HTTPFailurePreservesCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"catalogue indisponible"}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1",
		models.CartItem{ID: "L1", ProductType: models.ProductLesson, Title: "Intro", Price: 10, Quantity: 1},
		models.CartItem{ID: "U1", ProductType: models.ProductUnit, Title: "Algèbre", Price: 50, Quantity: 2},
	)

	client := NewRevalidationClient(store, server.URL, nil)
	_, err := client.Revalidate(context.Background(), "c1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalogue indisponible")

	// Les N articles restent intacts
	stored := store.Items(context.Background(), "c1")
	require.Len(t, stored, 2)
	assert.Equal(t, 10.0, stored[0].Price)
	assert.Equal(t, 50.0, stored[1].Price)

	state := store.State(context.Background(), "c1")
	assert.Equal(t, models.RevalidationFailed, state.Status)
	assert.Equal(t, "catalogue indisponible", state.Error)
}

func TestRevalidate_MalformedBodyFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 mais sans champ data : violation de contrat
		w.Write([]byte(`{"products":[]}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1", models.CartItem{
		ID: "L1", ProductType: models.ProductLesson, Title: "Intro", Price: 10, Quantity: 1,
	})

	client := NewRevalidationClient(store, server.URL, nil)
	_, err := client.Revalidate(context.Background(), "c1")

	require.Error(t, err)
	assert.Len(t, store.Items(context.Background(), "c1"), 1)
	assert.Equal(t, models.RevalidationFailed, store.State(context.Background(), "c1").Status)
}

func TestRevalidate_NonArrayDataFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"pas-un-tableau"}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1", models.CartItem{
		ID: "L1", ProductType: models.ProductLesson, Title: "Intro", Price: 10, Quantity: 1,
	})

	client := NewRevalidationClient(store, server.URL, nil)
	_, err := client.Revalidate(context.Background(), "c1")

	require.Error(t, err)
	assert.Len(t, store.Items(context.Background(), "c1"), 1)
}

func TestRevalidate_NullDataFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// data présent mais null : contrat violé au même titre qu'absent
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1", models.CartItem{
		ID: "L1", ProductType: models.ProductLesson, Title: "Intro", Price: 10, Quantity: 1,
	})

	client := NewRevalidationClient(store, server.URL, nil)
	_, err := client.Revalidate(context.Background(), "c1")

	require.Error(t, err)
	assert.Len(t, store.Items(context.Background(), "c1"), 1)
	assert.Equal(t, models.RevalidationFailed, store.State(context.Background(), "c1").Status)
}

func TestRevalidate_PreservesQuantities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"L1","price":99},{"id":"U1","title":"Nouveau"}]}`))
	}))
	defer server.Close()

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	seedCart(t, store, "c1",
		models.CartItem{ID: "L1", ProductType: models.ProductLesson, Quantity: 3, Price: 10},
		models.CartItem{ID: "U1", ProductType: models.ProductUnit, Quantity: 7, Price: 50},
	)

	client := NewRevalidationClient(store, server.URL, nil)
	items, err := client.Revalidate(context.Background(), "c1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 7, items[1].Quantity)
	assert.Equal(t, models.ProductLesson, items[0].ProductType)
	assert.Equal(t, models.ProductUnit, items[1].ProductType)
}
