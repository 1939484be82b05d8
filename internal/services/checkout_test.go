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

	"scholia_back_end/internal/models"
)

var fullContact = models.ContactInfo{
	Email:     "eleve@example.com",
	FirstName: "Ada",
	LastName:  "Lovelace",
	Country:   "FR",
}

func TestBuildPayload_Complete(t *testing.T) {
	items := []models.CartItem{
		{ID: "U9", ProductType: models.ProductUnit, Quantity: 1, Price: 50},
	}

	payload, err := BuildPayload(fullContact, items)

	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "U9", payload.Items[0].ItemID)
	assert.Equal(t, models.ProductUnit, payload.Items[0].ItemType)
	assert.Equal(t, "eleve@example.com", payload.Email)
}

func TestBuildPayload_MissingContactField(t *testing.T) {
	contact := fullContact
	contact.Country = ""

	_, err := BuildPayload(contact, []models.CartItem{{ID: "L1", ProductType: models.ProductLesson}})

	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestBuildPayload_EmptyCart(t *testing.T) {
	_, err := BuildPayload(fullContact, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildPayload_DropsInvalidItemsSilently(t *testing.T) {
	items := []models.CartItem{
		{ID: "", ProductType: models.ProductLesson},          // sans id
		{ID: "X1", ProductType: models.ProductType("AUTRE")}, // type inconnu
		{ID: "C1", ProductType: models.ProductCourse},
	}

	payload, err := BuildPayload(fullContact, items)

	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "C1", payload.Items[0].ItemID)
}

func TestSubmit_AbortsWithoutNetworkWhenNoValidItems(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	submitter := NewCheckoutSubmitter(server.URL, &TemplateRedirect{Template: "https://pay.test/%s"}, nil)

	items := []models.CartItem{
		{ID: "", ProductType: models.ProductLesson},
		{ID: "X1", ProductType: models.ProductType("AUTRE")},
	}

	_, err := submitter.Submit(context.Background(), "c1", fullContact, items)

	assert.ErrorIs(t, err, ErrNoValidItems)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/checkout", r.URL.Path)

		var req models.CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada", req.FirstName)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "U9", req.Items[0].ItemID)
		assert.Equal(t, models.ProductUnit, req.Items[0].ItemType)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sessionId":"sess_123"}`))
	}))
	defer server.Close()

	submitter := NewCheckoutSubmitter(server.URL, &TemplateRedirect{Template: "https://pay.test/%s"}, nil)

	items := []models.CartItem{{ID: "U9", ProductType: models.ProductUnit, Quantity: 1, Price: 50}}
	result, err := submitter.Submit(context.Background(), "c1", fullContact, items)

	require.NoError(t, err)
	assert.Equal(t, "sess_123", result.SessionID)
	assert.Equal(t, "https://pay.test/sess_123", result.URL)
}

func TestSubmit_Non2xxSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("stock épuisé pour U9"))
	}))
	defer server.Close()

	submitter := NewCheckoutSubmitter(server.URL, &TemplateRedirect{Template: "https://pay.test/%s"}, nil)

	items := []models.CartItem{{ID: "U9", ProductType: models.ProductUnit, Quantity: 1}}
	_, err := submitter.Submit(context.Background(), "c1", fullContact, items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock épuisé pour U9")
	assert.Contains(t, err.Error(), "409")
}

func TestSubmit_MissingSessionIDFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 mais sans sessionId : le contrat provider n'est pas rempli
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	submitter := NewCheckoutSubmitter(server.URL, &TemplateRedirect{Template: "https://pay.test/%s"}, nil)

	items := []models.CartItem{{ID: "U9", ProductType: models.ProductUnit, Quantity: 1}}
	_, err := submitter.Submit(context.Background(), "c1", fullContact, items)

	assert.ErrorIs(t, err, ErrMissingSessionID)
}

func TestSubmit_ReleasesGuardAfterFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"sessionId":"sess_retry"}`))
	}))
	defer server.Close()

	submitter := NewCheckoutSubmitter(server.URL, &TemplateRedirect{Template: "https://pay.test/%s"}, nil)
	items := []models.CartItem{{ID: "U9", ProductType: models.ProductUnit, Quantity: 1}}

	_, err := submitter.Submit(context.Background(), "c1", fullContact, items)
	require.Error(t, err)

	// Le verrou doit être relâché même après un échec réseau
	result, err := submitter.Submit(context.Background(), "c1", fullContact, items)
	require.NoError(t, err)
	assert.Equal(t, "sess_retry", result.SessionID)
}

func TestTemplateRedirect(t *testing.T) {
	redirect := &TemplateRedirect{Template: "https://pay.test/c/%s"}

	url, err := redirect.ResolveURL(context.Background(), "sess_42")

	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/c/sess_42", url)
}
