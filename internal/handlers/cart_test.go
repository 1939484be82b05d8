package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholia_back_end/internal/cart"
	"scholia_back_end/internal/models"
	"scholia_back_end/internal/services"
)

func newTestRouter(t *testing.T, upstreamURL string) (*gin.Engine, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cart.NewStore(cart.NewMemoryPersistence(), nil)
	revalidator := services.NewRevalidationClient(store, upstreamURL, nil)
	submitter := services.NewCheckoutSubmitter(upstreamURL, &services.TemplateRedirect{Template: "https://pay.test/%s"}, nil)
	h := NewHandler(store, revalidator, submitter, nil, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("cart_id", "c1") })
	r.GET("/api/cart", h.GetCart)
	r.POST("/api/cart/add", h.AddToCart)
	r.DELETE("/api/cart/clear", h.ClearCart)
	r.DELETE("/api/cart/:productId", h.RemoveFromCart)
	r.POST("/api/cart/revalidate", h.Revalidate)
	r.POST("/api/payment/checkout", h.Checkout)

	return r, store
}

func tContext() context.Context { return context.Background() }

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddToCart_ThenGet(t *testing.T) {
	r, _ := newTestRouter(t, "http://upstream.invalid")

	w := doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Intro","price":10,"quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Produit ajouté au panier")

	w = doJSON(r, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"L1"`)
	assert.Contains(t, w.Body.String(), `"total":10`)
}

func TestAddToCart_DuplicateIsNoOp(t *testing.T) {
	r, store := newTestRouter(t, "http://upstream.invalid")

	doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Intro","price":10,"quantity":1}`)
	w := doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Doublon","price":99,"quantity":4}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Produit déjà dans le panier")

	items := store.Items(tContext(), "c1")
	require.Len(t, items, 1)
	assert.Equal(t, "Intro", items[0].Title)
}

func TestAddToCart_RejectsUnknownProductType(t *testing.T) {
	r, _ := newTestRouter(t, "http://upstream.invalid")

	w := doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"X1","productType":"BUNDLE","title":"?","price":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveFromCart_Absent(t *testing.T) {
	r, _ := newTestRouter(t, "http://upstream.invalid")

	w := doJSON(r, http.MethodDelete, "/api/cart/introuvable", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearCart(t *testing.T) {
	r, store := newTestRouter(t, "http://upstream.invalid")

	doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Intro","price":10,"quantity":1}`)
	w := doJSON(r, http.MethodDelete, "/api/cart/clear", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Items(tContext(), "c1"))
	assert.Equal(t, models.RevalidationIdle, store.State(tContext(), "c1").Status)
}

func TestRevalidateHandler_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"maintenance en cours"}`))
	}))
	defer upstream.Close()

	r, store := newTestRouter(t, upstream.URL)

	doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Intro","price":10,"quantity":1}`)
	w := doJSON(r, http.MethodPost, "/api/cart/revalidate", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "maintenance en cours")
	// Le panier n'est jamais vidé par un échec de revalidation
	assert.Len(t, store.Items(tContext(), "c1"), 1)
}

func TestRevalidateHandler_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"L1","price":"12.50"}]}`))
	}))
	defer upstream.Close()

	r, _ := newTestRouter(t, upstream.URL)

	doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"L1","productType":"LESSON","title":"Intro","price":10,"quantity":1}`)
	w := doJSON(r, http.MethodPost, "/api/cart/revalidate", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":12.5`)
	assert.Contains(t, w.Body.String(), `"succeeded"`)
}

func TestCheckoutHandler_MissingContact(t *testing.T) {
	r, _ := newTestRouter(t, "http://upstream.invalid")

	doJSON(r, http.MethodPost, "/api/cart/add",
		`{"id":"U9","productType":"UNIT","title":"Algèbre","price":50,"quantity":1}`)
	w := doJSON(r, http.MethodPost, "/api/payment/checkout",
		`{"email":"eleve@example.com","firstName":"Ada"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	r, _ := newTestRouter(t, "http://upstream.invalid")

	w := doJSON(r, http.MethodPost, "/api/payment/checkout",
		`{"email":"eleve@example.com","firstName":"Ada","lastName":"Lovelace","country":"FR"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
