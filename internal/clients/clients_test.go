package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type fakeCredentials struct {
	token   string
	logouts int32
}

func (f *fakeCredentials) Token() string { return f.token }
func (f *fakeCredentials) HardLogout()   { atomic.AddInt32(&f.logouts, 1) }

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*API, *fakeCredentials) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	api := NewAPI(srv.URL+"/api/", 2*time.Second, logger)
	creds := &fakeCredentials{token: "tok-1"}
	api.UseCredentials(creds)
	return api, creds
}

func TestLoginSendsCredentialsAndDecodesIdentity(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"phone": "254712345678", "password": "pw"}, body)

		_, _ = w.Write([]byte(`{"_id":"u1","name":"Wanjiku","phone":"254712345678","role":"customer","token":"t"}`))
	})

	identity, err := NewIdentityClient(api).Login(context.Background(), "254712345678", "pw")
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{ID: "u1", Name: "Wanjiku", Phone: "254712345678", Role: domain.RoleCustomer, Token: "t"}, identity)
}

func TestBearerTokenAttached(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"product":{"_id":"p3","name":"Rum","price":300,"image":"rum.png"},"quantity":1}]}`))
	})

	cart, err := NewCartClient(api).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{{ProductID: "p3", Name: "Rum", Price: 300, Image: "rum.png", Quantity: 1}}, cart.Lines())
}

func TestExplicitTokenOverridesCredentials(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer explicit", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPut, r.Method)
		_, _ = w.Write([]byte(`{"_id":"u1","name":"New","token":"explicit"}`))
	})

	name := "New"
	identity, err := NewIdentityClient(api).UpdateProfile(context.Background(), "explicit", domain.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", identity.Name)
}

func TestUnauthorizedTriggersHardLogout(t *testing.T) {
	api, creds := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	})

	_, err := NewOrderClient(api).Place(context.Background(), domain.PlaceOrderRequest{}, "")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&creds.logouts))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Token expired", apiErr.Message)
}

func TestErrorFallbackMessage(t *testing.T) {
	api, creds := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	err := NewIdentityClient(api).ForgotPassword(context.Background(), "254700000000")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Unable to send reset SMS. Please try again.", apiErr.Message)
	assert.False(t, apiErr.Unauthorized())
	assert.Zero(t, atomic.LoadInt32(&creds.logouts))
}

func TestCartMutationsHitExpectedEndpoints(t *testing.T) {
	type call struct{ method, path, body string }
	var calls []call
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(b)})
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewCartClient(api)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 1))
	require.NoError(t, c.Update(ctx, "p1", 4))
	require.NoError(t, c.Remove(ctx, "p1"))
	require.NoError(t, c.Clear(ctx))

	require.Len(t, calls, 4)
	assert.Equal(t, call{http.MethodPost, "/api/cart", `{"productId":"p1","quantity":1}`}, calls[0])
	assert.Equal(t, call{http.MethodPut, "/api/cart", `{"productId":"p1","quantity":4}`}, calls[1])
	assert.Equal(t, call{http.MethodDelete, "/api/cart/p1", ""}, calls[2])
	assert.Equal(t, call{http.MethodDelete, "/api/cart", ""}, calls[3])
}

func TestPlaceOrderSendsIdempotencyKey(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		var body domain.PlaceOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.PaymentCOD, body.PaymentMethod)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"o1","deliveryStatus":"PENDING"}`))
	})

	order, err := NewOrderClient(api).Place(context.Background(), domain.PlaceOrderRequest{PaymentMethod: domain.PaymentCOD}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.DeliveryStatus)
}

func TestProductListQuery(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		assert.Equal(t, "whisky", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"products":[{"_id":"p1","name":"Whisky","price":2500}],"totalPages":3}`))
	})

	page, err := NewProductClient(api).List(context.Background(), domain.ProductQuery{Page: 2, Limit: 12, Search: "whisky"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Products, 1)
}

func TestAdminListOrdersOmitsEmptyFilters(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "DISPATCHED", q.Get("deliveryStatus"))
		_, hasPayment := q["paymentMethod"]
		assert.False(t, hasPayment)
		_, hasSearch := q["search"]
		assert.False(t, hasSearch)
		_, _ = w.Write([]byte(`{"orders":[],"totalOrders":0,"totalPages":1}`))
	})

	page, err := NewAdminClient(api).ListOrders(context.Background(), domain.AdminOrderFilter{Page: 1, Limit: 10, DeliveryStatus: domain.StatusDispatched})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
}

func TestMyOrdersNeverNil(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	orders, err := NewOrderClient(api).Mine(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestNetworkFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := NewAPI("http://127.0.0.1:1", 200*time.Millisecond, logger)

	_, err := NewProductClient(api).Get(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to communicate with backend")
}
