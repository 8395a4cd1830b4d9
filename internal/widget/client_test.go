package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSessionStoresToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/session", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"sessionId":  "sess-1",
			"token":      "tok-1",
			"quantities": map[string]int{"10": 2},
			"currency":   map[string]string{"symbol": "$", "position": "prefix"},
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	got, err := client.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "$", got.Currency.Symbol)
	assert.Equal(t, "tok-1", client.token)
}

func TestSetQuantitySendsTokenAndDecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok-1", r.Header.Get(TokenHeader))
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, 10, body["productId"])
		require.Equal(t, 3, body["quantity"])
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"productId": 10, "quantity": 3, "action": "updated", "cartTotal": "$30.00",
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	client.SetToken("tok-1")

	got, err := client.SetQuantity(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Action)
	assert.Equal(t, "$30.00", got.CartTotal)
}

func TestQuantitiesParsesStringKeys(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"quantities": map[string]int{"10": 2, "20": 1},
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	got, err := client.Quantities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{10: 2, 20: 1}, got)
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
			"code": "INSUFFICIENT_STOCK", "message": "Not enough stock. Only 1 available.",
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	_, err := client.SetQuantity(context.Background(), 10, 5)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", apiErr.Code)
	assert.Equal(t, "Not enough stock. Only 1 available.", apiErr.Message)
}

func TestNetworkFailureBecomesTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	_, err := client.SetQuantity(context.Background(), 10, 1)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestRemoveRentalHitsProductPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/cart/rentals/20", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"productId": 20}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, srv.Client())
	require.NoError(t, client.RemoveRental(context.Background(), 20))
}
