package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	var got initializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "ADM-xyz"
			}
		}`))
	}))
	defer srv.Close()

	client := NewPaystackClient("sk_test_abc")
	client.BaseURL = srv.URL

	tx, err := client.InitializeTransaction("jane@example.com", 1000000, "ADM-xyz", 7)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", tx.AuthorizationURL)
	assert.Equal(t, "ADM-xyz", tx.Reference)

	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "1000000", got.Amount)
	assert.Equal(t, "ADM-xyz", got.Reference)
	assert.Equal(t, float64(7), got.Metadata["user_id"])
}

func TestInitializeTransactionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid amount"}`))
	}))
	defer srv.Close()

	client := NewPaystackClient("sk_test_abc")
	client.BaseURL = srv.URL

	_, err := client.InitializeTransaction("jane@example.com", 0, "ADM-xyz", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid amount")
}

func TestInitializeTransactionWithoutKey(t *testing.T) {
	client := NewPaystackClient("")
	_, err := client.InitializeTransaction("jane@example.com", 1000000, "ADM-xyz", 7)
	require.Error(t, err)
}
