package utils

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestToKobo(t *testing.T) {
	assert.Equal(t, int64(10000), ToKobo(100))
	assert.Equal(t, int64(8600), ToKobo(86.00))
	assert.Equal(t, int64(1999), ToKobo(19.99))
	assert.Equal(t, int64(0), ToKobo(0))

	// Amounts whose float64 product lands just under the integer must still
	// round up, not truncate.
	assert.Equal(t, int64(401), ToKobo(4.01))
	assert.Equal(t, int64(29), ToKobo(0.29))
	assert.Equal(t, int64(8607), ToKobo(86.07))
}

func TestVerifyPaystackSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	body := []byte(`{"event":"charge.success","data":{"reference":"PTQ-abc"}}`)
	good := signBody("sk_test_secret", body)

	assert.True(t, VerifyPaystackSignature(body, good))
	assert.False(t, VerifyPaystackSignature(body, ""))
	assert.False(t, VerifyPaystackSignature(body, "deadbeef"))
	assert.False(t, VerifyPaystackSignature(body, signBody("wrong_secret", body)))
	assert.False(t, VerifyPaystackSignature([]byte(`tampered`), good))
}

func TestPaystackVerifyTransaction(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/PTQ-abc", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"PTQ-abc","amount":8600,"currency":"NGN"}}`))
	}))
	defer server.Close()

	oldBase := PaystackBaseURL
	PaystackBaseURL = server.URL
	defer func() { PaystackBaseURL = oldBase }()

	txn, err := PaystackVerifyTransaction("PTQ-abc")
	require.NoError(t, err)
	assert.Equal(t, "success", txn.Status)
	assert.Equal(t, "PTQ-abc", txn.Reference)
	assert.Equal(t, int64(8600), txn.Amount)
}

func TestPaystackVerifyTransactionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer server.Close()

	oldBase := PaystackBaseURL
	PaystackBaseURL = server.URL
	defer func() { PaystackBaseURL = oldBase }()

	_, err := PaystackVerifyTransaction("missing")
	assert.Error(t, err)
}

func TestPaystackInitializeTransaction(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example/pay","access_code":"ac_1","reference":"PTQ-abc"}}`))
	}))
	defer server.Close()

	oldBase := PaystackBaseURL
	PaystackBaseURL = server.URL
	defer func() { PaystackBaseURL = oldBase }()

	authURL, err := PaystackInitializeTransaction("buyer@example.com", "PTQ-abc", 8600)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/pay", authURL)
}
