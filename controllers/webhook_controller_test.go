package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/paystack", PaystackWebhook)
	return router
}

func signWebhookBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	router := webhookRouter()

	body := []byte(`{"event":"charge.success","data":{"reference":"PTQ-abc"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), `"ok":false`)
}

func TestPaystackWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	router := webhookRouter()

	body := []byte(`{"event":"charge.success","data":{"reference":"PTQ-abc"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", signWebhookBody("wrong_secret", body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPaystackWebhookAcksIgnoredEvents(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	router := webhookRouter()

	// A signed event we do not act on still gets a 200 so the gateway stops
	// retrying it.
	body := []byte(`{"event":"charge.dispute.create","data":{"reference":"PTQ-abc"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", signWebhookBody("sk_test_secret", body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"ok":true`)
}

func TestPaystackWebhookAcksUnparseableSignedBody(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")
	router := webhookRouter()

	body := []byte(`not-json`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", signWebhookBody("sk_test_secret", body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}
