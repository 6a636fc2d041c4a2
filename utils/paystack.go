package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"
)

// PaystackBaseURL is a variable so tests can point the client at a stub server.
var PaystackBaseURL = "https://api.paystack.co"

// paystackClient bounds every outbound gateway call. A timeout here is treated
// as transient by callers: retry finalize later, never fulfill.
var paystackClient = &http.Client{Timeout: 15 * time.Second}

// PaystackTransaction is the slice of the gateway's transaction object we act on.
type PaystackTransaction struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	// Amount is in kobo.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Channel  string `json:"channel"`
	PaidAt   string `json:"paid_at"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ToKobo converts a naira amount to the kobo integer the gateway expects.
// Rounding, not truncation: 19.99*100 is 1998.999... in float64.
func ToKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PaystackInitializeTransaction creates a transaction at the gateway and
// returns the authorization URL the client is redirected to.
func PaystackInitializeTransaction(email, reference string, amountKobo int64) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":     email,
		"amount":    amountKobo,
		"reference": reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode initialize payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, PaystackBaseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("PAYSTACK_SECRET_KEY"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := paystackClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paystack initialize request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode paystack response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !envelope.Status {
		return "", fmt.Errorf("paystack initialize rejected: %s", envelope.Message)
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return "", fmt.Errorf("failed to decode paystack initialize data: %v", err)
	}
	return data.AuthorizationURL, nil
}

// PaystackVerifyTransaction queries the gateway for the transaction's current
// status by reference. A transport or decode failure is transient; an answered
// transaction with a non-success status is a definite result, not an error.
func PaystackVerifyTransaction(reference string) (*PaystackTransaction, error) {
	req, err := http.NewRequest(http.MethodGet, PaystackBaseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("PAYSTACK_SECRET_KEY"))

	resp, err := paystackClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !envelope.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", envelope.Message)
	}

	var txn PaystackTransaction
	if err := json.Unmarshal(envelope.Data, &txn); err != nil {
		return nil, fmt.Errorf("failed to decode paystack transaction: %v", err)
	}
	return &txn, nil
}

// VerifyPaystackSignature checks the webhook signature: a hex-encoded
// HMAC-SHA512 of the raw body under the secret key, compared in constant time.
func VerifyPaystackSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(os.Getenv("PAYSTACK_SECRET_KEY")))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
