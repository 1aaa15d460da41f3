package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// PaystackClient talks to the Paystack REST API for server-side transaction
// initiation. The secret key never reaches the browser; the amount always
// comes from server configuration.
type PaystackClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewPaystackClient(secretKey string) *PaystackClient {
	return &PaystackClient{
		BaseURL:    "https://api.paystack.co",
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Email     string                 `json:"email"`
	Amount    string                 `json:"amount"` // minor units, as a string per API
	Reference string                 `json:"reference"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type initializeResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    InitializedTransaction `json:"data"`
}

// InitializedTransaction is what the client needs to continue checkout.
type InitializedTransaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeTransaction creates a pending charge for the application fee.
// The owner id rides along in metadata so the webhook can find the draft.
func (p *PaystackClient) InitializeTransaction(email string, amountKobo int64, reference string, userID int) (*InitializedTransaction, error) {
	if p.SecretKey == "" {
		return nil, fmt.Errorf("paystack secret key not configured")
	}

	body, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    strconv.FormatInt(amountKobo, 10),
		Reference: reference,
		Metadata:  map[string]interface{}{"user_id": userID},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, p.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("paystack response undecodable: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !out.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}
	return &out.Data, nil
}
