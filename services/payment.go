package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// eventChargeSuccess is the only webhook event that mutates a draft; every
// other event is acknowledged and dropped.
const eventChargeSuccess = "charge.success"

// WebhookEvent is the payment provider's asynchronous notification payload.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"` // minor units (kobo)
	Customer  WebhookCustomer `json:"customer"`
	Metadata  WebhookMetadata `json:"metadata"`
}

type WebhookCustomer struct {
	Email string `json:"email"`
}

// WebhookMetadata carries the owner id we attached at initiation. Providers
// round-trip metadata loosely, so the id may come back as number or string.
type WebhookMetadata struct {
	UserID interface{} `json:"user_id"`
}

// PaymentOutcome classifies webhook handling for the HTTP layer.
type PaymentOutcome int

const (
	// PaymentRejected: signature mismatch, nothing was touched.
	PaymentRejected PaymentOutcome = iota
	// PaymentIgnored: authentic but not a successful charge.
	PaymentIgnored
	// PaymentProcessed: the draft was marked paid and submitted.
	PaymentProcessed
)

// VerifyWebhookSignature recomputes the HMAC-SHA512 of the raw body under the
// provider secret and compares it with the signature header. This must pass
// before any side effect.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// PaymentProcessor applies authenticated payment notifications to drafts.
type PaymentProcessor struct {
	Store  DraftStore
	Secret string

	// Notify runs best-effort after a processed payment, same path as the
	// finalizer's post-commit hook.
	Notify func(userID int)
}

// Confirm verifies and applies one webhook delivery. Applying the same
// confirmed payload twice converges on the same stored state, so provider
// retries on non-2xx responses are always safe.
func (p *PaymentProcessor) Confirm(signature string, body []byte) (PaymentOutcome, error) {
	if !VerifyWebhookSignature(p.Secret, body, signature) {
		return PaymentRejected, nil
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// Authentic but unreadable; acknowledge so the provider stops retrying.
		log.Printf("payment webhook: undecodable payload: %v", err)
		return PaymentIgnored, nil
	}

	if event.Event != eventChargeSuccess {
		return PaymentIgnored, nil
	}

	userID, err := parseOwnerID(event.Data.Metadata.UserID)
	if err != nil {
		log.Printf("payment webhook: reference %s has no usable owner id: %v", event.Data.Reference, err)
		return PaymentIgnored, nil
	}

	// The charged amount comes from the verified payload only, never from
	// anything the client claimed earlier in the flow. Provider amounts are
	// in minor units.
	amount := float64(event.Data.Amount) / 100

	if err := p.Store.MarkPaid(userID, event.Data.Reference, amount); err != nil {
		return PaymentProcessed, err
	}

	if p.Notify != nil {
		p.Notify(userID)
	}
	return PaymentProcessed, nil
}

func parseOwnerID(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("missing user_id metadata")
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("invalid user_id metadata %v", v)
		}
		return int(v), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid user_id metadata %q", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid user_id metadata type %T", raw)
	}
}
