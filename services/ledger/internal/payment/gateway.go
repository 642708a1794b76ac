package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Intent is a request to collect AmountMinor from the buyer.
type Intent struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

// IntentResult carries the provider reference persisted on the pending
// transaction and the secret handed to the client to complete payment.
type IntentResult struct {
	Reference    string
	ClientSecret string
}

// Gateway defines the subset of the payment provider the ledger requires.
type Gateway interface {
	CreateIntent(ctx context.Context, intent Intent) (*IntentResult, error)
}

// WebhookEvent is a verified provider notification about a payment intent.
type WebhookEvent struct {
	ID        string
	Type      string
	Reference string
}

type WebhookVerifier interface {
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
