package entity

import (
	"time"

	"soundstage/pkg/money"
)

type TransactionType string

const (
	TransactionTypeCoinPurchase    TransactionType = "COIN_PURCHASE"
	TransactionTypeRSVP            TransactionType = "RSVP"
	TransactionTypeProductPurchase TransactionType = "PRODUCT_PURCHASE"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is the historical record of one monetary event. Amount is in coins.
type Transaction struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"user_id"`
	Type               TransactionType   `json:"type"`
	Amount             int64             `json:"amount"`
	AmountInCurrency   *money.Cents      `json:"amount_in_currency,omitempty"`
	Status             TransactionStatus `json:"status"`
	ExternalPaymentRef *string           `json:"external_payment_ref,omitempty"`
	Description        string            `json:"description"`
	CreatedAt          time.Time         `json:"created_at"`
}
