package queue

import (
	"time"

	"soundstage/pkg/money"

	"github.com/google/uuid"
)

const (
	EventCoinsCredited       = "coins.credited"
	EventRSVPSettled         = "rsvp.settled"
	EventWithdrawalRequested = "withdrawal.requested"
	EventProductSold         = "product.sold"
)

// LedgerEvent is published after a monetary change commits.
type LedgerEvent struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	UserID         string      `json:"user_id"`
	CounterpartyID string      `json:"counterparty_id,omitempty"`
	ReferenceID    string      `json:"reference_id"`
	Coins          int64       `json:"coins,omitempty"`
	Amount         money.Cents `json:"amount"`
	Description    string      `json:"description,omitempty"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

func NewLedgerEvent(eventType, userID, referenceID string) LedgerEvent {
	return LedgerEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		UserID:      userID,
		ReferenceID: referenceID,
		OccurredAt:  time.Now().UTC(),
	}
}
