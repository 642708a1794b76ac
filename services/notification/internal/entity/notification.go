package entity

import "time"

const (
	TypeCoinsCredited      = "coins_credited"
	TypeRSVPConfirmed      = "rsvp_confirmed"
	TypeNewAttendee        = "new_attendee"
	TypeWithdrawalReceived = "withdrawal_received"
	TypePurchaseComplete   = "purchase_complete"
	TypeProductSold        = "product_sold"
)

// Notification represents a notification sent to a user
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
