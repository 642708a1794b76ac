package entity

import (
	"time"

	"soundstage/pkg/money"
)

type EarningType string

const (
	EarningTypeRSVP EarningType = "RSVP"
	EarningTypeSale EarningType = "SALE"
)

type EarningStatus string

const (
	EarningStatusAvailable EarningStatus = "AVAILABLE"
	EarningStatusWithdrawn EarningStatus = "WITHDRAWN"
)

type Earning struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Type      EarningType   `json:"type"`
	Amount    money.Cents   `json:"amount"`
	Source    string        `json:"source"`
	Status    EarningStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "PENDING"
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalStatusCompleted  WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected   WithdrawalStatus = "REJECTED"
)

type Withdrawal struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Amount        money.Cents      `json:"amount"`
	BankName      string           `json:"bank_name"`
	AccountNumber string           `json:"account_number"`
	AccountHolder string           `json:"account_holder"`
	Status        WithdrawalStatus `json:"status"`
	ExportKey     *string          `json:"export_key,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
