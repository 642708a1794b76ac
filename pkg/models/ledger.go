package models

import (
	"time"

	"soundstage/pkg/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction amounts are in coins; AmountInCurrency is set for coin purchases.
type Transaction struct {
	ID                 string       `gorm:"type:uuid;primary_key" json:"id"`
	UserID             string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type               string       `gorm:"type:varchar(30);not null" json:"type"`
	Amount             int64        `gorm:"not null" json:"amount"`
	AmountInCurrency   *money.Cents `json:"amount_in_currency,omitempty"`
	Status             string       `gorm:"type:varchar(20);not null;index" json:"status"`
	ExternalPaymentRef *string      `gorm:"uniqueIndex" json:"external_payment_ref,omitempty"`
	Description        string       `json:"description"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type Earning struct {
	ID        string      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string      `gorm:"type:uuid;not null;index:idx_earnings_user_status" json:"user_id"`
	Type      string      `gorm:"type:varchar(20);not null" json:"type"`
	Amount    money.Cents `gorm:"not null" json:"amount"`
	Source    string      `json:"source"`
	Status    string      `gorm:"type:varchar(20);not null;index:idx_earnings_user_status" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Earning) TableName() string {
	return "earnings"
}

func (e *Earning) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

type Withdrawal struct {
	ID            string      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        money.Cents `gorm:"not null" json:"amount"`
	BankName      string      `gorm:"not null" json:"bank_name"`
	AccountNumber string      `gorm:"not null" json:"account_number"`
	AccountHolder string      `gorm:"not null" json:"account_holder"`
	Status        string      `gorm:"type:varchar(20);not null;index" json:"status"`
	ExportKey     *string     `json:"export_key,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
