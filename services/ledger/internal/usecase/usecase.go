package usecase

import (
	"context"
	"errors"
	"io"
	"time"

	"soundstage/pkg/logger"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"
)

// Metric flow labels.
const (
	flowPurchase   = "coin_purchase"
	flowConfirm    = "purchase_confirm"
	flowRSVP       = "rsvp"
	flowWithdrawal = "withdrawal"
	flowExport     = "payout_export"
	flowSale       = "product_sale"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// EventPublisher is implemented by *queue.Client.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event queue.LedgerEvent) error
}

// ObjectStorage is implemented by *s3.Client.
type ObjectStorage interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

var businessErrors = []error{
	entity.ErrInvalidAmount,
	entity.ErrOutOfRange,
	entity.ErrMissingFields,
	entity.ErrBelowMinimum,
	entity.ErrInvalidCapacity,
	entity.ErrInvalidStatus,
	entity.ErrInvalidProduct,
	entity.ErrForbidden,
	entity.ErrUserNotFound,
	entity.ErrSessionNotFound,
	entity.ErrProductNotFound,
	entity.ErrTransactionNotFound,
	entity.ErrAlreadyRegistered,
	entity.ErrSessionFull,
	entity.ErrOutOfStock,
	entity.ErrInvalidTransition,
	entity.ErrNothingToExport,
	entity.ErrInsufficientFunds,
	entity.ErrInsufficientBalance,
}

// IsBusinessError reports whether err is a rule violation rather than an
// infrastructure failure.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsBusinessError(err):
		return "rejected"
	default:
		return "error"
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type eventSink struct {
	publisher EventPublisher
	logger    *logger.Logger
}

// publish sends the event in the background once the database work has
// committed. Failures are logged and never reach the caller.
func (s eventSink) publish(event queue.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish %s event %s: %v", event.Type, event.ID, err)
		}
	}()
}
