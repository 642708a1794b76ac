package usecase

import (
	"context"
	"fmt"
	"strconv"

	"soundstage/pkg/logger"
	"soundstage/pkg/metrics"
	"soundstage/pkg/money"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/payment"
	"soundstage/services/ledger/internal/repo/persistent"
)

const (
	MinPurchaseAmount money.Cents = 1000
	MaxPurchaseAmount money.Cents = 1000000
)

type PurchaseResult struct {
	ClientSecret string              `json:"client_secret"`
	Transaction  *entity.Transaction `json:"transaction"`
	Coins        int64               `json:"coins"`
}

type CoinUseCase interface {
	Purchase(ctx context.Context, userID string, amount money.Cents) (*PurchaseResult, error)
	ConfirmPurchase(ctx context.Context, reference string) (*entity.Transaction, error)
	FailPurchase(ctx context.Context, reference string) (*entity.Transaction, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)
}

type coinUseCase struct {
	repo     persistent.LedgerRepository
	gateway  payment.Gateway
	currency string
	events   eventSink
	logger   *logger.Logger
}

func NewCoinUseCase(repo persistent.LedgerRepository, gateway payment.Gateway, publisher EventPublisher, currency string, logger *logger.Logger) CoinUseCase {
	return &coinUseCase{
		repo:     repo,
		gateway:  gateway,
		currency: currency,
		events:   eventSink{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

// Purchase opens a pending coin purchase backed by a payment intent. Coins
// are credited later by ConfirmPurchase.
func (uc *coinUseCase) Purchase(ctx context.Context, userID string, amount money.Cents) (*PurchaseResult, error) {
	result, err := uc.purchase(ctx, userID, amount)
	metrics.RecordOperation(flowPurchase, outcome(err))
	return result, err
}

func (uc *coinUseCase) purchase(ctx context.Context, userID string, amount money.Cents) (*PurchaseResult, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}
	if amount < MinPurchaseAmount || amount > MaxPurchaseAmount {
		return nil, entity.ErrOutOfRange
	}

	coins, err := money.CurrencyToCoins(amount)
	if err != nil {
		return nil, entity.ErrInvalidAmount
	}

	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	intent, err := uc.gateway.CreateIntent(ctx, payment.Intent{
		AmountMinor: int64(amount),
		Currency:    uc.currency,
		Metadata: map[string]string{
			"user_id": userID,
			"coins":   strconv.FormatInt(coins, 10),
			"type":    "coin_purchase",
		},
	})
	if err != nil {
		uc.logger.Error("Failed to create payment intent for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := &entity.Transaction{
		UserID:             userID,
		Type:               entity.TransactionTypeCoinPurchase,
		Amount:             coins,
		AmountInCurrency:   &amount,
		Status:             entity.TransactionStatusPending,
		ExternalPaymentRef: &intent.Reference,
		Description:        fmt.Sprintf("Purchase %d coins", coins),
	}
	if err := uc.repo.CreateTransaction(ctx, transaction); err != nil {
		uc.logger.Error("Failed to record pending purchase for intent %s: %v", intent.Reference, err)
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	uc.logger.Info("Pending purchase of %d coins created for user %s", coins, userID)
	return &PurchaseResult{
		ClientSecret: intent.ClientSecret,
		Transaction:  transaction,
		Coins:        coins,
	}, nil
}

// ConfirmPurchase credits the coins of a pending purchase exactly once.
// Confirming an already completed purchase returns it unchanged.
func (uc *coinUseCase) ConfirmPurchase(ctx context.Context, reference string) (*entity.Transaction, error) {
	var confirmed *entity.Transaction
	credited := false

	err := uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		transaction, err := tx.LockTransactionByReference(ctx, reference)
		if err != nil {
			return err
		}

		switch transaction.Status {
		case entity.TransactionStatusCompleted:
			confirmed = transaction
			return nil
		case entity.TransactionStatusFailed:
			return entity.ErrInvalidTransition
		}

		if err := tx.CreditCoins(ctx, transaction.UserID, transaction.Amount); err != nil {
			return err
		}
		if err := tx.UpdateTransactionStatus(ctx, transaction.ID, entity.TransactionStatusCompleted); err != nil {
			return err
		}

		transaction.Status = entity.TransactionStatusCompleted
		confirmed = transaction
		credited = true
		return nil
	})
	metrics.RecordOperation(flowConfirm, outcome(err))
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to confirm purchase %s: %v", reference, err)
		return nil, fmt.Errorf("failed to confirm purchase: %w", err)
	}

	if credited {
		metrics.RecordCredit(flowPurchase, confirmed.Amount)
		uc.logger.Info("Credited %d coins to user %s for %s", confirmed.Amount, confirmed.UserID, reference)

		event := queue.NewLedgerEvent(queue.EventCoinsCredited, confirmed.UserID, confirmed.ID)
		event.Coins = confirmed.Amount
		if confirmed.AmountInCurrency != nil {
			event.Amount = *confirmed.AmountInCurrency
		}
		event.Description = confirmed.Description
		uc.events.publish(event)
	}
	return confirmed, nil
}

func (uc *coinUseCase) FailPurchase(ctx context.Context, reference string) (*entity.Transaction, error) {
	var failed *entity.Transaction

	err := uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		transaction, err := tx.LockTransactionByReference(ctx, reference)
		if err != nil {
			return err
		}

		switch transaction.Status {
		case entity.TransactionStatusFailed:
			failed = transaction
			return nil
		case entity.TransactionStatusCompleted:
			return entity.ErrInvalidTransition
		}

		if err := tx.UpdateTransactionStatus(ctx, transaction.ID, entity.TransactionStatusFailed); err != nil {
			return err
		}
		transaction.Status = entity.TransactionStatusFailed
		failed = transaction
		return nil
	})
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to mark purchase %s failed: %v", reference, err)
		return nil, fmt.Errorf("failed to fail purchase: %w", err)
	}
	return failed, nil
}

func (uc *coinUseCase) GetBalance(ctx context.Context, userID string) (int64, error) {
	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CoinBalance, nil
}

func (uc *coinUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	limit, offset = normalizePage(limit, offset)
	transactions, err := uc.repo.GetTransactions(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}
