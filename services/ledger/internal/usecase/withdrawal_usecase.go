package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"soundstage/pkg/logger"
	"soundstage/pkg/metrics"
	"soundstage/pkg/money"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/repo/persistent"

	"github.com/google/uuid"
)

const MinimumWithdrawal money.Cents = 100000

var payoutHeader = []string{"id", "user_id", "amount", "bank_name", "account_number", "account_holder", "requested_at"}

type WithdrawalInput struct {
	Amount        money.Cents
	BankName      string
	AccountNumber string
	AccountHolder string
}

type ExportResult struct {
	Key   string      `json:"key"`
	URL   string      `json:"url"`
	Count int         `json:"count"`
	Total money.Cents `json:"total"`
}

type WithdrawalUseCase interface {
	Request(ctx context.Context, userID string, input WithdrawalInput) (*entity.Withdrawal, error)
	List(ctx context.Context, userID string) ([]*entity.Withdrawal, error)
	AvailableBalance(ctx context.Context, userID string) (money.Cents, error)
	ExportPending(ctx context.Context, adminID string) (*ExportResult, error)
}

type withdrawalUseCase struct {
	repo    persistent.LedgerRepository
	storage ObjectStorage
	events  eventSink
	logger  *logger.Logger
	now     func() time.Time
}

func NewWithdrawalUseCase(repo persistent.LedgerRepository, storage ObjectStorage, publisher EventPublisher, logger *logger.Logger) WithdrawalUseCase {
	return &withdrawalUseCase{
		repo:    repo,
		storage: storage,
		events:  eventSink{publisher: publisher, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

// Request files a withdrawal against the user's available earnings. Every
// AVAILABLE earning is marked WITHDRAWN, even when the requested amount is
// smaller than the pool.
func (uc *withdrawalUseCase) Request(ctx context.Context, userID string, input WithdrawalInput) (*entity.Withdrawal, error) {
	withdrawal, err := uc.request(ctx, userID, input)
	metrics.RecordOperation(flowWithdrawal, outcome(err))
	return withdrawal, err
}

func (uc *withdrawalUseCase) request(ctx context.Context, userID string, input WithdrawalInput) (*entity.Withdrawal, error) {
	if input.Amount == 0 ||
		strings.TrimSpace(input.BankName) == "" ||
		strings.TrimSpace(input.AccountNumber) == "" ||
		strings.TrimSpace(input.AccountHolder) == "" {
		return nil, entity.ErrMissingFields
	}
	if input.Amount < MinimumWithdrawal {
		return nil, entity.ErrBelowMinimum
	}

	var withdrawal *entity.Withdrawal
	err := uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		if _, err := tx.LockUser(ctx, userID); err != nil {
			return err
		}

		pool, err := tx.LockAvailableEarnings(ctx, userID)
		if err != nil {
			return err
		}
		var available money.Cents
		earningIDs := make([]string, len(pool))
		for i, earning := range pool {
			available += earning.Amount
			earningIDs[i] = earning.ID
		}
		if input.Amount > available {
			return entity.ErrInsufficientBalance
		}

		withdrawal = &entity.Withdrawal{
			UserID:        userID,
			Amount:        input.Amount,
			BankName:      strings.TrimSpace(input.BankName),
			AccountNumber: strings.TrimSpace(input.AccountNumber),
			AccountHolder: strings.TrimSpace(input.AccountHolder),
			Status:        entity.WithdrawalStatusPending,
		}
		if err := tx.CreateWithdrawal(ctx, withdrawal); err != nil {
			return err
		}

		_, err = tx.MarkEarningsWithdrawn(ctx, earningIDs)
		return err
	})
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to request withdrawal for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to request withdrawal: %w", err)
	}

	uc.logger.Info("Withdrawal %s of R%s requested by user %s", withdrawal.ID, withdrawal.Amount, userID)

	event := queue.NewLedgerEvent(queue.EventWithdrawalRequested, userID, withdrawal.ID)
	event.Amount = withdrawal.Amount
	uc.events.publish(event)

	return withdrawal, nil
}

func (uc *withdrawalUseCase) List(ctx context.Context, userID string) ([]*entity.Withdrawal, error) {
	withdrawals, err := uc.repo.GetWithdrawals(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to get withdrawals: %v", err)
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (uc *withdrawalUseCase) AvailableBalance(ctx context.Context, userID string) (money.Cents, error) {
	available, err := uc.repo.SumAvailableEarnings(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to sum earnings: %v", err)
		return 0, fmt.Errorf("failed to get available balance: %w", err)
	}
	return available, nil
}

// ExportPending writes every PENDING withdrawal to a CSV payout file in
// object storage and moves the exported rows to PROCESSING. The rows stay
// locked until the file is stored, so two exports never share a row.
func (uc *withdrawalUseCase) ExportPending(ctx context.Context, adminID string) (*ExportResult, error) {
	admin, err := uc.repo.GetUser(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.HasRole(entity.RoleAdmin) {
		return nil, entity.ErrForbidden
	}

	now := uc.now().UTC()
	key := fmt.Sprintf("payouts/%s/%s.csv", now.Format("20060102"), uuid.NewString())
	result := &ExportResult{Key: key}
	uploaded := false

	err = uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		pending, err := tx.LockWithdrawalsByStatus(ctx, entity.WithdrawalStatusPending)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return entity.ErrNothingToExport
		}

		body, err := renderPayoutCSV(pending)
		if err != nil {
			return err
		}

		url, err := uc.storage.UploadFile(ctx, key, bytes.NewReader(body), "text/csv")
		if err != nil {
			return fmt.Errorf("upload payout file: %w", err)
		}
		uploaded = true
		result.URL = url

		ids := make([]string, len(pending))
		for i, w := range pending {
			ids[i] = w.ID
			result.Total += w.Amount
		}
		result.Count = len(pending)

		_, err = tx.MarkWithdrawalsProcessing(ctx, ids, key)
		return err
	})
	metrics.RecordOperation(flowExport, outcome(err))
	if err != nil {
		if uploaded {
			if delErr := uc.storage.DeleteFile(ctx, key); delErr != nil {
				uc.logger.Warn("Failed to remove orphaned payout file %s: %v", key, delErr)
			}
		}
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to export pending withdrawals: %v", err)
		return nil, fmt.Errorf("failed to export withdrawals: %w", err)
	}

	uc.logger.Info("Exported %d withdrawals totalling R%s to %s", result.Count, result.Total, key)
	return result, nil
}

func renderPayoutCSV(withdrawals []*entity.Withdrawal) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(payoutHeader); err != nil {
		return nil, err
	}
	for _, wd := range withdrawals {
		record := []string{
			wd.ID,
			wd.UserID,
			wd.Amount.String(),
			wd.BankName,
			wd.AccountNumber,
			wd.AccountHolder,
			wd.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
