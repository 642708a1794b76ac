package persistent

import (
	"context"

	"soundstage/pkg/models"
	"soundstage/pkg/money"
	"soundstage/services/ledger/internal/entity"
)

func (r *ledgerRepository) CreateEarning(ctx context.Context, earning *entity.Earning) error {
	earningModel := ToEarningModel(earning)
	if err := r.db.WithContext(ctx).Create(earningModel).Error; err != nil {
		return err
	}
	earning.ID = earningModel.ID
	earning.CreatedAt = earningModel.CreatedAt
	return nil
}

func (r *ledgerRepository) SumAvailableEarnings(ctx context.Context, userID string) (money.Cents, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Earning{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, string(entity.EarningStatusAvailable)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return money.Cents(total), nil
}

// LockAvailableEarnings row-locks the user's AVAILABLE earnings. Earnings
// committed after the lock is taken are not part of the result.
func (r *ledgerRepository) LockAvailableEarnings(ctx context.Context, userID string) ([]*entity.Earning, error) {
	var earningModels []models.Earning
	err := r.forUpdate(ctx).
		Where("user_id = ? AND status = ?", userID, string(entity.EarningStatusAvailable)).
		Order("created_at ASC").
		Find(&earningModels).Error
	if err != nil {
		return nil, err
	}
	earnings := make([]*entity.Earning, len(earningModels))
	for i := range earningModels {
		earnings[i] = ToEarningEntity(&earningModels[i])
	}
	return earnings, nil
}

// MarkEarningsWithdrawn flips exactly the given earnings to WITHDRAWN.
func (r *ledgerRepository) MarkEarningsWithdrawn(ctx context.Context, earningIDs []string) (int64, error) {
	if len(earningIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Earning{}).
		Where("id IN ? AND status = ?", earningIDs, string(entity.EarningStatusAvailable)).
		Update("status", string(entity.EarningStatusWithdrawn))
	return result.RowsAffected, result.Error
}

func (r *ledgerRepository) CreateWithdrawal(ctx context.Context, withdrawal *entity.Withdrawal) error {
	withdrawalModel := ToWithdrawalModel(withdrawal)
	if err := r.db.WithContext(ctx).Create(withdrawalModel).Error; err != nil {
		return err
	}
	withdrawal.ID = withdrawalModel.ID
	withdrawal.CreatedAt = withdrawalModel.CreatedAt
	return nil
}

func (r *ledgerRepository) GetWithdrawals(ctx context.Context, userID string) ([]*entity.Withdrawal, error) {
	var withdrawalModels []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawalModels).Error
	if err != nil {
		return nil, err
	}
	return toWithdrawalEntities(withdrawalModels), nil
}

func (r *ledgerRepository) LockWithdrawalsByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error) {
	var withdrawalModels []models.Withdrawal
	err := r.forUpdate(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&withdrawalModels).Error
	if err != nil {
		return nil, err
	}
	return toWithdrawalEntities(withdrawalModels), nil
}

func (r *ledgerRepository) MarkWithdrawalsProcessing(ctx context.Context, withdrawalIDs []string, exportKey string) (int64, error) {
	if len(withdrawalIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("id IN ? AND status = ?", withdrawalIDs, string(entity.WithdrawalStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.WithdrawalStatusProcessing),
			"export_key": exportKey,
		})
	return result.RowsAffected, result.Error
}

func toWithdrawalEntities(withdrawalModels []models.Withdrawal) []*entity.Withdrawal {
	withdrawals := make([]*entity.Withdrawal, len(withdrawalModels))
	for i := range withdrawalModels {
		withdrawals[i] = ToWithdrawalEntity(&withdrawalModels[i])
	}
	return withdrawals
}
