package persistent

import (
	"context"

	"soundstage/pkg/models"
	"soundstage/services/ledger/internal/entity"

	"gorm.io/gorm"
)

func (r *ledgerRepository) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	var userModel models.User
	err := r.db.WithContext(ctx).
		Preload("Roles", "is_active = ?", true).
		Where("id = ?", userID).
		First(&userModel).Error
	if err != nil {
		return nil, notFound(err, entity.ErrUserNotFound)
	}
	return ToUserEntity(&userModel), nil
}

func (r *ledgerRepository) LockUser(ctx context.Context, userID string) (*entity.User, error) {
	var userModel models.User
	if err := r.forUpdate(ctx).Where("id = ?", userID).First(&userModel).Error; err != nil {
		return nil, notFound(err, entity.ErrUserNotFound)
	}
	return ToUserEntity(&userModel), nil
}

func (r *ledgerRepository) CreditCoins(ctx context.Context, userID string, coins int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("coin_balance", gorm.Expr("coin_balance + ?", coins))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

// DebitCoins only applies when the balance covers the debit, so a balance can
// never go negative even if the caller skipped the read.
func (r *ledgerRepository) DebitCoins(ctx context.Context, userID string, coins int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND coin_balance >= ?", userID, coins).
		Update("coin_balance", gorm.Expr("coin_balance - ?", coins))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrInsufficientFunds
	}
	return nil
}
