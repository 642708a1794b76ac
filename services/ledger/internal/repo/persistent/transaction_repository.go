package persistent

import (
	"context"

	"soundstage/pkg/models"
	"soundstage/services/ledger/internal/entity"
)

func (r *ledgerRepository) CreateTransaction(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := ToTransactionModel(transaction)
	if err := r.db.WithContext(ctx).Create(transactionModel).Error; err != nil {
		return err
	}
	transaction.ID = transactionModel.ID
	transaction.CreatedAt = transactionModel.CreatedAt
	return nil
}

func (r *ledgerRepository) LockTransactionByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transactionModel models.Transaction
	if err := r.forUpdate(ctx).Where("external_payment_ref = ?", reference).First(&transactionModel).Error; err != nil {
		return nil, notFound(err, entity.ErrTransactionNotFound)
	}
	return ToTransactionEntity(&transactionModel), nil
}

func (r *ledgerRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status entity.TransactionStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", transactionID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrTransactionNotFound
	}
	return nil
}

func (r *ledgerRepository) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	var transactionModels []models.Transaction
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}
