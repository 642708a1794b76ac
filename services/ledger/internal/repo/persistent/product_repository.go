package persistent

import (
	"context"

	"soundstage/pkg/models"
	"soundstage/services/ledger/internal/entity"

	"gorm.io/gorm"
)

func (r *ledgerRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	productModel := ToProductModel(product)
	if err := r.db.WithContext(ctx).Create(productModel).Error; err != nil {
		return err
	}
	product.ID = productModel.ID
	product.CreatedAt = productModel.CreatedAt
	return nil
}

func (r *ledgerRepository) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	active := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true).Session(&gorm.Session{})

	var total int64
	if err := active.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []models.Product
	if err := active.Order("created_at DESC").Limit(limit).Offset(offset).Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*entity.Product, len(productModels))
	for i := range productModels {
		products[i] = ToProductEntity(&productModels[i])
	}
	return products, total, nil
}

// LockProduct returns only active products; inactive ones are reported as missing.
func (r *ledgerRepository) LockProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var productModel models.Product
	err := r.forUpdate(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		First(&productModel).Error
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	return ToProductEntity(&productModel), nil
}

func (r *ledgerRepository) DecrementStock(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock IS NOT NULL AND stock > 0", productID).
		Update("stock", gorm.Expr("stock - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrOutOfStock
	}
	return nil
}
