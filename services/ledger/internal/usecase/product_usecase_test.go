package usecase

import (
	"context"
	"testing"
	"time"

	"soundstage/pkg/models"
	"soundstage/pkg/money"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, merchantID string, price int64, stock *int) *models.Product {
	t.Helper()
	product := &models.Product{
		MerchantID:  merchantID,
		Name:        "Tour vinyl",
		Description: "Signed pressing",
		Category:    "music",
		Type:        "PHYSICAL",
		Price:       price,
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestProductPurchase_PaysMerchant(t *testing.T) {
	db, repo := setupTestDB(t)
	merchant := seedUser(t, db, 0, "MERCHANT")
	buyer := seedUser(t, db, 1000, "FAN")
	stock := 2
	product := seedProduct(t, db, merchant.ID, 400, &stock)
	publisher := &recordingPublisher{}
	uc := NewProductUseCase(repo, publisher, testLogger())

	result, err := uc.Purchase(context.Background(), buyer.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeProductPurchase, result.Transaction.Type)
	require.NotNil(t, result.Transaction.AmountInCurrency)
	assert.Equal(t, money.Cents(2000), *result.Transaction.AmountInCurrency)
	require.NotNil(t, result.Product.Stock)
	assert.Equal(t, 1, *result.Product.Stock)

	assert.Equal(t, int64(600), reloadUser(t, db, buyer.ID).CoinBalance)

	earnings := availableEarnings(t, db, merchant.ID)
	require.Len(t, earnings, 1)
	assert.Equal(t, money.Cents(1800), earnings[0].Amount)
	assert.Equal(t, "SALE", earnings[0].Type)

	assert.Eventually(t, func() bool { return len(publisher.Events()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, queue.EventProductSold, publisher.Events()[0].Type)
	assert.Equal(t, merchant.ID, publisher.Events()[0].CounterpartyID)
}

func TestProductPurchase_Rejections(t *testing.T) {
	db, repo := setupTestDB(t)
	merchant := seedUser(t, db, 0, "MERCHANT")
	uc := NewProductUseCase(repo, nil, testLogger())
	ctx := context.Background()

	t.Run("missing product", func(t *testing.T) {
		buyer := seedUser(t, db, 1000)
		_, err := uc.Purchase(ctx, buyer.ID, uuid.NewString())
		assert.ErrorIs(t, err, entity.ErrProductNotFound)
	})

	t.Run("inactive product", func(t *testing.T) {
		buyer := seedUser(t, db, 1000)
		product := seedProduct(t, db, merchant.ID, 10, nil)
		require.NoError(t, db.Model(product).Update("is_active", false).Error)
		_, err := uc.Purchase(ctx, buyer.ID, product.ID)
		assert.ErrorIs(t, err, entity.ErrProductNotFound)
	})

	t.Run("sold out", func(t *testing.T) {
		first := seedUser(t, db, 1000)
		second := seedUser(t, db, 1000)
		one := 1
		product := seedProduct(t, db, merchant.ID, 10, &one)
		_, err := uc.Purchase(ctx, first.ID, product.ID)
		require.NoError(t, err)

		_, err = uc.Purchase(ctx, second.ID, product.ID)
		assert.ErrorIs(t, err, entity.ErrOutOfStock)
		assert.Equal(t, int64(1000), reloadUser(t, db, second.ID).CoinBalance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		buyer := seedUser(t, db, 9)
		product := seedProduct(t, db, merchant.ID, 10, nil)
		_, err := uc.Purchase(ctx, buyer.ID, product.ID)
		assert.ErrorIs(t, err, entity.ErrInsufficientFunds)
	})
}

func TestCreateAndListProducts(t *testing.T) {
	db, repo := setupTestDB(t)
	merchant := seedUser(t, db, 0, "MERCHANT")
	fan := seedUser(t, db, 0, "FAN")
	uc := NewProductUseCase(repo, nil, testLogger())
	ctx := context.Background()

	input := CreateProductInput{
		Name:        "Sample pack",
		Description: "Drums",
		Category:    "audio",
		Type:        "digital",
		Price:       150,
	}
	product, err := uc.Create(ctx, merchant.ID, input)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductTypeDigital, product.Type)
	assert.True(t, product.IsActive)

	_, err = uc.Create(ctx, fan.ID, input)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	bad := input
	bad.Type = "SERVICE"
	_, err = uc.Create(ctx, merchant.ID, bad)
	assert.ErrorIs(t, err, entity.ErrInvalidProduct)

	bad = input
	bad.Category = ""
	_, err = uc.Create(ctx, merchant.ID, bad)
	assert.ErrorIs(t, err, entity.ErrMissingFields)

	bad = input
	bad.Price = -5
	_, err = uc.Create(ctx, merchant.ID, bad)
	assert.ErrorIs(t, err, entity.ErrInvalidAmount)

	products, total, err := uc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
}
