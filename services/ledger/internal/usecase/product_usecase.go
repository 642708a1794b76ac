package usecase

import (
	"context"
	"fmt"
	"strings"

	"soundstage/pkg/logger"
	"soundstage/pkg/metrics"
	"soundstage/pkg/money"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/repo/persistent"
)

type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Type        entity.ProductType
	Price       int64
	Stock       *int
}

type ProductPurchaseResult struct {
	Product     *entity.Product     `json:"product"`
	Transaction *entity.Transaction `json:"transaction"`
}

type ProductUseCase interface {
	Create(ctx context.Context, merchantID string, input CreateProductInput) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)
	Purchase(ctx context.Context, buyerID, productID string) (*ProductPurchaseResult, error)
}

type productUseCase struct {
	repo   persistent.LedgerRepository
	events eventSink
	logger *logger.Logger
}

func NewProductUseCase(repo persistent.LedgerRepository, publisher EventPublisher, logger *logger.Logger) ProductUseCase {
	return &productUseCase{
		repo:   repo,
		events: eventSink{publisher: publisher, logger: logger},
		logger: logger,
	}
}

func (uc *productUseCase) Create(ctx context.Context, merchantID string, input CreateProductInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		input.Type == "" ||
		input.Price == 0 {
		return nil, entity.ErrMissingFields
	}
	productType := entity.ProductType(strings.ToUpper(string(input.Type)))
	if !productType.Valid() {
		return nil, entity.ErrInvalidProduct
	}
	if input.Price < 0 || (input.Stock != nil && *input.Stock < 0) {
		return nil, entity.ErrInvalidAmount
	}

	merchant, err := uc.repo.GetUser(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if !merchant.HasRole(entity.RoleMerchant) {
		return nil, entity.ErrForbidden
	}

	product := &entity.Product{
		MerchantID:  merchantID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Type:        productType,
		Price:       input.Price,
		Stock:       input.Stock,
		IsActive:    true,
	}
	if err := uc.repo.CreateProduct(ctx, product); err != nil {
		uc.logger.Error("Failed to create product: %v", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (uc *productUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	limit, offset = normalizePage(limit, offset)
	products, total, err := uc.repo.ListProducts(ctx, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list products: %v", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Purchase pays for a product with coins. The merchant earns the merchant
// share of the price's currency value.
func (uc *productUseCase) Purchase(ctx context.Context, buyerID, productID string) (*ProductPurchaseResult, error) {
	var (
		product     *entity.Product
		transaction *entity.Transaction
		share       money.MerchantShare
	)

	err := uc.repo.WithinTx(ctx, func(tx persistent.LedgerRepository) error {
		var err error
		product, err = tx.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		if product.OutOfStock() {
			return entity.ErrOutOfStock
		}

		buyer, err := tx.LockUser(ctx, buyerID)
		if err != nil {
			return err
		}
		if buyer.CoinBalance < product.Price {
			return entity.ErrInsufficientFunds
		}

		if err := tx.DebitCoins(ctx, buyerID, product.Price); err != nil {
			return err
		}
		if product.Stock != nil {
			if err := tx.DecrementStock(ctx, productID); err != nil {
				return err
			}
			remaining := *product.Stock - 1
			product.Stock = &remaining
		}

		value := money.CoinsToCurrency(product.Price)
		transaction = &entity.Transaction{
			UserID:           buyerID,
			Type:             entity.TransactionTypeProductPurchase,
			Amount:           product.Price,
			AmountInCurrency: &value,
			Status:           entity.TransactionStatusCompleted,
			Description:      fmt.Sprintf("Purchase of %s", product.Name),
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return err
		}

		share = money.MerchantSplit(value)
		return tx.CreateEarning(ctx, &entity.Earning{
			UserID: product.MerchantID,
			Type:   entity.EarningTypeSale,
			Amount: share.Merchant,
			Source: fmt.Sprintf("Sale: %s", product.Name),
			Status: entity.EarningStatusAvailable,
		})
	})
	metrics.RecordOperation(flowSale, outcome(err))
	if err != nil {
		if IsBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("Failed to purchase product %s for user %s: %v", productID, buyerID, err)
		return nil, fmt.Errorf("failed to purchase product: %w", err)
	}

	metrics.RecordDebit(flowSale, product.Price)
	uc.logger.Info("User %s bought product %s for %d coins", buyerID, productID, product.Price)

	event := queue.NewLedgerEvent(queue.EventProductSold, buyerID, transaction.ID)
	event.CounterpartyID = product.MerchantID
	event.Coins = product.Price
	event.Amount = share.Merchant
	event.Description = product.Name
	uc.events.publish(event)

	return &ProductPurchaseResult{Product: product, Transaction: transaction}, nil
}
