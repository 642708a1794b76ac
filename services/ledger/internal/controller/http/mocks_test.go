package http

import (
	"context"

	"soundstage/pkg/money"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/payment"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func setupTestRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	return r
}

type MockCoinUseCase struct {
	mock.Mock
}

func (m *MockCoinUseCase) Purchase(ctx context.Context, userID string, amount money.Cents) (*usecase.PurchaseResult, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PurchaseResult), args.Error(1)
}

func (m *MockCoinUseCase) ConfirmPurchase(ctx context.Context, reference string) (*entity.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockCoinUseCase) FailPurchase(ctx context.Context, reference string) (*entity.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockCoinUseCase) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoinUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) Create(ctx context.Context, hostID string, input usecase.CreateSessionInput) (*entity.LiveSession, error) {
	args := m.Called(ctx, hostID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LiveSession), args.Error(1)
}

func (m *MockSessionUseCase) List(ctx context.Context, status string) ([]*entity.LiveSession, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LiveSession), args.Error(1)
}

func (m *MockSessionUseCase) RSVP(ctx context.Context, userID, sessionID string) (*entity.RSVP, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RSVP), args.Error(1)
}

type MockWithdrawalUseCase struct {
	mock.Mock
}

func (m *MockWithdrawalUseCase) Request(ctx context.Context, userID string, input usecase.WithdrawalInput) (*entity.Withdrawal, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalUseCase) List(ctx context.Context, userID string) ([]*entity.Withdrawal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalUseCase) AvailableBalance(ctx context.Context, userID string) (money.Cents, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(money.Cents), args.Error(1)
}

func (m *MockWithdrawalUseCase) ExportPending(ctx context.Context, adminID string) (*usecase.ExportResult, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ExportResult), args.Error(1)
}

type MockProductUseCase struct {
	mock.Mock
}

func (m *MockProductUseCase) Create(ctx context.Context, merchantID string, input usecase.CreateProductInput) (*entity.Product, error) {
	args := m.Called(ctx, merchantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductUseCase) Purchase(ctx context.Context, buyerID, productID string) (*usecase.ProductPurchaseResult, error) {
	args := m.Called(ctx, buyerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ProductPurchaseResult), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

type memoryDeduper struct {
	seen      map[string]bool
	forgotten []string
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{seen: make(map[string]bool)}
}

func (d *memoryDeduper) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *memoryDeduper) Forget(_ context.Context, eventID string) error {
	delete(d.seen, eventID)
	d.forgotten = append(d.forgotten, eventID)
	return nil
}
