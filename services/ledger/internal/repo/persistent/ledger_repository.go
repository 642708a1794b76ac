package persistent

import (
	"context"
	"errors"
	"strings"

	"soundstage/pkg/money"
	"soundstage/services/ledger/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the ledger store. Methods called on the repository
// handed to WithinTx run inside that database transaction.
type LedgerRepository interface {
	WithinTx(ctx context.Context, fn func(repo LedgerRepository) error) error

	GetUser(ctx context.Context, userID string) (*entity.User, error)
	LockUser(ctx context.Context, userID string) (*entity.User, error)
	CreditCoins(ctx context.Context, userID string, coins int64) error
	DebitCoins(ctx context.Context, userID string, coins int64) error

	CreateTransaction(ctx context.Context, transaction *entity.Transaction) error
	LockTransactionByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, transactionID string, status entity.TransactionStatus) error
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)

	CreateSession(ctx context.Context, session *entity.LiveSession) error
	LockSession(ctx context.Context, sessionID string) (*entity.LiveSession, error)
	ListSessions(ctx context.Context, statuses []entity.SessionStatus) ([]*entity.LiveSession, error)
	IncrementAttendees(ctx context.Context, sessionID string) error
	HasRSVP(ctx context.Context, userID, sessionID string) (bool, error)
	CreateRSVP(ctx context.Context, rsvp *entity.RSVP) error

	CreateEarning(ctx context.Context, earning *entity.Earning) error
	SumAvailableEarnings(ctx context.Context, userID string) (money.Cents, error)
	LockAvailableEarnings(ctx context.Context, userID string) ([]*entity.Earning, error)
	MarkEarningsWithdrawn(ctx context.Context, earningIDs []string) (int64, error)

	CreateWithdrawal(ctx context.Context, withdrawal *entity.Withdrawal) error
	GetWithdrawals(ctx context.Context, userID string) ([]*entity.Withdrawal, error)
	LockWithdrawalsByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error)
	MarkWithdrawalsProcessing(ctx context.Context, withdrawalIDs []string, exportKey string) (int64, error)

	CreateProduct(ctx context.Context, product *entity.Product) error
	ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)
	LockProduct(ctx context.Context, productID string) (*entity.Product, error)
	DecrementStock(ctx context.Context, productID string) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithinTx(ctx context.Context, fn func(repo LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}

func (r *ledgerRepository) forUpdate(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// isDuplicateKey recognises unique violations from the postgres driver and,
// for the sqlite test database, from the error text.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
