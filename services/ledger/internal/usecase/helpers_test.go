package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"soundstage/pkg/logger"
	"soundstage/pkg/models"
	"soundstage/pkg/queue"
	"soundstage/services/ledger/internal/payment"
	"soundstage/services/ledger/internal/repo/persistent"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, persistent.LedgerRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))
	return db, persistent.NewLedgerRepository(db)
}

func seedUser(t *testing.T, db *gorm.DB, balance int64, roles ...string) *models.User {
	t.Helper()
	user := &models.User{Email: uuid.NewString() + "@example.com", Name: "Test", CoinBalance: balance}
	require.NoError(t, db.Create(user).Error)
	for _, role := range roles {
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, Role: role, IsActive: true}).Error)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, intent payment.Intent) (*payment.IntentResult, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.IntentResult), args.Error(1)
}

var _ payment.Gateway = (*MockGateway)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(ctx context.Context, event queue.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []queue.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.LedgerEvent(nil), p.events...)
}

var _ EventPublisher = (*recordingPublisher)(nil)

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "https://payouts.example.com/" + key, nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

var _ ObjectStorage = (*fakeStorage)(nil)

func testLogger() *logger.Logger {
	return logger.NewNop()
}
