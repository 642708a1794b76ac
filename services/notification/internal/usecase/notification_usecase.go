package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soundstage/pkg/logger"
	"soundstage/pkg/queue"
	"soundstage/services/notification/internal/entity"
	"soundstage/services/notification/internal/repo/cache"
	"soundstage/services/notification/internal/repo/persistent"

	"github.com/google/uuid"
)

var ErrInvalidEvent = errors.New("invalid ledger event")

type NotificationUseCase interface {
	HandleLedgerEvent(ctx context.Context, event queue.LedgerEvent) error
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
	ClearNotifications(ctx context.Context, userID string) error
}

type notificationUseCase struct {
	store     cache.NotificationStore
	directory persistent.UserDirectory
	logger    *logger.Logger
}

func NewNotificationUseCase(store cache.NotificationStore, directory persistent.UserDirectory, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		store:     store,
		directory: directory,
		logger:    logger,
	}
}

func (uc *notificationUseCase) HandleLedgerEvent(ctx context.Context, event queue.LedgerEvent) error {
	if event.UserID == "" || event.ReferenceID == "" {
		return fmt.Errorf("%w: %s missing user or reference", ErrInvalidEvent, event.ID)
	}

	notifications, err := uc.notificationsFor(ctx, event)
	if err != nil {
		return err
	}

	if err := uc.store.Push(ctx, notifications...); err != nil {
		return err
	}

	uc.logger.Info("Stored %d notifications for event %s (%s)", len(notifications), event.ID, event.Type)
	return nil
}

func (uc *notificationUseCase) notificationsFor(ctx context.Context, event queue.LedgerEvent) ([]*entity.Notification, error) {
	data := map[string]interface{}{"reference_id": event.ReferenceID}

	switch event.Type {
	case queue.EventCoinsCredited:
		return []*entity.Notification{
			uc.newNotification(event, event.UserID, entity.TypeCoinsCredited, "Coins added",
				fmt.Sprintf("%d coins were added to your balance", event.Coins), data),
		}, nil

	case queue.EventRSVPSettled:
		if event.CounterpartyID == "" {
			return nil, fmt.Errorf("%w: %s has no host", ErrInvalidEvent, event.ID)
		}
		attendee := uc.displayName(ctx, event.UserID)
		return []*entity.Notification{
			uc.newNotification(event, event.UserID, entity.TypeRSVPConfirmed, "RSVP confirmed",
				fmt.Sprintf("You're on the list for %s", event.Description), data),
			uc.newNotification(event, event.CounterpartyID, entity.TypeNewAttendee, "New attendee",
				fmt.Sprintf("%s RSVP'd to %s. You earned R%s", attendee, event.Description, event.Amount), data),
		}, nil

	case queue.EventWithdrawalRequested:
		return []*entity.Notification{
			uc.newNotification(event, event.UserID, entity.TypeWithdrawalReceived, "Withdrawal requested",
				fmt.Sprintf("Your withdrawal of R%s is pending", event.Amount), data),
		}, nil

	case queue.EventProductSold:
		if event.CounterpartyID == "" {
			return nil, fmt.Errorf("%w: %s has no merchant", ErrInvalidEvent, event.ID)
		}
		buyer := uc.displayName(ctx, event.UserID)
		return []*entity.Notification{
			uc.newNotification(event, event.UserID, entity.TypePurchaseComplete, "Purchase complete",
				fmt.Sprintf("You bought %s for %d coins", event.Description, event.Coins), data),
			uc.newNotification(event, event.CounterpartyID, entity.TypeProductSold, "Item sold",
				fmt.Sprintf("%s bought %s. You earned R%s", buyer, event.Description, event.Amount), data),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
}

func (uc *notificationUseCase) newNotification(event queue.LedgerEvent, recipient, notificationType, title, message string, data map[string]interface{}) *entity.Notification {
	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &entity.Notification{
		ID:        uuid.NewString(),
		UserID:    recipient,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		Data:      data,
		CreatedAt: createdAt,
	}
}

func (uc *notificationUseCase) displayName(ctx context.Context, userID string) string {
	if uc.directory == nil {
		return "Someone"
	}
	name, err := uc.directory.GetUserName(ctx, userID)
	if err != nil || name == "" {
		uc.logger.Warn("Failed to resolve name for user %s: %v", userID, err)
		return "Someone"
	}
	return name
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	return uc.store.List(ctx, userID, limit, offset)
}

func (uc *notificationUseCase) ClearNotifications(ctx context.Context, userID string) error {
	if err := uc.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
