package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soundstage/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	MaxNotifications = 200
	notificationTTL  = 30 * 24 * time.Hour
)

// NotificationStore keeps each user's notifications newest first. Push
// stores a batch atomically: either every notification lands or none does.
type NotificationStore interface {
	Push(ctx context.Context, notifications ...*entity.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
	Clear(ctx context.Context, userID string) error
}

type redisNotificationStore struct {
	client *redis.Client
}

func NewRedisNotificationStore(client *redis.Client) NotificationStore {
	return &redisNotificationStore{client: client}
}

func notificationsKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func (s *redisNotificationStore) Push(ctx context.Context, notifications ...*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, notification := range notifications {
		payload, err := json.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to marshal notification: %w", err)
		}
		key := notificationsKey(notification.UserID)
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, MaxNotifications-1)
		pipe.Expire(ctx, key, notificationTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}
	return nil
}

func (s *redisNotificationStore) List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	key := notificationsKey(userID)

	raw, err := s.client.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	total, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return decodeNotifications(raw), total, nil
}

func (s *redisNotificationStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, notificationsKey(userID)).Err()
}

// decodeNotifications skips entries that no longer parse.
func decodeNotifications(raw []string) []entity.Notification {
	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err == nil {
			notifications = append(notifications, n)
		}
	}
	return notifications
}
