package service

import (
	"context"
	"fmt"
	"time"

	"socialink/backend/internal/hub"
	"socialink/backend/internal/logger"
	"socialink/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier is the emission side of the notification engine, consumed by
// the social graph, interaction and messaging engines.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID uint, kind models.NotificationKind, content string, relatedID *uint) error
}

const unreadCountTTL = 10 * time.Minute

// NotificationService maintains the append-only notification log per
// recipient. The relational store is the source of truth; the optional
// redis client only caches the unread count for badge reads and is
// invalidated on every write that could change it. Connected recipients
// also get a best-effort push over the event hub.
type NotificationService struct {
	db     *gorm.DB
	rdb    *redis.Client
	events *hub.Hub
}

// NewNotificationService creates the notification engine. rdb and events
// may be nil.
func NewNotificationService(db *gorm.DB, rdb *redis.Client, events *hub.Hub) *NotificationService {
	return &NotificationService{db: db, rdb: rdb, events: events}
}

var _ Notifier = (*NotificationService)(nil)

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("notify:unread:%d", userID)
}

// Notify appends a notification. The kind must belong to the closed set;
// no other validation is performed.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID uint, kind models.NotificationKind, content string, relatedID *uint) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown notification kind %q", ErrValidation, kind)
	}

	n := models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		Content:     content,
		RelatedID:   relatedID,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, recipientID)
	if s.events != nil {
		s.events.Publish(recipientID, hub.Event{Type: "notification.new", Payload: n})
	}
	return nil
}

// ListForRecipient returns the actor's notifications newest-first.
// Opening the notifications view marks everything unread as read, in the
// same transaction as the listing; the badge is only meaningful before
// this call.
func (s *NotificationService) ListForRecipient(ctx context.Context, actorID uint) ([]models.Notification, error) {
	var notifications []models.Notification

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Sender").
			Where("recipient_id = ?", actorID).
			Order("created_at DESC, id DESC").
			Find(&notifications).Error; err != nil {
			return err
		}

		return tx.Model(&models.Notification{}).
			Where("recipient_id = ? AND is_read = ?", actorID, false).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}

	for i := range notifications {
		notifications[i].IsRead = true
	}

	s.invalidateUnreadCount(ctx, actorID)
	return notifications, nil
}

// UnreadCount is a pure read used for badge counters; it never marks
// anything read.
func (s *NotificationService) UnreadCount(ctx context.Context, actorID uint) (int64, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, unreadCountKey(actorID)).Int64(); err == nil {
			return cached, nil
		} else if err != redis.Nil {
			logger.L().Warn("unread count cache read failed", zap.Error(err))
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", actorID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, unreadCountKey(actorID), count, unreadCountTTL).Err(); err != nil {
			logger.L().Warn("unread count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

// MarkOneRead marks a single notification read. Returns ErrNotFound if
// the notification does not exist or belongs to someone else.
func (s *NotificationService) MarkOneRead(ctx context.Context, actorID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, actorID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
	}

	s.invalidateUnreadCount(ctx, actorID)
	return nil
}

func (s *NotificationService) invalidateUnreadCount(ctx context.Context, userID uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		logger.L().Warn("unread count cache invalidation failed", zap.Error(err))
	}
}
