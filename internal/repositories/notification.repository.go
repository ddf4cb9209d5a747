package repositories

import (
	"context"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*Notification, error)
	ListUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Notification, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// MarkRead only touches rows owned by userID; marking an already-read
	// notification is a no-op.
	MarkRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	notification *Notification,
) error {
	log := logger.New("notificationRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err,
			"userID", notification.UserID, "type", notification.NotificationType)
	}

	return nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Notification, error) {
	log := logger.New("notificationRepository").Function("ListByUser")

	if limit <= 0 {
		limit = 50
	}

	var notifications []*Notification
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, log.Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) ListUnread(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Notification, error) {
	log := logger.New("notificationRepository").Function("ListUnread")

	var notifications []*Notification
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, log.Err("failed to list unread notifications", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := logger.New("notificationRepository").Function("CountUnread")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count unread notifications", err, "userID", userID)
	}

	return count, nil
}

func (r *notificationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	ids []uuid.UUID,
) error {
	log := logger.New("notificationRepository").Function("MarkRead")

	if len(ids) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_read", true).Error; err != nil {
		return log.Err("failed to mark notifications read", err, "userID", userID)
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) error {
	log := logger.New("notificationRepository").Function("MarkAllRead")

	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return log.Err("failed to mark all notifications read", err, "userID", userID)
	}

	return nil
}
