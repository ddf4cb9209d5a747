package repositories

import (
	"context"
	"time"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushTokenRepository interface {
	// Register binds the token to the user. A token previously bound to a
	// different user is rebound, so a device changing hands never pushes to
	// its former owner.
	Register(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token, platform string, now time.Time) error
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*PushToken, error)
	// DeleteByToken removes the binding only when the token belongs to
	// userID; a caller cannot unbind another account's device.
	DeleteByToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID, token string) error
}

type pushTokenRepository struct{}

func NewPushTokenRepository() PushTokenRepository {
	return &pushTokenRepository{}
}

func (r *pushTokenRepository) Register(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	token, platform string,
	now time.Time,
) error {
	log := logger.New("pushTokenRepository").Function("Register")

	pushToken := PushToken{
		UserID:           userID,
		Token:            token,
		Platform:         platform,
		LastRegisteredAt: now,
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{"user_id", "platform", "last_registered_at"},
			),
		}).
		Create(&pushToken).Error; err != nil {
		return log.Err("failed to register push token", err, "userID", userID)
	}

	return nil
}

func (r *pushTokenRepository) GetByUserIDs(
	ctx context.Context,
	tx *gorm.DB,
	userIDs []uuid.UUID,
) ([]*PushToken, error) {
	log := logger.New("pushTokenRepository").Function("GetByUserIDs")

	if len(userIDs) == 0 {
		return nil, nil
	}

	var tokens []*PushToken
	if err := tx.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&tokens).Error; err != nil {
		return nil, log.Err("failed to get push tokens", err, "userCount", len(userIDs))
	}

	return tokens, nil
}

func (r *pushTokenRepository) DeleteByToken(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	token string,
) error {
	log := logger.New("pushTokenRepository").Function("DeleteByToken")

	if err := tx.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&PushToken{}).Error; err != nil {
		return log.Err("failed to delete push token", err, "userID", userID)
	}

	return nil
}
