package repositories

import (
	"context"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Room, error)
	// SetStatus is the single mutation point for the derived room status.
	// Only the lifecycle service calls it.
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status RoomStatus) error
}

type roomRepository struct{}

func NewRoomRepository() RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Room, error) {
	log := logger.New("roomRepository").Function("GetByID")

	var room Room
	if err := tx.WithContext(ctx).
		Preload("RoomType").
		First(&room, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get room", err, "roomID", id)
	}

	return &room, nil
}

func (r *roomRepository) List(ctx context.Context, tx *gorm.DB) ([]*Room, error) {
	log := logger.New("roomRepository").Function("List")

	var rooms []*Room
	if err := tx.WithContext(ctx).
		Preload("RoomType").
		Order("number ASC").
		Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to list rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status RoomStatus,
) error {
	log := logger.New("roomRepository").Function("SetStatus")

	result := tx.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to set room status", result.Error, "roomID", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
