package repositories

import (
	"context"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ZoneRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Zone, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Zone, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status ZoneStatus) error
}

type zoneRepository struct{}

func NewZoneRepository() ZoneRepository {
	return &zoneRepository{}
}

func (r *zoneRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Zone, error) {
	log := logger.New("zoneRepository").Function("GetByID")

	var zone Zone
	if err := tx.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get zone", err, "zoneID", id)
	}

	return &zone, nil
}

func (r *zoneRepository) List(ctx context.Context, tx *gorm.DB) ([]*Zone, error) {
	log := logger.New("zoneRepository").Function("List")

	var zones []*Zone
	if err := tx.WithContext(ctx).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, log.Err("failed to list zones", err)
	}

	return zones, nil
}

func (r *zoneRepository) SetStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status ZoneStatus,
) error {
	log := logger.New("zoneRepository").Function("SetStatus")

	result := tx.WithContext(ctx).
		Model(&Zone{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to set zone status", result.Error, "zoneID", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
