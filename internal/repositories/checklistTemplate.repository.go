package repositories

import (
	"context"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ChecklistTemplateRepository interface {
	ListByCleaningType(ctx context.Context, tx *gorm.DB, cleaningType CleaningType) ([]*ChecklistTemplate, error)
	List(ctx context.Context, tx *gorm.DB) ([]*ChecklistTemplate, error)
	Create(ctx context.Context, tx *gorm.DB, template *ChecklistTemplate) error
}

type checklistTemplateRepository struct{}

func NewChecklistTemplateRepository() ChecklistTemplateRepository {
	return &checklistTemplateRepository{}
}

func (r *checklistTemplateRepository) ListByCleaningType(
	ctx context.Context,
	tx *gorm.DB,
	cleaningType CleaningType,
) ([]*ChecklistTemplate, error) {
	log := logger.New("checklistTemplateRepository").Function("ListByCleaningType")

	var templates []*ChecklistTemplate
	if err := tx.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("cleaning_type = ?", cleaningType).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, log.Err("failed to list templates", err, "cleaningType", cleaningType)
	}

	return templates, nil
}

func (r *checklistTemplateRepository) List(
	ctx context.Context,
	tx *gorm.DB,
) ([]*ChecklistTemplate, error) {
	log := logger.New("checklistTemplateRepository").Function("List")

	var templates []*ChecklistTemplate
	if err := tx.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, log.Err("failed to list templates", err)
	}

	return templates, nil
}

func (r *checklistTemplateRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	template *ChecklistTemplate,
) error {
	log := logger.New("checklistTemplateRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(template).Error; err != nil {
		return log.Err("failed to create template", err, "name", template.Name)
	}

	return nil
}
