package repositories

import (
	"context"
	"time"

	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *Task) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Task, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*Task, error)
	// ListForDate returns tasks scheduled on date, optionally narrowed to a
	// housekeeper and/or statuses.
	ListForDate(
		ctx context.Context,
		tx *gorm.DB,
		date time.Time,
		housekeeperID *uuid.UUID,
		statuses []TaskStatus,
	) ([]*Task, error)
	// FindDepartureForRoom locates a non-terminal DEPARTURE task for the room
	// on the given date. Returns nil when none exists.
	FindDepartureForRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, date time.Time) (*Task, error)
	// UpdateGuarded applies updates only while the task still holds the
	// expected status. The returned row count is the optimistic-concurrency
	// signal: zero means another transition won the race.
	UpdateGuarded(
		ctx context.Context,
		tx *gorm.DB,
		id uuid.UUID,
		expected TaskStatus,
		updates map[string]any,
	) (int64, error)
	SetChecklistTemplates(ctx context.Context, tx *gorm.DB, task *Task, templates []ChecklistTemplate) error
	CountByStatusForDate(ctx context.Context, tx *gorm.DB, date time.Time) (map[TaskStatus]int64, error)
}

type taskRepository struct{}

func NewTaskRepository() TaskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, tx *gorm.DB, task *Task) error {
	log := logger.New("taskRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		return log.Err("failed to create task", err,
			"cleaningType", task.CleaningType, "scheduledDate", task.ScheduledDate)
	}

	return nil
}

func (r *taskRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Task, error) {
	log := logger.New("taskRepository").Function("GetByID")

	var task Task
	if err := tx.WithContext(ctx).
		Preload("Room").
		Preload("Zone").
		Preload("Booking").
		Preload("AssignedHousekeeper").
		First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get task", err, "taskID", id)
	}

	return &task, nil
}

func (r *taskRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) ([]*Task, error) {
	log := logger.New("taskRepository").Function("GetByIDs")

	var tasks []*Task
	if err := tx.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get tasks by ids", err, "count", len(ids))
	}

	return tasks, nil
}

func (r *taskRepository) ListForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
	housekeeperID *uuid.UUID,
	statuses []TaskStatus,
) ([]*Task, error) {
	log := logger.New("taskRepository").Function("ListForDate")

	query := tx.WithContext(ctx).
		Preload("Room").
		Preload("Zone").
		Preload("AssignedHousekeeper").
		Where("scheduled_date = ?", date)

	if housekeeperID != nil {
		query = query.Where("assigned_housekeeper_id = ?", housekeeperID)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var tasks []*Task
	if err := query.
		Order("is_rush DESC, due_time ASC NULLS LAST, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to list tasks for date", err, "date", date)
	}

	return tasks, nil
}

func (r *taskRepository) FindDepartureForRoom(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	date time.Time,
) (*Task, error) {
	log := logger.New("taskRepository").Function("FindDepartureForRoom")

	var task Task
	err := tx.WithContext(ctx).
		Where(
			"room_id = ? AND scheduled_date = ? AND cleaning_type = ? AND status NOT IN ?",
			roomID, date, CleaningDeparture,
			[]TaskStatus{TaskChecked, TaskCanceled},
		).
		First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to find departure task", err, "roomID", roomID)
	}

	return &task, nil
}

func (r *taskRepository) UpdateGuarded(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	expected TaskStatus,
	updates map[string]any,
) (int64, error) {
	log := logger.New("taskRepository").Function("UpdateGuarded")

	result := tx.WithContext(ctx).
		Model(&Task{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return 0, log.Err("failed to update task", result.Error, "taskID", id)
	}

	return result.RowsAffected, nil
}

func (r *taskRepository) SetChecklistTemplates(
	ctx context.Context,
	tx *gorm.DB,
	task *Task,
	templates []ChecklistTemplate,
) error {
	log := logger.New("taskRepository").Function("SetChecklistTemplates")

	if err := tx.WithContext(ctx).
		Model(task).
		Association("ChecklistTemplates").
		Replace(templates); err != nil {
		return log.Err("failed to set checklist templates", err, "taskID", task.ID)
	}

	return nil
}

func (r *taskRepository) CountByStatusForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (map[TaskStatus]int64, error) {
	log := logger.New("taskRepository").Function("CountByStatusForDate")

	type row struct {
		Status TaskStatus
		Count  int64
	}

	var rows []row
	if err := tx.WithContext(ctx).
		Model(&Task{}).
		Select("status, COUNT(*) as count").
		Where("scheduled_date = ?", date).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count tasks by status", err, "date", date)
	}

	counts := make(map[TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}
