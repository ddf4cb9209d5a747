package services

import (
	"context"
	"fmt"
	"time"

	"roomflow/internal/apperrors"
	"roomflow/internal/clock"
	"roomflow/internal/events"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentService handles bulk assignment: a supervisor hands a
// housekeeper a set of unassigned tasks for one date in a single atomic
// batch, announced with one notification instead of one per task.
type AssignmentService struct {
	transaction *TransactionService
	taskRepo    repositories.TaskRepository
	userRepo    repositories.UserRepository
	eventBus    *events.EventBus
	clock       clock.Clock
	log         logger.Logger
}

func NewAssignmentService(
	transaction *TransactionService,
	repos repositories.Repository,
	eventBus *events.EventBus,
	clk clock.Clock,
) *AssignmentService {
	return &AssignmentService{
		transaction: transaction,
		taskRepo:    repos.Task,
		userRepo:    repos.User,
		eventBus:    eventBus,
		clock:       clk,
		log:         logger.New("AssignmentService"),
	}
}

// AssignMultiple moves every listed task from UNASSIGNED to ASSIGNED for the
// housekeeper, all-or-nothing. All tasks must exist and be scheduled on the
// caller-supplied date; a task that raced out of UNASSIGNED fails the whole
// batch with Conflict.
func (s *AssignmentService) AssignMultiple(
	ctx context.Context,
	taskIDs []uuid.UUID,
	housekeeperID uuid.UUID,
	scheduledDate time.Time,
	actor *models.User,
) ([]*models.Task, error) {
	log := s.log.Function("AssignMultiple")

	if !actor.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}
	if len(taskIDs) == 0 {
		return nil, apperrors.Validation("no task ids provided")
	}

	var tasks []*models.Task

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		housekeeper, err := s.userRepo.GetByID(ctx, tx, housekeeperID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("housekeeper")
			}
			return err
		}
		if housekeeper.Role != models.RoleHousekeeper {
			return apperrors.ValidationFields("assignee must be a housekeeper", map[string]string{
				"housekeeperId": "user does not hold the HOUSEKEEPER role",
			})
		}

		tasks, err = s.taskRepo.GetByIDs(ctx, tx, taskIDs)
		if err != nil {
			return err
		}
		if len(tasks) != len(taskIDs) {
			return apperrors.ValidationFields("unknown tasks in batch", map[string]string{
				"taskIds": fmt.Sprintf("found %d of %d tasks", len(tasks), len(taskIDs)),
			})
		}

		loc := s.clock.Location()
		date := clock.DateOf(scheduledDate, loc)
		if err := ValidateBatch(tasks, date, loc); err != nil {
			return err
		}

		now := s.clock.Now()
		for _, task := range tasks {
			rows, err := s.taskRepo.UpdateGuarded(ctx, tx, task.ID, models.TaskUnassigned,
				map[string]any{
					"status":                  models.TaskAssigned,
					"assigned_housekeeper_id": housekeeperID,
					"assigning_user_id":       actor.ID,
					"assigned_at":             now,
				})
			if err != nil {
				return err
			}
			if rows == 0 {
				return apperrors.Conflict("a task in the batch was modified concurrently, retry")
			}
			task.Status = models.TaskAssigned
			task.AssignedHousekeeperID = &housekeeperID
			task.AssignedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	taskID := tasks[0].ID
	event := events.Event{
		Type:     events.MULTIPLE_TASKS_ASSIGNED,
		TaskID:   &taskID,
		Title:    "Tasks assigned",
		Body:     fmt.Sprintf("You were assigned %d cleaning tasks", len(tasks)),
		UserIDs:  []uuid.UUID{housekeeperID},
		Data:     map[string]any{"count": len(tasks)},
		SaveToDB: true,
	}
	if err := s.eventBus.Publish(events.NOTIFICATIONS_CHANNEL, event); err != nil {
		log.Er("failed to publish batch assignment event", err, "housekeeperID", housekeeperID)
	}

	log.Info("batch assignment applied",
		"count", len(tasks), "housekeeperID", housekeeperID, "actorID", actor.ID)

	return tasks, nil
}

// ValidateBatch rejects the whole batch when any task is scheduled outside
// the caller-supplied date or has already left UNASSIGNED.
func ValidateBatch(tasks []*models.Task, date time.Time, loc *time.Location) error {
	for _, task := range tasks {
		if !clock.SameDay(task.ScheduledDate, date, loc) {
			return apperrors.ValidationFields("batch date mismatch", map[string]string{
				"scheduledDate": fmt.Sprintf("task %s is not scheduled on %s",
					task.ID, date.Format("2006-01-02")),
			})
		}
		if task.Status != models.TaskUnassigned {
			return apperrors.IllegalTransition(string(task.Status), string(ActionAssign))
		}
	}
	return nil
}
