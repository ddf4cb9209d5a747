package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomflow/config"
	"roomflow/internal/apperrors"
	"roomflow/internal/clock"
	"roomflow/internal/events"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionAssign     Action = "assign"
	ActionUnassign   Action = "unassign"
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionStartCheck Action = "start_check"
	ActionCheck      Action = "check"
	ActionCancel     Action = "cancel"
)

// transitionRule is one row of the state machine table. The table is the
// single source of truth for which action is legal from which status and
// who may invoke it; effects are applied by the service methods below.
type transitionRule struct {
	from           []models.TaskStatus
	supervisorOnly bool
}

var transitionTable = map[Action]transitionRule{
	ActionAssign:     {from: []models.TaskStatus{models.TaskUnassigned}, supervisorOnly: true},
	ActionUnassign:   {from: []models.TaskStatus{models.TaskAssigned}, supervisorOnly: true},
	ActionStart:      {from: []models.TaskStatus{models.TaskUnassigned, models.TaskAssigned}},
	ActionComplete:   {from: []models.TaskStatus{models.TaskInProgress}},
	ActionStartCheck: {from: []models.TaskStatus{models.TaskWaitingCheck}, supervisorOnly: true},
	ActionCheck:      {from: []models.TaskStatus{models.TaskChecking}, supervisorOnly: true},
	ActionCancel: {
		from: []models.TaskStatus{
			models.TaskUnassigned, models.TaskAssigned, models.TaskInProgress,
			models.TaskWaitingCheck, models.TaskChecking,
		},
		supervisorOnly: true,
	},
}

// CanTransition reports whether action is legal from status.
func CanTransition(status models.TaskStatus, action Action) bool {
	rule, ok := transitionTable[action]
	if !ok {
		return false
	}
	for _, from := range rule.from {
		if from == status {
			return true
		}
	}
	return false
}

// CompletionTarget resolves where `complete` lands: stayover, public-area,
// and untyped tasks skip inspection and finish immediately.
func CompletionTarget(cleaningType *models.CleaningType) models.TaskStatus {
	if cleaningType.RequiresInspection() {
		return models.TaskWaitingCheck
	}
	return models.TaskChecked
}

// LifecycleService is the task state machine plus the booking check-in and
// check-out operations, kept together so the booking/task cycle stays behind
// one service. It is the sole writer of task status, task timestamps, and
// the derived Room/Zone status.
type LifecycleService struct {
	transaction   *TransactionService
	taskRepo      repositories.TaskRepository
	roomRepo      repositories.RoomRepository
	zoneRepo      repositories.ZoneRepository
	bookingRepo   repositories.BookingRepository
	userRepo      repositories.UserRepository
	checklist     *ChecklistService
	eventBus      *events.EventBus
	clock         clock.Clock
	departureHour int
	log           logger.Logger
}

func NewLifecycleService(
	transaction *TransactionService,
	repos repositories.Repository,
	checklist *ChecklistService,
	eventBus *events.EventBus,
	clk clock.Clock,
	config config.Config,
) *LifecycleService {
	return &LifecycleService{
		transaction:   transaction,
		taskRepo:      repos.Task,
		roomRepo:      repos.Room,
		zoneRepo:      repos.Zone,
		bookingRepo:   repos.Booking,
		userRepo:      repos.User,
		checklist:     checklist,
		eventBus:      eventBus,
		clock:         clk,
		departureHour: config.DepartureDueHour,
		log:           logger.New("LifecycleService"),
	}
}

func (s *LifecycleService) authorize(task *models.Task, actor *models.User, action Action) error {
	rule := transitionTable[action]

	if actor.Role.CanSupervise() {
		return nil
	}
	if rule.supervisorOnly {
		return apperrors.Forbidden("action requires a manager or front desk role")
	}
	if task.AssignedHousekeeperID != nil && *task.AssignedHousekeeperID == actor.ID {
		return nil
	}
	return apperrors.Forbidden("only the assignee may perform this action")
}

// transition loads the task, validates the table, authorizes the actor, and
// applies updates plus the derived target status inside one transaction.
// A lost optimistic-guard race surfaces as Conflict.
func (s *LifecycleService) transition(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
	action Action,
	buildUpdates func(task *models.Task) (map[string]any, models.TaskStatus),
	targetStatus func(task *models.Task) (roomStatus *models.RoomStatus, zoneStatus *models.ZoneStatus),
) (*models.Task, error) {
	log := s.log.Function("transition")

	var task *models.Task

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		task, err = s.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("task")
			}
			return err
		}

		if !CanTransition(task.Status, action) {
			return apperrors.IllegalTransition(string(task.Status), string(action))
		}

		if err := s.authorize(task, actor, action); err != nil {
			return err
		}

		updates, next := buildUpdates(task)
		updates["status"] = next

		rows, err := s.taskRepo.UpdateGuarded(ctx, tx, task.ID, task.Status, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.Conflict("task was modified concurrently, retry")
		}

		if targetStatus != nil {
			roomStatus, zoneStatus := targetStatus(task)
			if roomStatus != nil && task.RoomID != nil {
				if err := s.roomRepo.SetStatus(ctx, tx, *task.RoomID, *roomStatus); err != nil {
					return err
				}
			}
			if zoneStatus != nil && task.ZoneID != nil {
				if err := s.zoneRepo.SetStatus(ctx, tx, *task.ZoneID, *zoneStatus); err != nil {
					return err
				}
			}
		}

		task.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task transition applied",
		"taskID", taskID, "action", action, "status", task.Status, "actorID", actor.ID)

	return task, nil
}

// Assign sets the housekeeper on a single unassigned task.
func (s *LifecycleService) Assign(
	ctx context.Context,
	taskID uuid.UUID,
	housekeeperID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	housekeeper, err := s.resolveHousekeeper(ctx, housekeeperID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	task, err := s.transition(ctx, taskID, actor, ActionAssign,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{
				"assigned_housekeeper_id": housekeeperID,
				"assigning_user_id":       actor.ID,
				"assigned_at":             now,
			}, models.TaskAssigned
		}, nil)
	if err != nil {
		return nil, err
	}

	s.publish(events.Event{
		Type:     events.TASK_ASSIGNED,
		TaskID:   &task.ID,
		Title:    "New task assigned",
		Body:     fmt.Sprintf("You were assigned %s for %s", describeType(task.CleaningType), task.TargetLabel()),
		UserIDs:  []uuid.UUID{housekeeper.ID},
		Data:     taskEventData(task),
		SaveToDB: true,
	})

	return task, nil
}

// Unassign clears the housekeeper and returns the task to the pool.
func (s *LifecycleService) Unassign(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	return s.transition(ctx, taskID, actor, ActionUnassign,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{
				"assigned_housekeeper_id": nil,
				"assigning_user_id":       nil,
				"assigned_at":             nil,
			}, models.TaskUnassigned
		}, nil)
}

func (s *LifecycleService) Start(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	now := s.clock.Now()
	inProgressRoom := models.RoomInProgress
	inProgressZone := models.ZoneInProgress

	task, err := s.transition(ctx, taskID, actor, ActionStart,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{"started_at": now}, models.TaskInProgress
		},
		func(task *models.Task) (*models.RoomStatus, *models.ZoneStatus) {
			return &inProgressRoom, &inProgressZone
		})
	if err != nil {
		return nil, err
	}

	s.publish(events.Event{
		Type:      events.CLEANING_STARTED,
		TaskID:    &task.ID,
		Title:     "Cleaning started",
		Body:      fmt.Sprintf("%s started for %s", describeType(task.CleaningType), task.TargetLabel()),
		Roles:     []models.Role{models.RoleManager, models.RoleFrontDesk},
		PushRoles: []models.Role{models.RoleFrontDesk},
		Data:      taskEventData(task),
		SaveToDB:  false,
	})

	return task, nil
}

func (s *LifecycleService) Complete(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	now := s.clock.Now()

	task, err := s.transition(ctx, taskID, actor, ActionComplete,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			next := CompletionTarget(task.CleaningType)
			updates := map[string]any{"completed_at": now}
			if next == models.TaskChecked {
				updates["checked_at"] = now
			}
			return updates, next
		},
		func(task *models.Task) (*models.RoomStatus, *models.ZoneStatus) {
			return completionTargetStatus(task)
		})
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskWaitingCheck {
		s.publish(events.Event{
			Type:      events.CLEANING_COMPLETED,
			TaskID:    &task.ID,
			Title:     "Cleaning completed",
			Body:      fmt.Sprintf("%s finished for %s, ready for inspection", describeType(task.CleaningType), task.TargetLabel()),
			Roles:     []models.Role{models.RoleManager, models.RoleFrontDesk},
			PushRoles: []models.Role{models.RoleFrontDesk},
			Data:      taskEventData(task),
			SaveToDB:  false,
		})
	}

	return task, nil
}

func (s *LifecycleService) StartCheck(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	now := s.clock.Now()
	return s.transition(ctx, taskID, actor, ActionStartCheck,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{"checking_started_at": now}, models.TaskChecking
		}, nil)
}

func (s *LifecycleService) Check(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	now := s.clock.Now()
	cleanRoom := models.RoomClean
	cleanZone := models.ZoneClean

	return s.transition(ctx, taskID, actor, ActionCheck,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{
				"checked_at":       now,
				"checking_user_id": actor.ID,
			}, models.TaskChecked
		},
		func(task *models.Task) (*models.RoomStatus, *models.ZoneStatus) {
			return &cleanRoom, &cleanZone
		})
}

func (s *LifecycleService) Cancel(
	ctx context.Context,
	taskID uuid.UUID,
	actor *models.User,
) (*models.Task, error) {
	return s.transition(ctx, taskID, actor, ActionCancel,
		func(task *models.Task) (map[string]any, models.TaskStatus) {
			return map[string]any{}, models.TaskCanceled
		}, nil)
}

// rushEdge reports whether setting the flag announces a rush: only the
// false-to-true transition does, so repeated requests stay idempotent.
func rushEdge(current, requested bool) bool {
	return requested && !current
}

// SetRush toggles the rush flag. The rush notification fires only on the
// false-to-true edge, so repeated calls stay idempotent.
func (s *LifecycleService) SetRush(
	ctx context.Context,
	taskID uuid.UUID,
	rush bool,
	actor *models.User,
) (*models.Task, error) {
	log := s.log.Function("SetRush")

	if !actor.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}

	var task *models.Task
	var becameRush bool

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		task, err = s.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("task")
			}
			return err
		}

		becameRush = rushEdge(task.IsRush, rush)
		if task.IsRush == rush {
			return nil
		}

		rows, err := s.taskRepo.UpdateGuarded(ctx, tx, task.ID, task.Status,
			map[string]any{"is_rush": rush})
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.Conflict("task was modified concurrently, retry")
		}

		task.IsRush = rush
		return nil
	})
	if err != nil {
		return nil, err
	}

	if becameRush && task.AssignedHousekeeperID != nil {
		if assignee, err := s.resolveUser(ctx, *task.AssignedHousekeeperID); err == nil &&
			assignee.Role == models.RoleHousekeeper {
			s.publish(events.Event{
				Type:     events.RUSH_TASK,
				TaskID:   &task.ID,
				Title:    "Rush task",
				Body:     fmt.Sprintf("%s for %s is now a rush priority", describeType(task.CleaningType), task.TargetLabel()),
				UserIDs:  []uuid.UUID{assignee.ID},
				Data:     taskEventData(task),
				SaveToDB: true,
			})
		}
	}

	log.Info("rush flag set", "taskID", taskID, "rush", rush)
	return task, nil
}

// CreateBooking validates guest count against the room type capacity before
// persisting. Bookings start RESERVED.
func (s *LifecycleService) CreateBooking(
	ctx context.Context,
	req models.CreateBookingRequest,
	actor *models.User,
) (*models.Booking, error) {
	if !actor.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}

	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.ValidationFields("invalid booking window", map[string]string{
			"checkOut": "check-out must be after check-in",
		})
	}

	var booking *models.Booking
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		room, err := s.roomRepo.GetByID(ctx, tx, req.RoomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("room")
			}
			return err
		}

		if room.RoomType != nil && req.GuestCount > room.RoomType.Capacity {
			return apperrors.ValidationFields("guest count exceeds room capacity", map[string]string{
				"guestCount": fmt.Sprintf("room %s holds at most %d guests", room.Number, room.RoomType.Capacity),
			})
		}

		booking = &models.Booking{
			RoomID:     &room.ID,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			GuestCount: req.GuestCount,
			Status:     models.BookingReserved,
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// CheckIn moves a RESERVED booking to IN_PROGRESS and the room to OCCUPIED.
func (s *LifecycleService) CheckIn(
	ctx context.Context,
	bookingID uuid.UUID,
	actor *models.User,
) (*models.Booking, error) {
	if !actor.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}

	var booking *models.Booking
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, tx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("booking")
			}
			return err
		}

		rows, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID,
			models.BookingReserved, models.BookingInProgress)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.IllegalTransition(string(booking.Status), "check_in")
		}
		booking.Status = models.BookingInProgress

		if booking.RoomID != nil {
			if err := s.roomRepo.SetStatus(ctx, tx, *booking.RoomID, models.RoomOccupied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// CheckOut requires the booking to be IN_PROGRESS. It marks the booking
// CHECKED_OUT, the room DIRTY, and attaches to today's departure task for
// the room, creating one when none exists.
func (s *LifecycleService) CheckOut(
	ctx context.Context,
	bookingID uuid.UUID,
	actor *models.User,
) (*models.Booking, error) {
	log := s.log.Function("CheckOut")

	if !actor.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}

	today := s.clock.Today()

	var booking *models.Booking
	var attachedTask *models.Task

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, tx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("booking")
			}
			return err
		}

		rows, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID,
			models.BookingInProgress, models.BookingCheckedOut)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.IllegalTransition(string(booking.Status), "check_out")
		}
		booking.Status = models.BookingCheckedOut

		if booking.RoomID == nil {
			return nil
		}

		if err := s.roomRepo.SetStatus(ctx, tx, *booking.RoomID, models.RoomDirty); err != nil {
			return err
		}

		attachedTask, err = s.taskRepo.FindDepartureForRoom(ctx, tx, *booking.RoomID, today)
		if err != nil {
			return err
		}

		if attachedTask == nil {
			attachedTask, err = s.createDepartureTask(ctx, tx, booking, today)
			if err != nil {
				return err
			}
			return nil
		}

		// Attach the checkout to the already generated departure task.
		rows, err = s.taskRepo.UpdateGuarded(ctx, tx, attachedTask.ID, attachedTask.Status,
			map[string]any{"booking_id": booking.ID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.Conflict("departure task was modified concurrently, retry")
		}
		attachedTask.BookingID = &booking.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if attachedTask != nil && attachedTask.AssignedHousekeeperID != nil {
		s.publish(events.Event{
			Type:     events.DEPARTURE_TASK_CREATED,
			TaskID:   &attachedTask.ID,
			Title:    "Guest checked out",
			Body:     "The room on your departure task is ready for cleaning",
			UserIDs:  []uuid.UUID{*attachedTask.AssignedHousekeeperID},
			Data:     taskEventData(attachedTask),
			SaveToDB: true,
		})
	}

	log.Info("booking checked out", "bookingID", bookingID, "actorID", actor.ID)
	return booking, nil
}

func (s *LifecycleService) createDepartureTask(
	ctx context.Context,
	tx *gorm.DB,
	booking *models.Booking,
	today time.Time,
) (*models.Task, error) {
	departure := models.CleaningDeparture
	due := s.departureDueTime(ctx, tx, *booking.RoomID, today)

	templates, err := s.checklist.Resolve(ctx, tx, departure, today, booking)
	if err != nil {
		return nil, err
	}
	snapshot, err := Snapshot(templates)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		RoomID:        booking.RoomID,
		CleaningType:  &departure,
		Status:        models.TaskUnassigned,
		ScheduledDate: today,
		DueTime:       &due,
		BookingID:     &booking.ID,
		ChecklistData: snapshot,
	}
	if err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}
	if len(templates) > 0 {
		if err := s.taskRepo.SetChecklistTemplates(ctx, tx, task, templates); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// departureDueTime bounds the due time to the next check-in for the room on
// or after the date, defaulting to the configured hotel-local hour. The
// default may already be in the past for late checkouts; that is deliberate.
func (s *LifecycleService) departureDueTime(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	date time.Time,
) time.Time {
	loc := s.clock.Location()
	fallback := clock.At(date, s.departureHour, 0, loc)

	next, err := s.bookingRepo.NextCheckInForRoom(ctx, tx, roomID, clock.DateOf(date, loc))
	if err != nil || next == nil {
		return fallback
	}
	if clock.SameDay(next.CheckIn, date, loc) && next.CheckIn.Before(fallback) {
		return next.CheckIn.In(loc)
	}
	return fallback
}

func (s *LifecycleService) resolveHousekeeper(
	ctx context.Context,
	housekeeperID uuid.UUID,
) (*models.User, error) {
	user, err := s.resolveUser(ctx, housekeeperID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleHousekeeper {
		return nil, apperrors.ValidationFields("assignee must be a housekeeper", map[string]string{
			"housekeeperId": "user does not hold the HOUSEKEEPER role",
		})
	}
	return user, nil
}

func (s *LifecycleService) resolveUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = s.userRepo.GetByID(ctx, tx, id)
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("user")
		}
		return err
	})
	return user, err
}

// publish is fire-and-forget: a dead event bus never fails a committed
// transition.
func (s *LifecycleService) publish(event events.Event) {
	if err := s.eventBus.Publish(events.NOTIFICATIONS_CHANNEL, event); err != nil {
		s.log.Function("publish").Er("failed to publish event", err, "eventType", event.Type)
	}
}

// completionTargetStatus resolves the derived status applied when a task
// completes: stayover rooms return to OCCUPIED (the guest is still in
// residence), inspected rooms wait for the check, zones go CLEAN.
func completionTargetStatus(task *models.Task) (*models.RoomStatus, *models.ZoneStatus) {
	if task.CleaningType.RequiresInspection() {
		waiting := models.RoomWaitingInspection
		return &waiting, nil
	}

	if task.CleaningType != nil && *task.CleaningType == models.CleaningStayover {
		occupied := models.RoomOccupied
		return &occupied, nil
	}

	clean := models.RoomClean
	cleanZone := models.ZoneClean
	return &clean, &cleanZone
}

func taskEventData(task *models.Task) map[string]any {
	data := map[string]any{
		"taskId": task.ID.String(),
		"status": string(task.Status),
	}
	if task.CleaningType != nil {
		data["cleaningType"] = string(*task.CleaningType)
	}
	if task.RoomID != nil {
		data["roomId"] = task.RoomID.String()
	}
	if task.ZoneID != nil {
		data["zoneId"] = task.ZoneID.String()
	}
	return data
}

func describeType(cleaningType *models.CleaningType) string {
	if cleaningType == nil {
		return "cleaning"
	}
	return strings.ToLower(strings.ReplaceAll(string(*cleaningType), "_", " ")) + " cleaning"
}
