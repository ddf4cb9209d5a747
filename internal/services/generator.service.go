package services

import (
	"context"
	"fmt"
	"time"

	"roomflow/config"
	"roomflow/internal/apperrors"
	"roomflow/internal/clock"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskPlan is one task the generator intends to create. Plans are computed
// by pure functions over the day's bookings and zones, then filtered against
// the tasks already on file so the operation stays idempotent.
type TaskPlan struct {
	CleaningType models.CleaningType
	RoomID       *uuid.UUID
	ZoneID       *uuid.UUID
	BookingID    *uuid.UUID
	DueTime      *time.Time
	Notes        string
}

// planKey identifies a plan for the duplicate check. Two tasks are the same
// when they share cleaning type, target, and booking on the same date.
type planKey struct {
	cleaningType models.CleaningType
	roomID       uuid.UUID
	zoneID       uuid.UUID
	bookingID    uuid.UUID
}

func keyOf(cleaningType *models.CleaningType, roomID, zoneID, bookingID *uuid.UUID) planKey {
	key := planKey{}
	if cleaningType != nil {
		key.cleaningType = *cleaningType
	}
	if roomID != nil {
		key.roomID = *roomID
	}
	if zoneID != nil {
		key.zoneID = *zoneID
	}
	if bookingID != nil {
		key.bookingID = *bookingID
	}
	return key
}

// GenerationSummary reports one generator run.
type GenerationSummary struct {
	Date    time.Time            `json:"date"`
	Created []models.TaskSummary `json:"created"`
	Skipped int                  `json:"skipped"`
}

// GeneratorService builds the day's cleaning tasks from the booking
// calendar: departures, stayovers, pre-arrivals above the guest threshold,
// and one pass per public zone. Re-running for the same date creates nothing
// new.
type GeneratorService struct {
	transaction        *TransactionService
	taskRepo           repositories.TaskRepository
	zoneRepo           repositories.ZoneRepository
	bookingRepo        repositories.BookingRepository
	checklist          *ChecklistService
	clock              clock.Clock
	departureHour      int
	preArrivalGuestMin int
	log                logger.Logger
}

func NewGeneratorService(
	transaction *TransactionService,
	repos repositories.Repository,
	checklist *ChecklistService,
	clk clock.Clock,
	config config.Config,
) *GeneratorService {
	return &GeneratorService{
		transaction:        transaction,
		taskRepo:           repos.Task,
		zoneRepo:           repos.Zone,
		bookingRepo:        repos.Booking,
		checklist:          checklist,
		clock:              clk,
		departureHour:      config.DepartureDueHour,
		preArrivalGuestMin: config.PreArrivalGuestThreshold,
		log:                logger.New("GeneratorService"),
	}
}

// Generate creates the missing tasks for date inside one transaction.
// invoker is nil when the scheduler runs the job; a human invoker must hold
// a supervising role.
func (s *GeneratorService) Generate(
	ctx context.Context,
	date time.Time,
	invoker *models.User,
) (*GenerationSummary, error) {
	log := s.log.Function("Generate")

	if invoker != nil && !invoker.Role.CanSupervise() {
		return nil, apperrors.Forbidden("action requires a manager or front desk role")
	}

	loc := s.clock.Location()
	date = clock.DateOf(date, loc)

	summary := &GenerationSummary{Date: date}

	dayStart := date
	nextDay := date.AddDate(0, 0, 1)

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		checkouts, err := s.bookingRepo.ListCheckOutsBetween(ctx, tx, dayStart, nextDay)
		if err != nil {
			return err
		}
		stayovers, err := s.bookingRepo.ListStayoversFor(ctx, tx, dayStart, nextDay)
		if err != nil {
			return err
		}
		checkins, err := s.bookingRepo.ListCheckInsBetween(ctx, tx, dayStart, nextDay)
		if err != nil {
			return err
		}
		zones, err := s.zoneRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		plans := PlanForDate(date, loc, checkouts, stayovers, checkins, zones,
			s.departureHour, s.preArrivalGuestMin)

		existing, err := s.taskRepo.ListForDate(ctx, tx, date, nil, nil)
		if err != nil {
			return err
		}
		fresh, skipped := FilterExisting(plans, existing)
		summary.Skipped = skipped

		bookingByID := make(map[uuid.UUID]*models.Booking)
		for _, booking := range append(append(checkouts, stayovers...), checkins...) {
			bookingByID[booking.ID] = booking
		}

		for _, plan := range fresh {
			task, err := s.materialize(ctx, tx, date, plan, bookingByID)
			if err != nil {
				return err
			}
			summary.Created = append(summary.Created, task.ToSummary())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task generation finished",
		"date", date.Format("2006-01-02"),
		"created", len(summary.Created),
		"skipped", summary.Skipped)

	return summary, nil
}

func (s *GeneratorService) materialize(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
	plan TaskPlan,
	bookingByID map[uuid.UUID]*models.Booking,
) (*models.Task, error) {
	cleaningType := plan.CleaningType

	var booking *models.Booking
	if plan.BookingID != nil {
		booking = bookingByID[*plan.BookingID]
	}

	templates, err := s.checklist.Resolve(ctx, tx, cleaningType, date, booking)
	if err != nil {
		return nil, err
	}
	snapshot, err := Snapshot(templates)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		RoomID:        plan.RoomID,
		ZoneID:        plan.ZoneID,
		BookingID:     plan.BookingID,
		CleaningType:  &cleaningType,
		Status:        models.TaskUnassigned,
		ScheduledDate: date,
		DueTime:       plan.DueTime,
		Notes:         plan.Notes,
		ChecklistData: snapshot,
	}
	if err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, fmt.Errorf("creating %s task: %w", cleaningType, err)
	}
	if len(templates) > 0 {
		if err := s.taskRepo.SetChecklistTemplates(ctx, tx, task, templates); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// PlanForDate runs the four planning passes over the day's calendar. It is
// pure: no plan depends on what already exists in the database.
func PlanForDate(
	date time.Time,
	loc *time.Location,
	checkouts, stayovers, checkins []*models.Booking,
	zones []*models.Zone,
	departureHour, preArrivalGuestMin int,
) []TaskPlan {
	var plans []TaskPlan

	// Pass 1: a departure cleaning per room checking out today. The due
	// time is pulled forward when the next guest arrives the same day.
	checkinsByRoom := make(map[uuid.UUID][]*models.Booking)
	for _, booking := range checkins {
		if booking.RoomID != nil {
			checkinsByRoom[*booking.RoomID] = append(checkinsByRoom[*booking.RoomID], booking)
		}
	}
	for _, booking := range checkouts {
		if booking.RoomID == nil {
			continue
		}
		due := DepartureDue(date, loc, departureHour, checkinsByRoom[*booking.RoomID])
		id := booking.ID
		plans = append(plans, TaskPlan{
			CleaningType: models.CleaningDeparture,
			RoomID:       booking.RoomID,
			BookingID:    &id,
			DueTime:      &due,
		})
	}

	// Pass 2: a stayover cleaning per booking spanning today.
	for _, booking := range stayovers {
		if booking.RoomID == nil {
			continue
		}
		id := booking.ID
		plans = append(plans, TaskPlan{
			CleaningType: models.CleaningStayover,
			RoomID:       booking.RoomID,
			BookingID:    &id,
		})
	}

	// Pass 3: a pre-arrival preparation for larger parties arriving today.
	for _, booking := range checkins {
		if booking.RoomID == nil || booking.GuestCount <= preArrivalGuestMin {
			continue
		}
		due := clock.At(date, departureHour, 0, loc)
		id := booking.ID
		plans = append(plans, TaskPlan{
			CleaningType: models.CleaningPreArrival,
			RoomID:       booking.RoomID,
			BookingID:    &id,
			DueTime:      &due,
			Notes:        fmt.Sprintf("%d guests arriving", booking.GuestCount),
		})
	}

	// Pass 4: every public zone gets its daily pass; the checklist
	// resolver decides which templates actually apply today.
	for _, zone := range zones {
		id := zone.ID
		plans = append(plans, TaskPlan{
			CleaningType: models.CleaningPublicArea,
			ZoneID:       &id,
		})
	}

	return plans
}

// DepartureDue picks the departure deadline: the earliest same-day check-in
// for the room when one lands before the default hour, the configured
// hotel-local hour otherwise.
func DepartureDue(
	date time.Time,
	loc *time.Location,
	departureHour int,
	roomCheckins []*models.Booking,
) time.Time {
	due := clock.At(date, departureHour, 0, loc)
	for _, booking := range roomCheckins {
		arrival := booking.CheckIn.In(loc)
		if clock.SameDay(arrival, date, loc) && arrival.Before(due) {
			due = arrival
		}
	}
	return due
}

// FilterExisting drops plans already represented by a task on file,
// regardless of that task's status: a canceled task was canceled on purpose
// and is not resurrected by a re-run.
func FilterExisting(plans []TaskPlan, existing []*models.Task) ([]TaskPlan, int) {
	seen := make(map[planKey]bool, len(existing))
	for _, task := range existing {
		seen[keyOf(task.CleaningType, task.RoomID, task.ZoneID, task.BookingID)] = true
	}

	fresh := make([]TaskPlan, 0, len(plans))
	skipped := 0
	for _, plan := range plans {
		cleaningType := plan.CleaningType
		key := keyOf(&cleaningType, plan.RoomID, plan.ZoneID, plan.BookingID)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		fresh = append(fresh, plan)
	}
	return fresh, skipped
}
