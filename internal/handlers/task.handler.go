package handlers

import (
	"context"
	"time"

	"roomflow/internal/app"
	"roomflow/internal/apperrors"
	"roomflow/internal/clock"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/models"
	"roomflow/internal/repositories"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	Handler
	lifecycle  *services.LifecycleService
	assignment *services.AssignmentService
	generator  *services.GeneratorService
	taskRepo   repositories.TaskRepository
	app        app.App
}

type AssignTaskRequest struct {
	HousekeeperID uuid.UUID `json:"housekeeperId" validate:"required"`
}

type AssignMultipleRequest struct {
	TaskIDs       []uuid.UUID `json:"taskIds"       validate:"required,min=1"`
	HousekeeperID uuid.UUID   `json:"housekeeperId" validate:"required"`
	ScheduledDate string      `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
}

type SetRushRequest struct {
	Rush *bool `json:"rush" validate:"required"`
}

type GenerateTasksRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	log := logger.New("taskHandler")
	return &TaskHandler{
		lifecycle:  app.LifecycleService,
		assignment: app.AssignmentService,
		generator:  app.GeneratorService,
		taskRepo:   app.Repos.Task,
		app:        app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks", h.middleware.RequireAuth())

	tasks.Get("/", h.listForDate)
	tasks.Get("/ready-for-check", h.middleware.RequireSupervisor(), h.listReadyForCheck)
	tasks.Get("/stats", h.middleware.RequireSupervisor(), h.stats)
	tasks.Post("/generate", h.middleware.RequireSupervisor(), h.generate)
	tasks.Post("/assign", h.middleware.RequireSupervisor(), h.assignMultiple)
	tasks.Get("/:id", h.getByID)

	tasks.Post("/:id/assign", h.middleware.RequireSupervisor(), h.assign)
	tasks.Post("/:id/unassign", h.middleware.RequireSupervisor(), h.unassign)
	tasks.Post("/:id/start", h.start)
	tasks.Post("/:id/complete", h.complete)
	tasks.Post("/:id/start-check", h.middleware.RequireSupervisor(), h.startCheck)
	tasks.Post("/:id/check", h.middleware.RequireSupervisor(), h.check)
	tasks.Post("/:id/cancel", h.middleware.RequireSupervisor(), h.cancel)
	tasks.Post("/:id/rush", h.middleware.RequireSupervisor(), h.setRush)
}

// listForDate returns the day's board. Supervisors see every task;
// housekeepers see only their own open assignments.
func (h *TaskHandler) listForDate(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}

	var housekeeperID *uuid.UUID
	var statuses []models.TaskStatus
	if !user.Role.CanSupervise() {
		housekeeperID = &user.ID
		statuses = []models.TaskStatus{
			models.TaskAssigned, models.TaskInProgress,
			models.TaskWaitingCheck, models.TaskChecking,
		}
	}

	tasks, err := h.taskRepo.ListForDate(c.Context(), h.app.Database.SQL, date, housekeeperID, statuses)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"date":  date.Format("2006-01-02"),
		"tasks": taskSummaries(tasks),
	})
}

func (h *TaskHandler) listReadyForCheck(c *fiber.Ctx) error {
	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}

	tasks, err := h.taskRepo.ListForDate(c.Context(), h.app.Database.SQL, date, nil,
		[]models.TaskStatus{models.TaskWaitingCheck})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"date":  date.Format("2006-01-02"),
		"tasks": taskSummaries(tasks),
	})
}

func (h *TaskHandler) stats(c *fiber.Ctx) error {
	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}

	counts, err := h.taskRepo.CountByStatusForDate(c.Context(), h.app.Database.SQL, date)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"date":   date.Format("2006-01-02"),
		"counts": counts,
	})
}

func (h *TaskHandler) getByID(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	task, err := h.taskRepo.GetByID(c.Context(), h.app.Database.SQL, id)
	if err != nil {
		return respondError(c, apperrors.NotFound("task"))
	}

	if !user.Role.CanSupervise() {
		if task.AssignedHousekeeperID == nil || *task.AssignedHousekeeperID != user.ID {
			return respondError(c, apperrors.Forbidden("task is not assigned to you"))
		}
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) generate(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req GenerateTasksRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
	}

	date := h.app.Clock.Today()
	if req.Date != "" {
		parsed, err := h.parseDate(req.Date)
		if err != nil {
			return respondError(c, err)
		}
		date = parsed
	}

	summary, err := h.generator.Generate(c.Context(), date, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}

func (h *TaskHandler) assignMultiple(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req AssignMultipleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	date, err := h.parseDate(req.ScheduledDate)
	if err != nil {
		return respondError(c, err)
	}

	tasks, err := h.assignment.AssignMultiple(c.Context(), req.TaskIDs, req.HousekeeperID, date, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": taskSummaries(tasks)})
}

func (h *TaskHandler) assign(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AssignTaskRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.lifecycle.Assign(c.Context(), id, req.HousekeeperID, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"task": task.ToSummary()})
}

func (h *TaskHandler) unassign(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.Unassign)
}

func (h *TaskHandler) start(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.Start)
}

func (h *TaskHandler) complete(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.Complete)
}

func (h *TaskHandler) startCheck(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.StartCheck)
}

func (h *TaskHandler) check(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.Check)
}

func (h *TaskHandler) cancel(c *fiber.Ctx) error {
	return h.runTransition(c, h.lifecycle.Cancel)
}

func (h *TaskHandler) setRush(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req SetRushRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	task, err := h.lifecycle.SetRush(c.Context(), id, *req.Rush, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"task": task.ToSummary()})
}

func (h *TaskHandler) runTransition(
	c *fiber.Ctx,
	transition func(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Task, error),
) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	task, err := transition(c.Context(), id, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"task": task.ToSummary()})
}

func (h *TaskHandler) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return h.app.Clock.Today(), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, h.app.Clock.Location())
	if err != nil {
		return time.Time{}, apperrors.ValidationFields("invalid date", map[string]string{
			"date": "expected YYYY-MM-DD",
		})
	}
	return clock.DateOf(parsed, h.app.Clock.Location()), nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.ValidationFields("invalid id", map[string]string{
			"id": "expected a UUID",
		})
	}
	return id, nil
}

func taskSummaries(tasks []*models.Task) []models.TaskSummary {
	summaries := make([]models.TaskSummary, 0, len(tasks))
	for _, task := range tasks {
		summaries = append(summaries, task.ToSummary())
	}
	return summaries
}
