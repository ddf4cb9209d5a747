package handlers

import (
	"strconv"

	"roomflow/internal/app"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationRepo repositories.NotificationRepository
	app              app.App
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	log := logger.New("notificationHandler")
	return &NotificationHandler{
		notificationRepo: app.Repos.Notification,
		app:              app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())

	notifications.Get("/", h.list)
	notifications.Get("/unread", h.listUnread)
	notifications.Get("/unread/count", h.unreadCount)
	notifications.Post("/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	notifications, err := h.notificationRepo.ListByUser(
		c.Context(), h.app.Database.SQL, user.ID, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) listUnread(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	notifications, err := h.notificationRepo.ListUnread(c.Context(), h.app.Database.SQL, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	count, err := h.notificationRepo.CountUnread(c.Context(), h.app.Database.SQL, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"count": count})
}

// markRead flags the caller's notifications as read, either by explicit ids
// or all at once. The repository scopes every update to the caller, so one
// user can never touch another's inbox.
func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req models.MarkReadRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	var err error
	if req.All {
		err = h.notificationRepo.MarkAllRead(c.Context(), h.app.Database.SQL, user.ID)
	} else {
		err = h.notificationRepo.MarkRead(c.Context(), h.app.Database.SQL, user.ID, req.IDs)
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
