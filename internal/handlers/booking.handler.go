package handlers

import (
	"roomflow/internal/app"
	"roomflow/internal/apperrors"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/models"
	"roomflow/internal/repositories"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	Handler
	lifecycle   *services.LifecycleService
	bookingRepo repositories.BookingRepository
	app         app.App
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("bookingHandler")
	return &BookingHandler{
		lifecycle:   app.LifecycleService,
		bookingRepo: app.Repos.Booking,
		app:         app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group("/bookings",
		h.middleware.RequireAuth(), h.middleware.RequireSupervisor())

	bookings.Post("/", h.create)
	bookings.Get("/:id", h.getByID)
	bookings.Post("/:id/check-in", h.checkIn)
	bookings.Post("/:id/check-out", h.checkOut)
}

func (h *BookingHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req models.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	booking, err := h.lifecycle.CreateBooking(c.Context(), req, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) getByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.bookingRepo.GetByID(c.Context(), h.app.Database.SQL, id)
	if err != nil {
		return respondError(c, apperrors.NotFound("booking"))
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) checkIn(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.lifecycle.CheckIn(c.Context(), id, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) checkOut(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.lifecycle.CheckOut(c.Context(), id, user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
