package handlers

import (
	"roomflow/internal/app"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/models"
	"roomflow/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type PushTokenHandler struct {
	Handler
	pushTokenRepo repositories.PushTokenRepository
	app           app.App
}

func NewPushTokenHandler(app app.App, router fiber.Router) *PushTokenHandler {
	log := logger.New("pushTokenHandler")
	return &PushTokenHandler{
		pushTokenRepo: app.Repos.PushToken,
		app:           app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PushTokenHandler) Register() {
	tokens := h.router.Group("/push-tokens", h.middleware.RequireAuth())

	tokens.Post("/", h.register)
	tokens.Delete("/", h.unregister)
}

// register binds a device token to the caller. A token previously owned by
// another account moves to the caller, covering shared devices.
func (h *PushTokenHandler) register(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req models.RegisterPushTokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	err := h.pushTokenRepo.Register(
		c.Context(), h.app.Database.SQL, user.ID, req.Token, req.Platform, h.app.Clock.Now())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "registered"})
}

type UnregisterPushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// unregister removes the caller's own binding for the token. Tokens owned
// by other accounts are untouched.
func (h *PushTokenHandler) unregister(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var req UnregisterPushTokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.pushTokenRepo.DeleteByToken(c.Context(), h.app.Database.SQL, user.ID, req.Token); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "removed"})
}
