package handlers

import (
	"roomflow/internal/app"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/repositories"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	Handler
	authService *services.AuthService
	userRepo    repositories.UserRepository
	app         app.App
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("authHandler")
	return &AuthHandler{
		authService: app.AuthService,
		userRepo:    app.Repos.User,
		app:         app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getCurrentUser)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userRepo.GetByEmail(c.Context(), h.app.Database.SQL, req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Er("failed to look up account", err)
		}
		log.Info("login with unknown email")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.IsActive {
		log.Info("login for disabled account", "userID", user.ID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account disabled",
		})
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		log.Info("login with wrong password", "userID", user.ID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	now := h.app.Clock.Now()
	token, err := h.authService.IssueToken(user, now)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userRepo.TouchLastLogin(c.Context(), h.app.Database.SQL, user.ID); err != nil {
		log.Er("failed to record login time", err, "userID", user.ID)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.ToProfile(),
	})
}

func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return c.JSON(fiber.Map{"user": user.ToProfile()})
}
