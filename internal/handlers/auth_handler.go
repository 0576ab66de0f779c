package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/users", h.HandleRegister)
	router.Get("/users/me", authRequired, h.HandleGetMe)
	router.Post("/token", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.UserCreate
	if err := c.BodyParser(&req); err != nil {
		h.log.Debugf("Error parsing register request body: %v", err)
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin checks form-encoded credentials and issues an access token.
// The username field carries the email.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debugf("Error parsing login request body: %v", err)
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		h.log.Debugf("Login failed for %s: %v", req.Username, err)
		return writeError(c, h.log, err, "Could not log in")
	}
	return c.JSON(token)
}

// HandleGetMe returns the caller with linked allergies and chronic diseases.
func (h *AuthHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.authService.GetMe(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve user")
	}
	return c.JSON(user)
}
