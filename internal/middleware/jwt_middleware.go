package middleware

import (
	"errors"
	"strings"

	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

// AuthRequired is a Fiber middleware that resolves the bearer token into the
// calling user and stores it for subsequent handlers.
func AuthRequired(authService *services.AuthService, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Not authenticated")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.AuthenticateRequest(c.UserContext(), parts[1])
		switch {
		case err == nil:
		case errors.Is(err, services.ErrUnauthorized):
			return unauthorized(c, "Could not validate credentials")
		case errors.Is(err, services.ErrInactiveUser):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Inactive user",
			})
		default:
			log.Errorf("Failed to authenticate request: %+v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not authenticate request",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
	})
}
