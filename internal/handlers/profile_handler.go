package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	service  *services.ProfileService
	validate *validator.Validate
	log      *logrus.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, validate: newValidator(), log: log}
}

// RegisterRoutes registers the profile routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	profile := router.Group("/profile", authRequired)
	profile.Get("/me", h.HandleGetProfile)
	profile.Put("/me", h.HandleUpdateProfile)
}

// HandleGetProfile returns the caller's profile.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve profile")
	}
	return c.JSON(profile)
}

// HandleUpdateProfile applies only the fields present in the JSON body.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var patch models.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &patch); !ok {
		return err
	}

	profile, err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, patch)
	if err != nil {
		return writeError(c, h.log, err, "Could not update profile")
	}
	return c.JSON(profile)
}
