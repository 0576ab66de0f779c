package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// VitalsHandler serves the append-only measurement log.
type VitalsHandler struct {
	service  *services.VitalsService
	validate *validator.Validate
	log      *logrus.Logger
}

// NewVitalsHandler creates a new VitalsHandler.
func NewVitalsHandler(service *services.VitalsService, log *logrus.Logger) *VitalsHandler {
	return &VitalsHandler{service: service, validate: newValidator(), log: log}
}

// RegisterRoutes registers the vitals routes.
func (h *VitalsHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	vitals := router.Group("/vitals", authRequired)
	vitals.Get("/", h.HandleGetVitals)
	vitals.Post("/", h.HandleCreateVitals)
}

// HandleGetVitals lists the caller's measurements.
func (h *VitalsHandler) HandleGetVitals(c *fiber.Ctx) error {
	vitals, err := h.service.ListVitals(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve vitals")
	}
	return c.JSON(vitals)
}

// HandleCreateVitals appends a measurement.
func (h *VitalsHandler) HandleCreateVitals(c *fiber.Ctx) error {
	var req models.VitalsCreate
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	vitals, err := h.service.AddVitals(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return writeError(c, h.log, err, "Could not save vitals")
	}
	return c.Status(fiber.StatusCreated).JSON(vitals)
}
