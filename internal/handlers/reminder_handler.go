package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ReminderHandler handles HTTP requests for reminders.
type ReminderHandler struct {
	service  *services.ReminderService
	validate *validator.Validate
	log      *logrus.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(service *services.ReminderService, log *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{service: service, validate: newValidator(), log: log}
}

// RegisterRoutes registers the reminder routes.
func (h *ReminderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	reminders := router.Group("/reminders", authRequired)
	reminders.Get("/", h.HandleGetReminders)
	reminders.Post("/", h.HandleCreateReminder)
	reminders.Get("/:id", h.HandleGetReminderByID)
	reminders.Put("/:id", h.HandleUpdateReminder)
	reminders.Delete("/:id", h.HandleDeleteReminder)
}

// HandleGetReminders lists the caller's reminders.
func (h *ReminderHandler) HandleGetReminders(c *fiber.Ctx) error {
	reminders, err := h.service.ListReminders(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve reminders")
	}
	return c.JSON(reminders)
}

// HandleGetReminderByID returns a single reminder.
func (h *ReminderHandler) HandleGetReminderByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	reminder, err := h.service.GetReminder(c.UserContext(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve reminder")
	}
	return c.JSON(reminder)
}

// HandleCreateReminder stores a new reminder.
func (h *ReminderHandler) HandleCreateReminder(c *fiber.Ctx) error {
	var req models.ReminderCreate
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	reminder, err := h.service.CreateReminder(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return writeError(c, h.log, err, "Could not create reminder")
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// HandleUpdateReminder partially updates a reminder.
func (h *ReminderHandler) HandleUpdateReminder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var patch models.ReminderPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &patch); !ok {
		return err
	}

	reminder, err := h.service.UpdateReminder(c.UserContext(), id, middleware.CurrentUser(c).ID, patch)
	if err != nil {
		return writeError(c, h.log, err, "Could not update reminder")
	}
	return c.JSON(reminder)
}

// HandleDeleteReminder removes a reminder and echoes its last state.
func (h *ReminderHandler) HandleDeleteReminder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	reminder, err := h.service.DeleteReminder(c.UserContext(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not delete reminder")
	}
	return c.JSON(reminder)
}
