package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RecordHandler handles HTTP requests for clinical records.
type RecordHandler struct {
	service *services.RecordService
	log     *logrus.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(service *services.RecordService, log *logrus.Logger) *RecordHandler {
	return &RecordHandler{service: service, log: log}
}

// RegisterRoutes registers the record routes with the Fiber app.
func (h *RecordHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	records := router.Group("/records", authRequired)
	records.Get("/", h.HandleGetRecords)
	records.Post("/", h.HandleCreateRecord)
	records.Get("/:id", h.HandleGetRecordByID)
	records.Put("/:id", h.HandleUpdateRecord)
	records.Delete("/:id", h.HandleDeleteRecord)
}

// HandleGetRecords lists the caller's records.
func (h *RecordHandler) HandleGetRecords(c *fiber.Ctx) error {
	records, err := h.service.ListRecords(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve records")
	}
	return c.JSON(records)
}

// HandleGetRecordByID returns a single record.
func (h *RecordHandler) HandleGetRecordByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	record, err := h.service.GetRecord(c.UserContext(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve record")
	}
	return c.JSON(record)
}

// HandleCreateRecord accepts a multipart or urlencoded form with an optional
// file field.
func (h *RecordHandler) HandleCreateRecord(c *fiber.Ctx) error {
	form, err := readRecordForm(c)
	if err != nil {
		return invalidBody(c, err)
	}
	fields, problems := form.patch(true)
	if len(problems) > 0 {
		return validationFailed(c, problems)
	}
	file, closer, err := form.attachment()
	if err != nil {
		return invalidBody(c, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	record, err := h.service.CreateRecord(c.UserContext(), middleware.CurrentUser(c).ID, fields, file)
	if err != nil {
		return writeError(c, h.log, err, "Could not create record")
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleUpdateRecord applies only the form keys that are present.
func (h *RecordHandler) HandleUpdateRecord(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	form, err := readRecordForm(c)
	if err != nil {
		return invalidBody(c, err)
	}
	fields, problems := form.patch(false)
	if len(problems) > 0 {
		return validationFailed(c, problems)
	}
	file, closer, err := form.attachment()
	if err != nil {
		return invalidBody(c, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	record, err := h.service.UpdateRecord(c.UserContext(), id, middleware.CurrentUser(c).ID, fields, file)
	if err != nil {
		return writeError(c, h.log, err, "Could not update record")
	}
	return c.JSON(record)
}

// HandleDeleteRecord removes the record and echoes its last state.
func (h *RecordHandler) HandleDeleteRecord(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	record, err := h.service.DeleteRecord(c.UserContext(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not delete record")
	}
	return c.JSON(record)
}
