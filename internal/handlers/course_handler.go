package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/models"
	"meddata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CourseHandler handles treatment courses and the complaints logged against them.
type CourseHandler struct {
	courses    *services.CourseService
	complaints *services.ComplaintService
	validate   *validator.Validate
	log        *logrus.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses *services.CourseService, complaints *services.ComplaintService, log *logrus.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, complaints: complaints, validate: newValidator(), log: log}
}

// RegisterRoutes registers the course and complaint routes.
func (h *CourseHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	courses := router.Group("/courses", authRequired)
	courses.Get("/", h.HandleGetCourses)
	courses.Post("/", h.HandleCreateCourse)

	complaints := router.Group("/complaints", authRequired)
	complaints.Get("/", h.HandleGetComplaints)
	complaints.Post("/", h.HandleCreateComplaint)
}

// HandleGetCourses lists courses with their records and complaints included.
func (h *CourseHandler) HandleGetCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListCourses(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve treatment courses")
	}
	return c.JSON(courses)
}

// HandleCreateCourse opens a treatment course.
func (h *CourseHandler) HandleCreateCourse(c *fiber.Ctx) error {
	var req models.CourseCreate
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	course, err := h.courses.CreateCourse(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return writeError(c, h.log, err, "Could not create treatment course")
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// HandleGetComplaints lists the caller's complaints.
func (h *CourseHandler) HandleGetComplaints(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListComplaints(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, h.log, err, "Could not retrieve complaints")
	}
	return c.JSON(complaints)
}

// HandleCreateComplaint logs a new complaint.
func (h *CourseHandler) HandleCreateComplaint(c *fiber.Ctx) error {
	var req models.ComplaintCreate
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	complaint, err := h.complaints.CreateComplaint(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return writeError(c, h.log, err, "Could not create complaint")
	}
	return c.Status(fiber.StatusCreated).JSON(complaint)
}
