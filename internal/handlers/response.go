package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"meddata/internal/models"
	"meddata/internal/repositories"
	"meddata/internal/services"
	"meddata/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// newValidator reports fields by their JSON names and knows the timeofday tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	return v
}

// validateBody validates payload and writes the 400 response when it fails.
// It returns false when the handler should stop.
func validateBody(c *fiber.Ctx, v *validator.Validate, payload interface{}) (bool, error) {
	err := v.Struct(payload)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, validationFailed(c, errorMessages)
}

func validationFailed(c *fiber.Ctx, errorMessages map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// parseID reads the :id route parameter.
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": fmt.Sprintf("Invalid id %q", c.Params("id")),
	})
}

// writeError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500 with fallback as the message.
func writeError(c *fiber.Ctx, log *logrus.Logger, err error, fallback string) error {
	if errors.Is(err, services.ErrPasswordTooLong) {
		return validationFailed(c, map[string]string{"password": "Field 'password' must be at most 72 bytes"})
	}
	status, message := fiber.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		status, message = fiber.StatusBadRequest, "Email already registered"
	case errors.Is(err, services.ErrInactiveUser):
		status, message = fiber.StatusBadRequest, "Inactive user"
	case errors.Is(err, services.ErrInvalidTimeOfDay):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		status, message = fiber.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, services.ErrUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		status, message = fiber.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, services.ErrInvalidShareLink):
		status, message = fiber.StatusUnauthorized, "Link is invalid or expired"
	case errors.Is(err, services.ErrProfileNotFound):
		status, message = fiber.StatusNotFound, "Profile not found"
	case errors.Is(err, services.ErrRecordNotFound):
		status, message = fiber.StatusNotFound, "Record not found"
	case errors.Is(err, services.ErrReminderNotFound):
		status, message = fiber.StatusNotFound, "Reminder not found"
	case errors.Is(err, services.ErrCourseNotFound):
		status, message = fiber.StatusNotFound, "Treatment course not found"
	case errors.Is(err, repositories.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrReferenceConflict):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, storage.ErrTooLarge):
		status, message = fiber.StatusRequestEntityTooLarge, "Attachment is too large"
	}

	if status == fiber.StatusInternalServerError {
		log.Errorf("%s: %+v", fallback, err)
		return c.Status(status).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
