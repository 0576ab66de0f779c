package services

import (
	"errors"
	"fmt"

	"meddata/internal/models"
	"meddata/internal/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrInactiveUser       = errors.New("inactive user")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	// ErrInvalidShareLink covers every sharing-token failure alike.
	ErrInvalidShareLink  = errors.New("link is invalid or expired")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrRecordNotFound    = errors.New("record not found")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrCourseNotFound    = errors.New("treatment course not found")
	ErrReferenceConflict = errors.New("reference data was changed concurrently, retry the request")
	ErrInvalidTimeOfDay  = models.ErrInvalidTimeOfDay
)

// notFoundAs replaces the repository's not-found error with a resource-specific one.
func notFoundAs(err, notFound error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return err
}
