package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for missing rows and for rows owned by someone else.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate value violates unique constraint")
	// ErrDuplicateEmail is the ErrDuplicate raised for a taken user email.
	ErrDuplicateEmail = fmt.Errorf("email already exists: %w", ErrDuplicate)
)

const pgUniqueViolation = "23505"

// isDuplicateKeyError recognises unique violations from postgres and sqlite,
// whether or not gorm translated them.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
