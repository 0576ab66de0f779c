package repositories

import (
	"context"

	"meddata/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Register stores user, links it to reference data and seeds its empty
	// profile, all in one transaction.
	Register(ctx context.Context, user *models.User, links models.ReferenceLinks) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetWithReferences loads the user together with allergies and diseases.
	GetWithReferences(ctx context.Context, id uint) (*models.User, error)
}
