package repositories

import (
	"context"
	"errors"
	"fmt"

	"meddata/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines data access for the one-per-user profile.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	// CreateOrUpdate inserts the profile seeded from patch when absent,
	// otherwise applies patch over the stored row.
	CreateOrUpdate(ctx context.Context, userID uint, patch models.ProfilePatch) (*models.Profile, error)
}

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{db: db}
}

// GetByUserID returns the user's profile or ErrNotFound.
func (r *GORMProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}
	return &profile, nil
}

// CreateOrUpdate patches the user's profile, inserting it first when missing.
func (r *GORMProfileRepository) CreateOrUpdate(ctx context.Context, userID uint, patch models.ProfilePatch) (*models.Profile, error) {
	return upsertProfile(r.db.WithContext(ctx), userID, patch)
}

// upsertProfile is shared with registration, which seeds the empty profile
// inside its own transaction.
func upsertProfile(db *gorm.DB, userID uint, patch models.ProfilePatch) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: userID}
		patch.Apply(&profile)
		if err := db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile for user %d: %w", userID, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	default:
		patch.Apply(&profile)
		if err := db.Save(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile for user %d: %w", userID, err)
		}
	}
	return &profile, nil
}
