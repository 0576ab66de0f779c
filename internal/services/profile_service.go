package services

import (
	"context"

	"meddata/internal/models"
	"meddata/internal/repositories"
)

// ProfileService reads and patches the caller's profile.
type ProfileService struct {
	repo repositories.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo repositories.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns the user's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound)
	}
	return profile, nil
}

// UpdateProfile applies only the fields set in patch.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, patch models.ProfilePatch) (*models.Profile, error) {
	return s.repo.CreateOrUpdate(ctx, userID, patch)
}
