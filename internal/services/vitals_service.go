package services

import (
	"context"

	"meddata/internal/models"
	"meddata/internal/repositories"
)

// VitalsService appends to and lists the caller's measurement log.
type VitalsService struct {
	repo repositories.VitalsStore
}

// NewVitalsService creates a new VitalsService.
func NewVitalsService(repo repositories.VitalsStore) *VitalsService {
	return &VitalsService{repo: repo}
}

// ListVitals returns the owner's measurements, newest first.
func (s *VitalsService) ListVitals(ctx context.Context, ownerID uint) ([]models.VitalsRecord, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// AddVitals appends a measurement to the owner's log.
func (s *VitalsService) AddVitals(ctx context.Context, ownerID uint, in models.VitalsCreate) (*models.VitalsRecord, error) {
	row := in.ToModel()
	if err := s.repo.Create(ctx, ownerID, row); err != nil {
		return nil, err
	}
	return row, nil
}
