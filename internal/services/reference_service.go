package services

import (
	"context"

	"meddata/internal/cache"
	"meddata/internal/models"
	"meddata/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ReferenceService serves the shared allergy and chronic disease lists.
type ReferenceService struct {
	repo  repositories.ReferenceRepository
	cache cache.Cache
	log   *logrus.Logger
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(repo repositories.ReferenceRepository, c cache.Cache, log *logrus.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, cache: c, log: log}
}

// ListAllergies returns every allergy, served from the cache when possible.
func (s *ReferenceService) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	return cachedList(ctx, s, cache.KeyAllergies, s.repo.ListAllergies)
}

// ListChronicDiseases returns every chronic disease, served from the cache when possible.
func (s *ReferenceService) ListChronicDiseases(ctx context.Context) ([]models.ChronicDisease, error) {
	return cachedList(ctx, s, cache.KeyChronicDiseases, s.repo.ListChronicDiseases)
}

// SearchICD matches diseases by name or ICD-10 code. Results are capped at
// repositories.DefaultSearchLimit and an empty query returns nothing.
func (s *ReferenceService) SearchICD(ctx context.Context, query string) ([]models.ChronicDisease, error) {
	return s.repo.SearchChronicDiseases(ctx, query, repositories.DefaultSearchLimit)
}

// Invalidate drops the cached lists after reference rows were added.
func (s *ReferenceService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyAllergies, cache.KeyChronicDiseases); err != nil {
		s.log.Warnf("Failed to invalidate reference cache: %+v", err)
	}
}

// cachedList serves key from the cache, falling back to load. Cache errors
// are logged and treated as misses.
func cachedList[T any](ctx context.Context, s *ReferenceService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warnf("Reference cache read failed: %+v", err)
	}
	if hit && err == nil {
		return cached, nil
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, rows); err != nil {
		s.log.Warnf("Reference cache write failed: %+v", err)
	}
	return rows, nil
}
