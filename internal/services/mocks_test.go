package services_test

import (
	"context"
	"encoding/json"
	"io"

	"meddata/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Register(ctx context.Context, user *models.User, links models.ReferenceLinks) error {
	args := m.Called(ctx, user, links)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetWithReferences(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProfileRepository is a mock implementation of repositories.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) CreateOrUpdate(ctx context.Context, userID uint, patch models.ProfilePatch) (*models.Profile, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockReferenceRepository is a mock implementation of repositories.ReferenceRepository
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Allergy), args.Error(1)
}

func (m *MockReferenceRepository) ListChronicDiseases(ctx context.Context) ([]models.ChronicDisease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChronicDisease), args.Error(1)
}

func (m *MockReferenceRepository) FindOrCreateAllergy(ctx context.Context, name string) (*models.Allergy, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Allergy), args.Bool(1), args.Error(2)
}

func (m *MockReferenceRepository) FindOrCreateChronicDisease(ctx context.Context, name string) (*models.ChronicDisease, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.ChronicDisease), args.Bool(1), args.Error(2)
}

func (m *MockReferenceRepository) SetICD10Code(ctx context.Context, diseaseID uint, code string) error {
	return m.Called(ctx, diseaseID, code).Error(0)
}

func (m *MockReferenceRepository) SearchChronicDiseases(ctx context.Context, query string, limit int) ([]models.ChronicDisease, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChronicDisease), args.Error(1)
}

// MockOwnedStore is a mock implementation of repositories.OwnedStore
type MockOwnedStore[T any] struct {
	mock.Mock
}

func (m *MockOwnedStore[T]) Create(ctx context.Context, ownerID uint, row *T) error {
	return m.Called(ctx, ownerID, row).Error(0)
}

func (m *MockOwnedStore[T]) ListByOwner(ctx context.Context, ownerID uint) ([]T, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockOwnedStore[T]) GetOne(ctx context.Context, id, ownerID uint) (*T, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockOwnedStore[T]) Update(ctx context.Context, id, ownerID uint, patch models.Patch[T]) (*T, error) {
	args := m.Called(ctx, id, ownerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if apply, ok := args.Get(0).(func(context.Context, uint, uint, models.Patch[T]) *T); ok {
		return apply(ctx, id, ownerID, patch), args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockOwnedStore[T]) Delete(ctx context.Context, id, ownerID uint) (*T, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

// MockAttachmentStore is a mock implementation of storage.AttachmentStore
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Save(ctx context.Context, ownerID uint, originalName string, content io.Reader) (string, error) {
	args := m.Called(ctx, ownerID, originalName, content)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentStore) Remove(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

// mapCache is an in-process cache.Cache used to observe cache traffic.
type mapCache struct {
	entries map[string][]byte
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.deletes++
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
