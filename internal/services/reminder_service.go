package services

import (
	"context"

	"meddata/internal/models"
	"meddata/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ReminderService manages the caller's reminder preferences.
type ReminderService struct {
	repo   repositories.ReminderStore
	events EventPublisher
	log    *logrus.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(repo repositories.ReminderStore, events EventPublisher, log *logrus.Logger) *ReminderService {
	return &ReminderService{repo: repo, events: events, log: log}
}

// ListReminders returns the owner's reminders ordered by time of day.
func (s *ReminderService) ListReminders(ctx context.Context, ownerID uint) ([]models.Reminder, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetReminder returns one of the owner's reminders or ErrReminderNotFound.
func (s *ReminderService) GetReminder(ctx context.Context, id, ownerID uint) (*models.Reminder, error) {
	reminder, err := s.repo.GetOne(ctx, id, ownerID)
	if err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound)
	}
	return reminder, nil
}

// CreateReminder stores a new reminder for the owner.
func (s *ReminderService) CreateReminder(ctx context.Context, ownerID uint, in models.ReminderCreate) (*models.Reminder, error) {
	reminder, err := in.ToModel()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ownerID, reminder); err != nil {
		return nil, err
	}
	emit(s.log, s.events, EventReminderCreated, reminder)
	return reminder, nil
}

// UpdateReminder applies the fields set in patch.
func (s *ReminderService) UpdateReminder(ctx context.Context, id, ownerID uint, patch models.ReminderPatch) (*models.Reminder, error) {
	if err := patch.Normalize(); err != nil {
		return nil, err
	}
	reminder, err := s.repo.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound)
	}
	emit(s.log, s.events, EventReminderUpdated, reminder)
	return reminder, nil
}

// DeleteReminder removes the reminder and returns its last state.
func (s *ReminderService) DeleteReminder(ctx context.Context, id, ownerID uint) (*models.Reminder, error) {
	reminder, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, notFoundAs(err, ErrReminderNotFound)
	}
	emit(s.log, s.events, EventReminderDeleted, reminder)
	return reminder, nil
}
