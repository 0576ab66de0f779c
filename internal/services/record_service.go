package services

import (
	"context"
	"io"

	"meddata/internal/models"
	"meddata/internal/repositories"
	"meddata/internal/storage"

	"github.com/sirupsen/logrus"
)

// Attachment is a file uploaded alongside a record form.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// RecordService manages the caller's clinical records and their attachments.
type RecordService struct {
	records     repositories.RecordStore
	courses     repositories.CourseStore
	attachments storage.AttachmentStore
	events      EventPublisher
	log         *logrus.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(records repositories.RecordStore, courses repositories.CourseStore, attachments storage.AttachmentStore, events EventPublisher, log *logrus.Logger) *RecordService {
	return &RecordService{
		records:     records,
		courses:     courses,
		attachments: attachments,
		events:      events,
		log:         log,
	}
}

// ListRecords returns the owner's records, newest first.
func (s *RecordService) ListRecords(ctx context.Context, ownerID uint) ([]models.Record, error) {
	return s.records.ListByOwner(ctx, ownerID)
}

// GetRecord returns one of the owner's records or ErrRecordNotFound.
func (s *RecordService) GetRecord(ctx context.Context, id, ownerID uint) (*models.Record, error) {
	record, err := s.records.GetOne(ctx, id, ownerID)
	if err != nil {
		return nil, notFoundAs(err, ErrRecordNotFound)
	}
	return record, nil
}

// CreateRecord stores a record built from the present form fields. The
// attachment, if any, is written before the row.
func (s *RecordService) CreateRecord(ctx context.Context, ownerID uint, fields models.RecordPatch, file *Attachment) (*models.Record, error) {
	if err := checkCourseOwner(ctx, s.courses, ownerID, fields.CourseID); err != nil {
		return nil, err
	}
	fields.AttachmentURL = nil
	if file != nil {
		url, err := s.attachments.Save(ctx, ownerID, file.Filename, file.Content)
		if err != nil {
			return nil, err
		}
		fields.AttachmentURL = stringRef(url)
	}

	record := fields.ToRecord()
	if err := s.records.Create(ctx, ownerID, record); err != nil {
		return nil, err
	}
	emit(s.log, s.events, EventRecordCreated, record)
	return record, nil
}

// UpdateRecord applies the present form fields. A new attachment replaces the
// stored one; without one the previous attachment is kept.
func (s *RecordService) UpdateRecord(ctx context.Context, id, ownerID uint, fields models.RecordPatch, file *Attachment) (*models.Record, error) {
	existing, err := s.GetRecord(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := checkCourseOwner(ctx, s.courses, ownerID, fields.CourseID); err != nil {
		return nil, err
	}
	fields.AttachmentURL = nil
	if file != nil {
		url, err := s.attachments.Save(ctx, ownerID, file.Filename, file.Content)
		if err != nil {
			return nil, err
		}
		fields.AttachmentURL = stringRef(url)
	}

	record, err := s.records.Update(ctx, id, ownerID, fields)
	if err != nil {
		return nil, notFoundAs(err, ErrRecordNotFound)
	}
	if file != nil {
		s.removeReplaced(ctx, existing.AttachmentURL, record.AttachmentURL)
	}
	emit(s.log, s.events, EventRecordUpdated, record)
	return record, nil
}

// DeleteRecord removes the record and returns its last state.
func (s *RecordService) DeleteRecord(ctx context.Context, id, ownerID uint) (*models.Record, error) {
	record, err := s.records.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, notFoundAs(err, ErrRecordNotFound)
	}
	s.removeReplaced(ctx, record.AttachmentURL, nil)
	emit(s.log, s.events, EventRecordDeleted, record)
	return record, nil
}

func (s *RecordService) removeReplaced(ctx context.Context, old, current *string) {
	if old == nil || (current != nil && *old == *current) {
		return
	}
	if err := s.attachments.Remove(ctx, *old); err != nil {
		s.log.Warnf("Failed to remove attachment %s: %+v", *old, err)
	}
}

// checkCourseOwner rejects links to courses the caller does not own.
func checkCourseOwner(ctx context.Context, courses repositories.CourseStore, ownerID uint, courseID **uint) error {
	if courseID == nil || *courseID == nil {
		return nil
	}
	if _, err := courses.GetOne(ctx, **courseID, ownerID); err != nil {
		return notFoundAs(err, ErrCourseNotFound)
	}
	return nil
}

func stringRef(s string) **string {
	p := &s
	return &p
}
