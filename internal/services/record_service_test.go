package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"meddata/internal/models"
	"meddata/internal/repositories"
	"meddata/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordFixture struct {
	records     *MockOwnedStore[models.Record]
	courses     *MockOwnedStore[models.TreatmentCourse]
	attachments *MockAttachmentStore
	events      *MockPublisher
	service     *services.RecordService
}

func newRecordFixture() *recordFixture {
	f := &recordFixture{
		records:     new(MockOwnedStore[models.Record]),
		courses:     new(MockOwnedStore[models.TreatmentCourse]),
		attachments: new(MockAttachmentStore),
		events:      new(MockPublisher),
	}
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.service = services.NewRecordService(f.records, f.courses, f.attachments, f.events, quietLogger())
	return f
}

func optional[V any](v V) **V {
	p := &v
	return &p
}

func TestRecordService_CreateRecordWithAttachment(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resourceType := "Observation"
	content := strings.NewReader("data")

	f.attachments.On("Save", ctx, uint(5), "scan.png", content).Return("/uploads/5_1.png", nil).Once()
	f.records.On("Create", ctx, uint(5), mock.AnythingOfType("*models.Record")).Return(nil).Once()

	record, err := f.service.CreateRecord(ctx, 5, models.RecordPatch{
		ResourceType:  &resourceType,
		Date:          &date,
		LabName:       optional("Central lab"),
		AttachmentURL: optional("http://injected"),
	}, &services.Attachment{Filename: "scan.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "Observation", record.ResourceType)
	assert.Equal(t, "Central lab", *record.LabName)
	assert.Equal(t, "/uploads/5_1.png", *record.AttachmentURL)
	f.events.AssertCalled(t, "Publish", services.EventRecordCreated, record)
}

func TestRecordService_CreateRecordForeignCourse(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	f.courses.On("GetOne", ctx, uint(9), uint(5)).Return(nil, repositories.ErrNotFound)

	courseID := uint(9)
	_, err := f.service.CreateRecord(ctx, 5, models.RecordPatch{CourseID: optional(courseID)}, nil)
	assert.ErrorIs(t, err, services.ErrCourseNotFound)
	f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordService_UpdateRecordKeepsAttachment(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	old := "/uploads/5_1.png"
	existing := &models.Record{ID: 3, OwnerID: 5, AttachmentURL: &old}
	updated := &models.Record{ID: 3, OwnerID: 5, AttachmentURL: &old, DoctorName: *optional("Dr. Who")}

	f.records.On("GetOne", ctx, uint(3), uint(5)).Return(existing, nil)
	f.records.On("Update", ctx, uint(3), uint(5), mock.MatchedBy(func(p models.Patch[models.Record]) bool {
		return p.(models.RecordPatch).AttachmentURL == nil
	})).Return(updated, nil).Once()

	record, err := f.service.UpdateRecord(ctx, 3, 5, models.RecordPatch{DoctorName: optional("Dr. Who")}, nil)
	require.NoError(t, err)
	assert.Equal(t, old, *record.AttachmentURL)
	f.attachments.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestRecordService_UpdateRecordReplacesAttachment(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	old, fresh := "/uploads/5_1.png", "/uploads/5_2.pdf"
	content := strings.NewReader("pdf")

	f.records.On("GetOne", ctx, uint(3), uint(5)).Return(&models.Record{ID: 3, AttachmentURL: &old}, nil)
	f.attachments.On("Save", ctx, uint(5), "new.pdf", content).Return(fresh, nil).Once()
	f.records.On("Update", ctx, uint(3), uint(5), mock.Anything).Return(&models.Record{ID: 3, AttachmentURL: &fresh}, nil).Once()
	f.attachments.On("Remove", ctx, old).Return(nil).Once()

	record, err := f.service.UpdateRecord(ctx, 3, 5, models.RecordPatch{}, &services.Attachment{Filename: "new.pdf", Content: content})
	require.NoError(t, err)
	assert.Equal(t, fresh, *record.AttachmentURL)
	f.attachments.AssertExpectations(t)
}

func TestRecordService_NotFound(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	f.records.On("GetOne", ctx, uint(3), uint(6)).Return(nil, repositories.ErrNotFound)
	f.records.On("Delete", ctx, uint(3), uint(6)).Return(nil, repositories.ErrNotFound)

	_, err := f.service.GetRecord(ctx, 3, 6)
	assert.ErrorIs(t, err, services.ErrRecordNotFound)
	_, err = f.service.UpdateRecord(ctx, 3, 6, models.RecordPatch{}, nil)
	assert.ErrorIs(t, err, services.ErrRecordNotFound)
	_, err = f.service.DeleteRecord(ctx, 3, 6)
	assert.ErrorIs(t, err, services.ErrRecordNotFound)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRecordService_DeleteRecordRemovesAttachment(t *testing.T) {
	f := newRecordFixture()
	ctx := context.Background()
	url := "/uploads/5_1.png"
	deleted := &models.Record{ID: 3, ResourceType: "Encounter", AttachmentURL: &url}
	f.records.On("Delete", ctx, uint(3), uint(5)).Return(deleted, nil)
	f.attachments.On("Remove", ctx, url).Return(nil).Once()

	record, err := f.service.DeleteRecord(ctx, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "Encounter", record.ResourceType)
	f.attachments.AssertExpectations(t)
	f.events.AssertCalled(t, "Publish", services.EventRecordDeleted, deleted)
}
