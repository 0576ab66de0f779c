package services

import (
	"context"

	"meddata/internal/models"
	"meddata/internal/repositories"
)

// CourseService manages treatment courses.
type CourseService struct {
	repo repositories.CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo repositories.CourseStore) *CourseService {
	return &CourseService{repo: repo}
}

// ListCourses returns the caller's courses with their records and complaints.
func (s *CourseService) ListCourses(ctx context.Context, ownerID uint) ([]models.TreatmentCourse, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// CreateCourse opens a treatment course for the owner.
func (s *CourseService) CreateCourse(ctx context.Context, ownerID uint, in models.CourseCreate) (*models.TreatmentCourse, error) {
	course := in.ToModel()
	if err := s.repo.Create(ctx, ownerID, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ComplaintService manages the append-only complaint history.
type ComplaintService struct {
	repo    repositories.ComplaintStore
	courses repositories.CourseStore
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(repo repositories.ComplaintStore, courses repositories.CourseStore) *ComplaintService {
	return &ComplaintService{repo: repo, courses: courses}
}

// ListComplaints returns the owner's complaints, newest first.
func (s *ComplaintService) ListComplaints(ctx context.Context, ownerID uint) ([]models.Complaint, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// CreateComplaint logs a complaint, optionally under one of the owner's courses.
func (s *ComplaintService) CreateComplaint(ctx context.Context, ownerID uint, in models.ComplaintCreate) (*models.Complaint, error) {
	if in.CourseID != nil {
		if err := checkCourseOwner(ctx, s.courses, ownerID, &in.CourseID); err != nil {
			return nil, err
		}
	}
	complaint := in.ToModel()
	if err := s.repo.Create(ctx, ownerID, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}
