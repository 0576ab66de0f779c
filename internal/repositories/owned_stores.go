package repositories

import (
	"meddata/internal/models"

	"gorm.io/gorm"
)

type (
	RecordStore    = OwnedStore[models.Record]
	ReminderStore  = OwnedStore[models.Reminder]
	VitalsStore    = OwnedStore[models.VitalsRecord]
	CourseStore    = OwnedStore[models.TreatmentCourse]
	ComplaintStore = OwnedStore[models.Complaint]
)

// NewRecordRepository lists records newest first.
func NewRecordRepository(db *gorm.DB) RecordStore {
	return NewGORMOwnedRepository[models.Record](db, "record", "date DESC, id DESC")
}

// NewReminderRepository lists reminders by time of day.
func NewReminderRepository(db *gorm.DB) ReminderStore {
	return NewGORMOwnedRepository[models.Reminder](db, "reminder", "time ASC, id ASC")
}

// NewVitalsRepository lists measurements newest first.
func NewVitalsRepository(db *gorm.DB) VitalsStore {
	return NewGORMOwnedRepository[models.VitalsRecord](db, "vitals record", "timestamp DESC, id DESC")
}

// NewCourseRepository lists courses by start date with their records and
// complaints loaded.
func NewCourseRepository(db *gorm.DB) CourseStore {
	return NewGORMOwnedRepository[models.TreatmentCourse](db, "treatment course", "start_date DESC, id DESC",
		"Records", "Complaints")
}

// NewComplaintRepository lists complaints newest first.
func NewComplaintRepository(db *gorm.DB) ComplaintStore {
	return NewGORMOwnedRepository[models.Complaint](db, "complaint", "created_at DESC, id DESC")
}
