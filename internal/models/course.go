package models

import "gorm.io/gorm"

// StatusActive is the default status of courses and complaints.
const StatusActive = "active"

// TreatmentCourse groups the records and complaints of one care episode.
type TreatmentCourse struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OwnerID    uint        `json:"owner_id" gorm:"index;not null"`
	Name       string      `json:"name" gorm:"type:varchar(255);not null"`
	StartDate  *Date       `json:"start_date"`
	Status     string      `json:"status" gorm:"type:varchar(32);not null"`
	Records    []Record    `json:"records" gorm:"foreignKey:CourseID"`
	Complaints []Complaint `json:"complaints" gorm:"foreignKey:CourseID"`
}

func (c *TreatmentCourse) SetOwnerID(id uint) { c.OwnerID = id }

func (c *TreatmentCourse) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

// CourseCreate is the payload for opening a treatment course.
type CourseCreate struct {
	Name      string  `json:"name" validate:"required,max=255"`
	StartDate *Date   `json:"start_date"`
	Status    *string `json:"status" validate:"omitempty,max=32"`
}

// ToModel converts the payload into a course without an owner.
func (c CourseCreate) ToModel() *TreatmentCourse {
	course := &TreatmentCourse{
		Name:       c.Name,
		StartDate:  c.StartDate,
		Records:    []Record{},
		Complaints: []Complaint{},
	}
	if c.Status != nil {
		course.Status = *c.Status
	}
	return course
}
