package models

import (
	"time"

	"gorm.io/gorm"
)

// Complaint is a free-text symptom report. Complaints are never edited or
// deleted; they form the user's symptom history.
type Complaint struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OwnerID       uint      `json:"owner_id" gorm:"index;not null"`
	CourseID      *uint     `json:"course_id" gorm:"index"`
	ComplaintText string    `json:"complaint_text" gorm:"type:text;not null"`
	StartDate     *Date     `json:"start_date"`
	Status        string    `json:"status" gorm:"type:varchar(32);not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

func (c *Complaint) SetOwnerID(id uint) { c.OwnerID = id }

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

// ComplaintCreate is the payload for logging a complaint.
type ComplaintCreate struct {
	ComplaintText string  `json:"complaint_text" validate:"required"`
	StartDate     *Date   `json:"start_date"`
	CourseID      *uint   `json:"course_id"`
	Status        *string `json:"status" validate:"omitempty,max=32"`
}

// ToModel converts the payload into a complaint without an owner.
func (c ComplaintCreate) ToModel() *Complaint {
	complaint := &Complaint{
		ComplaintText: c.ComplaintText,
		StartDate:     c.StartDate,
		CourseID:      c.CourseID,
	}
	if c.Status != nil {
		complaint.Status = *c.Status
	}
	return complaint
}
