package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Reminder is a stored recurrence preference: a title, a time of day and the
// weekdays (0=Monday .. 6=Sunday) it repeats on. Nothing here fires it.
type Reminder struct {
	ID         uint                     `json:"id" gorm:"primaryKey"`
	OwnerID    uint                     `json:"owner_id" gorm:"index;not null"`
	Title      string                   `json:"title" gorm:"type:varchar(255);not null"`
	Time       datatypes.Time           `json:"time" gorm:"not null"`
	DaysOfWeek datatypes.JSONSlice[int] `json:"days_of_week"`
	IsActive   bool                     `json:"is_active" gorm:"not null"`
}

func (r *Reminder) SetOwnerID(id uint) { r.OwnerID = id }

// ErrInvalidTimeOfDay is returned for times not in HH:MM or HH:MM:SS form.
var ErrInvalidTimeOfDay = errors.New("time must be HH:MM or HH:MM:SS")

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (datatypes.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidTimeOfDay, s)
}

// ReminderCreate is the payload for a new reminder.
type ReminderCreate struct {
	Title      string `json:"title" validate:"required,max=255"`
	Time       string `json:"time" validate:"required,timeofday"`
	DaysOfWeek []int  `json:"days_of_week" validate:"unique,dive,min=0,max=6"`
	IsActive   *bool  `json:"is_active"`
}

// ToModel converts the payload; reminders are active unless told otherwise.
func (c ReminderCreate) ToModel() (*Reminder, error) {
	tod, err := ParseTimeOfDay(c.Time)
	if err != nil {
		return nil, err
	}
	days := c.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	r := &Reminder{
		Title:      c.Title,
		Time:       tod,
		DaysOfWeek: datatypes.NewJSONSlice(days),
		IsActive:   true,
	}
	if c.IsActive != nil {
		r.IsActive = *c.IsActive
	}
	return r, nil
}

// ReminderPatch is a partial reminder update.
type ReminderPatch struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=255"`
	Time       *string `json:"time" validate:"omitempty,timeofday"`
	DaysOfWeek *[]int  `json:"days_of_week" validate:"omitempty,unique,dive,min=0,max=6"`
	IsActive   *bool   `json:"is_active"`

	parsedTime *datatypes.Time
}

// Normalize parses the time field ahead of Apply.
func (p *ReminderPatch) Normalize() error {
	if p.Time == nil {
		return nil
	}
	tod, err := ParseTimeOfDay(*p.Time)
	if err != nil {
		return err
	}
	p.parsedTime = &tod
	return nil
}

// Apply writes the set fields onto row. Normalize must have run first.
func (p ReminderPatch) Apply(row *Reminder) {
	if p.Title != nil {
		row.Title = *p.Title
	}
	if p.parsedTime != nil {
		row.Time = *p.parsedTime
	}
	if p.DaysOfWeek != nil {
		days := *p.DaysOfWeek
		if days == nil {
			days = []int{}
		}
		row.DaysOfWeek = datatypes.NewJSONSlice(days)
	}
	if p.IsActive != nil {
		row.IsActive = *p.IsActive
	}
}
