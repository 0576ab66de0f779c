package models

import (
	"time"

	"gorm.io/gorm"
)

// VitalsRecord is one measurement in an append-only log.
type VitalsRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Type      string    `json:"type" gorm:"type:varchar(64);index;not null"`
	Value     float64   `json:"value" gorm:"not null"`
	Unit      string    `json:"unit" gorm:"type:varchar(32)"`
}

func (v *VitalsRecord) SetOwnerID(id uint) { v.OwnerID = id }

// BeforeCreate stamps measurements submitted without a timestamp.
func (v *VitalsRecord) BeforeCreate(tx *gorm.DB) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	return nil
}

// VitalsCreate is the payload for appending a measurement.
type VitalsCreate struct {
	Type      string     `json:"type" validate:"required,max=64"`
	Value     *float64   `json:"value" validate:"required"`
	Unit      string     `json:"unit" validate:"required,max=32"`
	Timestamp *time.Time `json:"timestamp"`
}

// ToModel converts the payload into a row without an owner.
func (c VitalsCreate) ToModel() *VitalsRecord {
	v := &VitalsRecord{Type: c.Type, Unit: c.Unit}
	if c.Value != nil {
		v.Value = *c.Value
	}
	if c.Timestamp != nil {
		v.Timestamp = c.Timestamp.UTC()
	}
	return v
}
