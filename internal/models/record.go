package models

import "time"

// Record is a clinical entry in the user's timeline: a visit, a lab result, a
// prescription and so on, told apart by ResourceType.
type Record struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OwnerID           uint      `json:"owner_id" gorm:"index;not null"`
	CourseID          *uint     `json:"course_id" gorm:"index"`
	ResourceType      string    `json:"resource_type" gorm:"type:varchar(64);not null"`
	Date              time.Time `json:"date" gorm:"index;not null"`
	DoctorName        *string   `json:"doctor_name"`
	ClinicName        *string   `json:"clinic_name"`
	PatientComplaints *string   `json:"patient_complaints" gorm:"type:text"`
	ConclusionText    *string   `json:"conclusion_text" gorm:"type:text"`
	DiagnosisCode     *string   `json:"diagnosis_code" gorm:"type:varchar(32)"`
	MedicationName    *string   `json:"medication_name"`
	AttachmentURL     *string   `json:"attachment_url"`
	LabName           *string   `json:"lab_name"`
	TestName          *string   `json:"test_name"`
	Result            *string   `json:"result"`
	ReferenceRange    *string   `json:"reference_range"`
}

func (r *Record) SetOwnerID(id uint) { r.OwnerID = id }

// RecordPatch carries the record fields present in an update form. A field
// holding a nil inner pointer clears the column.
type RecordPatch struct {
	ResourceType      *string
	Date              *time.Time
	CourseID          **uint
	DoctorName        **string
	ClinicName        **string
	PatientComplaints **string
	ConclusionText    **string
	DiagnosisCode     **string
	MedicationName    **string
	AttachmentURL     **string
	LabName           **string
	TestName          **string
	Result            **string
	ReferenceRange    **string
}

// Apply writes the present fields onto row.
func (p RecordPatch) Apply(row *Record) {
	if p.ResourceType != nil {
		row.ResourceType = *p.ResourceType
	}
	if p.Date != nil {
		row.Date = *p.Date
	}
	replaceIfPresent(&row.CourseID, p.CourseID)
	replaceIfPresent(&row.DoctorName, p.DoctorName)
	replaceIfPresent(&row.ClinicName, p.ClinicName)
	replaceIfPresent(&row.PatientComplaints, p.PatientComplaints)
	replaceIfPresent(&row.ConclusionText, p.ConclusionText)
	replaceIfPresent(&row.DiagnosisCode, p.DiagnosisCode)
	replaceIfPresent(&row.MedicationName, p.MedicationName)
	replaceIfPresent(&row.AttachmentURL, p.AttachmentURL)
	replaceIfPresent(&row.LabName, p.LabName)
	replaceIfPresent(&row.TestName, p.TestName)
	replaceIfPresent(&row.Result, p.Result)
	replaceIfPresent(&row.ReferenceRange, p.ReferenceRange)
}

func replaceIfPresent[V any](dst **V, src **V) {
	if src != nil {
		*dst = *src
	}
}

// ToRecord builds a new row from a create form: every present field is set.
func (p RecordPatch) ToRecord() *Record {
	r := &Record{}
	p.Apply(r)
	return r
}
