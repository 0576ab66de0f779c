package models

// Allergy is shared reference data, deduplicated by name.
type Allergy struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
}

func (a *Allergy) SetName(name string) { a.Name = name }

// ChronicDisease is shared reference data, deduplicated by name and by ICD-10 code.
type ChronicDisease struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	ICD10Code *string `json:"icd10_code" gorm:"column:icd10_code;type:varchar(16);uniqueIndex"`
}

func (d *ChronicDisease) SetName(name string) { d.Name = name }
