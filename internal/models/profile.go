package models

// Profile is the user's health passport. Every User has exactly one, created
// empty at registration and only ever patched afterwards.
type Profile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	Address               *string `json:"address"`
	AttachedClinic        *string `json:"attached_clinic"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`

	Height             *float64 `json:"height"`
	Weight             *float64 `json:"weight"`
	OptimalWeight      *float64 `json:"optimal_weight"`
	BodyMassIndex      *float64 `json:"body_mass_index"`
	BasalMetabolism    *int     `json:"basal_metabolism"`
	SkeletalMuscleMass *float64 `json:"skeletal_muscle_mass"`
	FatMassKg          *float64 `json:"fat_mass_kg"`
	FatMassPercent     *float64 `json:"fat_mass_percent"`
	WaistHipRatio      *float64 `json:"waist_hip_ratio"`
	WaistCircumference *float64 `json:"waist_circumference"`
	FatCorrection      *float64 `json:"fat_correction"`
	MuscleCorrection   *float64 `json:"muscle_correction"`
	VisceralFat        *int     `json:"visceral_fat"`
	SubcutaneousFat    *float64 `json:"subcutaneous_fat"`

	TotalBioAge  *int `json:"total_bio_age"`
	PhysicalAge  *int `json:"physical_age"`
	VascularAge  *int `json:"vascular_age"`
	CardioAge    *int `json:"cardio_age"`
	ImmuneAge    *int `json:"immune_age"`
	MetabolicAge *int `json:"metabolic_age"`
	JointAge     *int `json:"joint_age"`
	KidneyAge    *int `json:"kidney_age"`
}

// ProfilePatch carries the profile fields a caller explicitly set.
type ProfilePatch struct {
	Address               *string `json:"address" validate:"omitempty,max=500"`
	AttachedClinic        *string `json:"attached_clinic" validate:"omitempty,max=255"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,max=50"`

	Height             *float64 `json:"height" validate:"omitempty,gte=0"`
	Weight             *float64 `json:"weight" validate:"omitempty,gte=0"`
	OptimalWeight      *float64 `json:"optimal_weight" validate:"omitempty,gte=0"`
	BodyMassIndex      *float64 `json:"body_mass_index" validate:"omitempty,gte=0"`
	BasalMetabolism    *int     `json:"basal_metabolism" validate:"omitempty,gte=0"`
	SkeletalMuscleMass *float64 `json:"skeletal_muscle_mass" validate:"omitempty,gte=0"`
	FatMassKg          *float64 `json:"fat_mass_kg" validate:"omitempty,gte=0"`
	FatMassPercent     *float64 `json:"fat_mass_percent" validate:"omitempty,gte=0,lte=100"`
	WaistHipRatio      *float64 `json:"waist_hip_ratio" validate:"omitempty,gte=0"`
	WaistCircumference *float64 `json:"waist_circumference" validate:"omitempty,gte=0"`
	FatCorrection      *float64 `json:"fat_correction"`
	MuscleCorrection   *float64 `json:"muscle_correction"`
	VisceralFat        *int     `json:"visceral_fat" validate:"omitempty,gte=0"`
	SubcutaneousFat    *float64 `json:"subcutaneous_fat" validate:"omitempty,gte=0"`

	TotalBioAge  *int `json:"total_bio_age" validate:"omitempty,gte=0"`
	PhysicalAge  *int `json:"physical_age" validate:"omitempty,gte=0"`
	VascularAge  *int `json:"vascular_age" validate:"omitempty,gte=0"`
	CardioAge    *int `json:"cardio_age" validate:"omitempty,gte=0"`
	ImmuneAge    *int `json:"immune_age" validate:"omitempty,gte=0"`
	MetabolicAge *int `json:"metabolic_age" validate:"omitempty,gte=0"`
	JointAge     *int `json:"joint_age" validate:"omitempty,gte=0"`
	KidneyAge    *int `json:"kidney_age" validate:"omitempty,gte=0"`
}

// Apply copies every set field of p onto row.
func (p ProfilePatch) Apply(row *Profile) {
	setIfPresent(&row.Address, p.Address)
	setIfPresent(&row.AttachedClinic, p.AttachedClinic)
	setIfPresent(&row.EmergencyContactName, p.EmergencyContactName)
	setIfPresent(&row.EmergencyContactPhone, p.EmergencyContactPhone)

	setIfPresent(&row.Height, p.Height)
	setIfPresent(&row.Weight, p.Weight)
	setIfPresent(&row.OptimalWeight, p.OptimalWeight)
	setIfPresent(&row.BodyMassIndex, p.BodyMassIndex)
	setIfPresent(&row.BasalMetabolism, p.BasalMetabolism)
	setIfPresent(&row.SkeletalMuscleMass, p.SkeletalMuscleMass)
	setIfPresent(&row.FatMassKg, p.FatMassKg)
	setIfPresent(&row.FatMassPercent, p.FatMassPercent)
	setIfPresent(&row.WaistHipRatio, p.WaistHipRatio)
	setIfPresent(&row.WaistCircumference, p.WaistCircumference)
	setIfPresent(&row.FatCorrection, p.FatCorrection)
	setIfPresent(&row.MuscleCorrection, p.MuscleCorrection)
	setIfPresent(&row.VisceralFat, p.VisceralFat)
	setIfPresent(&row.SubcutaneousFat, p.SubcutaneousFat)

	setIfPresent(&row.TotalBioAge, p.TotalBioAge)
	setIfPresent(&row.PhysicalAge, p.PhysicalAge)
	setIfPresent(&row.VascularAge, p.VascularAge)
	setIfPresent(&row.CardioAge, p.CardioAge)
	setIfPresent(&row.ImmuneAge, p.ImmuneAge)
	setIfPresent(&row.MetabolicAge, p.MetabolicAge)
	setIfPresent(&row.JointAge, p.JointAge)
	setIfPresent(&row.KidneyAge, p.KidneyAge)
}

// setIfPresent overwrites *dst with a copy of *src when src is non-nil.
func setIfPresent[V any](dst **V, src *V) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}
