package models

import "time"

// User represents an account holder. The password hash never leaves the server.
type User struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Email           string           `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword  string           `json:"-" gorm:"type:varchar(255);not null"`
	FirstName       *string          `json:"first_name" gorm:"type:varchar(100)"`
	LastName        *string          `json:"last_name" gorm:"type:varchar(100)"`
	BirthDate       *Date            `json:"birth_date"`
	IsActive        bool             `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time        `json:"-"`
	UpdatedAt       time.Time        `json:"-"`
	Profile         *Profile         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Allergies       []Allergy        `json:"allergies" gorm:"many2many:user_allergy_association;joinForeignKey:UserID;joinReferences:AllergyID"`
	ChronicDiseases []ChronicDisease `json:"chronic_diseases" gorm:"many2many:user_disease_association;joinForeignKey:UserID;joinReferences:DiseaseID"`
}

// UserCreate is the registration payload.
type UserCreate struct {
	Email             string  `json:"email" validate:"required,email,max=255"`
	Password          string  `json:"password" validate:"required"`
	FirstName         *string `json:"first_name" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name" validate:"omitempty,max=100"`
	BirthDate         *Date   `json:"birth_date"`
	CustomAllergy     *string `json:"custom_allergy" validate:"omitempty,max=255"`
	CustomDisease     *string `json:"custom_disease" validate:"omitempty,max=255"`
	AllergyIDs        []uint  `json:"allergy_ids"`
	ChronicDiseaseIDs []uint  `json:"chronic_disease_ids"`
}

// ReferenceLinks names the reference rows a new user is linked to.
type ReferenceLinks struct {
	AllergyIDs        []uint
	ChronicDiseaseIDs []uint
	CustomAllergy     string
	CustomDisease     string
}

// LoginRequest is the form-encoded login payload; Username carries the email.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// TokenResponse is returned by login and by share-token generation.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
