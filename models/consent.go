// odontofy-api/models/consent.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// InformedConsent - глобальный шаблон информированного согласия.
type InformedConsent struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
}

// UserInformedConsent - шаблон согласия врача: собственный документ или
// персонализированная копия глобального шаблона.
type UserInformedConsent struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"not null;index"`
	InformedConsentID *uint  `json:"informed_consent_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	FileURL           string `json:"file_url"`
	IsCustom          bool   `json:"is_custom" gorm:"not null"`
}

// SignedConsent - подписанный пациентом экземпляр согласия.
type SignedConsent struct {
	gorm.Model
	ConsentID  uint      `json:"consent_id" gorm:"not null"`
	PatientID  uint      `json:"patient_id" gorm:"not null;index"`
	DoctorID   uint      `json:"doctor_id" gorm:"not null;index"`
	SignedDate time.Time `json:"signed_date" gorm:"not null"`
	FileURL    string    `json:"file_url"`
}
