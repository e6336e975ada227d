// odontofy-api/models/evolution_note.go
package models

import "gorm.io/gorm"

// EvolutionNote - запись в дневнике лечения пациента.
type EvolutionNote struct {
	gorm.Model
	PatientID uint   `json:"patient_id" gorm:"not null;index"`
	Note      string `json:"note" gorm:"type:text"`
}
