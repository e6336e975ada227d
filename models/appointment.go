// odontofy-api/models/appointment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment представляет запись пациента на прием.
type Appointment struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	PatientID       uint      `json:"patient_id" gorm:"not null;index"`
	AppointmentDate time.Time `json:"appointment_date" gorm:"not null"`
	AppointmentTime string    `json:"appointment_time" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"`
	Note            string    `json:"note" gorm:"type:text"`

	// Идентификатор события в Google Calendar. Пустая строка, если прием
	// не синхронизирован (у врача не привязан Google-аккаунт).
	GoogleEventID string `json:"google_event_id"`
}
