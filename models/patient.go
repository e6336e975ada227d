// odontofy-api/models/patient.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// MedicalHistory - специальный тип для хранения анкеты анамнеза в JSONB.
type MedicalHistory map[string]interface{}

// Value преобразует анкету в JSON для сохранения в БД.
func (h MedicalHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

// Scan считывает данные из БД (в формате JSON) и преобразует их в анкету.
func (h *MedicalHistory) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}
	return json.Unmarshal(bytes, h)
}

// Patient представляет карточку пациента клиники.
// Запись всегда принадлежит одному врачу (UserID); удаление мягкое, через Status.
type Patient struct {
	gorm.Model
	UserID                       uint           `json:"user_id" gorm:"not null;index"`
	Name                         string         `json:"name"`
	MiddleName                   string         `json:"middle_name"`
	LastName                     string         `json:"last_name"`
	Gender                       string         `json:"gender"`
	DateOfBirth                  *time.Time     `json:"date_of_birth"`
	Phone                        string         `json:"phone"`
	MaritalStatus                string         `json:"marital_status"`
	Occupation                   string         `json:"occupation"`
	Address                      string         `json:"address"`
	EmergencyContactName         string         `json:"emergency_contact_name"`
	EmergencyContactPhone        string         `json:"emergency_contact_phone"`
	EmergencyContactRelationship string         `json:"emergency_contact_relationship"`
	ReasonForConsultation        string         `json:"reason_for_consultation"`
	RFC                          string         `json:"rfc"`
	FamilyMedicalHistory         MedicalHistory `json:"family_medical_history" gorm:"type:jsonb"`
	PersonalMedicalHistory       MedicalHistory `json:"personal_medical_history" gorm:"type:jsonb"`
	Email                        string         `json:"email"`
	Status                       bool           `json:"status" gorm:"default:true"`
}
