// odontofy-api/internal/handlers/patient_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PatientInput - структура для создания и обновления карточки пациента.
type PatientInput struct {
	Name                         string                `json:"name" binding:"required"`
	MiddleName                   string                `json:"middle_name"`
	LastName                     string                `json:"last_name"`
	Gender                       string                `json:"gender"`
	DateOfBirth                  string                `json:"date_of_birth"`
	Phone                        string                `json:"phone"`
	MaritalStatus                string                `json:"marital_status"`
	Occupation                   string                `json:"occupation"`
	Address                      string                `json:"address"`
	EmergencyContactName         string                `json:"emergency_contact_name"`
	EmergencyContactPhone        string                `json:"emergency_contact_phone"`
	EmergencyContactRelationship string                `json:"emergency_contact_relationship"`
	ReasonForConsultation        string                `json:"reason_for_consultation"`
	RFC                          string                `json:"rfc"`
	FamilyMedicalHistory         models.MedicalHistory `json:"family_medical_history"`
	PersonalMedicalHistory       models.MedicalHistory `json:"personal_medical_history"`
	Email                        string                `json:"email"`
}

func applyPatientInput(patient *models.Patient, input PatientInput) {
	patient.Name = input.Name
	patient.MiddleName = input.MiddleName
	patient.LastName = input.LastName
	patient.Gender = input.Gender
	patient.Phone = input.Phone
	patient.MaritalStatus = input.MaritalStatus
	patient.Occupation = input.Occupation
	patient.Address = input.Address
	patient.EmergencyContactName = input.EmergencyContactName
	patient.EmergencyContactPhone = input.EmergencyContactPhone
	patient.EmergencyContactRelationship = input.EmergencyContactRelationship
	patient.ReasonForConsultation = input.ReasonForConsultation
	patient.RFC = input.RFC
	patient.FamilyMedicalHistory = input.FamilyMedicalHistory
	patient.PersonalMedicalHistory = input.PersonalMedicalHistory
	patient.Email = input.Email
	if input.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", input.DateOfBirth); err == nil {
			patient.DateOfBirth = &dob
		}
	}
}

// findOwnedPatient ищет активного пациента, принадлежащего врачу из контекста.
func findOwnedPatient(c *gin.Context, id interface{}) (models.Patient, bool) {
	userID, _ := c.Get("user_id")
	var patient models.Patient
	err := config.DB.Where("id = ? AND user_id = ? AND status = ?", id, userID, true).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paciente no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return models.Patient{}, false
	}
	return patient, true
}

// ListPatientsHandler возвращает пагинированный список пациентов врача.
func ListPatientsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var patients []models.Patient
	var totalRows int64

	query := config.DB.Model(&models.Patient{}).
		Where("user_id = ? AND status = ?", userID, true).
		Order("last_name asc, name asc")

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count patients"})
		return
	}

	if err := query.Scopes(Paginate(c)).Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch patients"})
		return
	}

	if patients == nil {
		patients = make([]models.Patient, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, patients, totalRows))
}

// GetPatientHandler возвращает карточку одного пациента.
func GetPatientHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}

// CreatePatientHandler заводит карточку нового пациента.
func CreatePatientHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var input PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	patient := models.Patient{
		UserID: userID.(uint),
		Status: true,
	}
	applyPatientInput(&patient, input)

	if err := config.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Se creo correctamente al paciente",
		"patient": patient,
	})
}

// UpdatePatientHandler обновляет карточку пациента.
func UpdatePatientHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	var input PatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	applyPatientInput(&patient, input)

	if err := config.DB.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update patient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "El paciente se actualizo correctamente",
		"patient": patient,
	})
}

// DeletePatientHandler деактивирует пациента (мягкое удаление через статус,
// история лечения и платежи остаются в БД).
func DeletePatientHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if err := config.DB.Model(&patient).Update("status", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate patient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "El paciente ha sido eliminado correctamente"})
}
