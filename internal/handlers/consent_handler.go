// odontofy-api/internal/handlers/consent_handler.go
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

// UserConsentInput - тело запроса для шаблонов согласий врача.
type UserConsentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
}

// SignedConsentInput - тело запроса для подписанного согласия пациента.
type SignedConsentInput struct {
	ConsentID  uint   `json:"consent_id" binding:"required"`
	PatientID  uint   `json:"patient_id" binding:"required"`
	SignedDate string `json:"signed_date" binding:"required"`
	FileURL    string `json:"file_url" binding:"required"`
}

// ListConsentsHandler возвращает каталог шаблонов согласий.
func ListConsentsHandler(c *gin.Context) {
	var consents []models.InformedConsent
	if err := config.DB.Order("id asc").Find(&consents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los consentimientos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consents": consents})
}

// ListUserConsentsHandler возвращает объединенный список шаблонов врача:
// каталожные шаблоны без персональной копии плюс все шаблоны врача.
func ListUserConsentsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var catalog []models.InformedConsent
	if err := config.DB.Order("id asc").Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los consentimientos"})
		return
	}

	var userConsents []models.UserInformedConsent
	if err := config.DB.Where("user_id = ?", userID).Order("id asc").Find(&userConsents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los consentimientos"})
		return
	}

	personalized := make(map[uint]struct{}, len(userConsents))
	for _, uc := range userConsents {
		if uc.InformedConsentID != nil {
			personalized[*uc.InformedConsentID] = struct{}{}
		}
	}

	type consentView struct {
		ID                uint   `json:"id"`
		InformedConsentID *uint  `json:"informed_consent_id,omitempty"`
		Name              string `json:"name"`
		Description       string `json:"description"`
		FileURL           string `json:"file_url"`
		IsCustom          bool   `json:"is_custom"`
		IsGlobal          bool   `json:"is_global"`
	}

	result := make([]consentView, 0, len(catalog)+len(userConsents))
	for _, consent := range catalog {
		if _, ok := personalized[consent.ID]; ok {
			continue
		}
		result = append(result, consentView{
			ID:          consent.ID,
			Name:        consent.Name,
			Description: consent.Description,
			FileURL:     consent.FileURL,
			IsGlobal:    true,
		})
	}
	for _, uc := range userConsents {
		result = append(result, consentView{
			ID:                uc.ID,
			InformedConsentID: uc.InformedConsentID,
			Name:              uc.Name,
			Description:       uc.Description,
			FileURL:           uc.FileURL,
			IsCustom:          uc.IsCustom,
		})
	}

	c.JSON(http.StatusOK, gin.H{"consents": result})
}

// CreateUserConsentHandler создает собственный шаблон согласия врача.
func CreateUserConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var input UserConsentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	consent := models.UserInformedConsent{
		UserID:      userID.(uint),
		Name:        input.Name,
		Description: input.Description,
		FileURL:     input.FileURL,
		IsCustom:    true,
	}
	if err := config.DB.Create(&consent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el consentimiento"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Consentimiento creado exitosamente",
		"consent": consent,
	})
}

// UpdateUserConsentHandler правит шаблон врача. Каталожный шаблон
// копируется в персональную запись, как в каталоге услуг.
func UpdateUserConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("id")

	var input UserConsentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var catalogConsent models.InformedConsent
	err := config.DB.First(&catalogConsent, id).Error
	if err == nil {
		clone := models.UserInformedConsent{
			UserID:            userID.(uint),
			InformedConsentID: &catalogConsent.ID,
			Name:              catalogConsent.Name,
			Description:       catalogConsent.Description,
			FileURL:           catalogConsent.FileURL,
			IsCustom:          false,
		}
		if input.Name != "" {
			clone.Name = input.Name
		}
		if input.Description != "" {
			clone.Description = input.Description
		}
		if input.FileURL != "" {
			clone.FileURL = input.FileURL
		}

		if err := config.DB.Create(&clone).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el consentimiento"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Consentimiento copiado y personalizado",
			"consent": clone,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el consentimiento"})
		return
	}

	var userConsent models.UserInformedConsent
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&userConsent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consentimiento no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el consentimiento"})
		return
	}

	if input.Name != "" {
		userConsent.Name = input.Name
	}
	if input.Description != "" {
		userConsent.Description = input.Description
	}
	if input.FileURL != "" {
		userConsent.FileURL = input.FileURL
	}

	if err := config.DB.Save(&userConsent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el consentimiento"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Consentimiento actualizado",
		"consent": userConsent,
	})
}

// DeleteUserConsentHandler удаляет шаблон врача.
func DeleteUserConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	result := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Delete(&models.UserInformedConsent{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el consentimiento"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consentimiento no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consentimiento eliminado exitosamente"})
}

// ListSignedConsentsHandler возвращает подписанные согласия врача,
// опционально отфильтрованные по пациенту.
func ListSignedConsentsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	query := config.DB.Where("doctor_id = ?", userID)
	if patientID := c.Query("patient_id"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var consents []models.SignedConsent
	if err := query.Order("signed_date desc").Find(&consents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los consentimientos firmados"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signed_consents": consents})
}

// GetSignedConsentHandler возвращает одно подписанное согласие врача.
func GetSignedConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var consent models.SignedConsent
	err := config.DB.Where("id = ? AND doctor_id = ?", c.Param("id"), userID).First(&consent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Consentimiento firmado no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signed_consent": consent})
}

// CreateSignedConsentHandler регистрирует подписанное согласие пациента.
func CreateSignedConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var input SignedConsentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	signedDate, err := time.Parse("2006-01-02", input.SignedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido, se espera YYYY-MM-DD"})
		return
	}

	// Пациент должен принадлежать врачу.
	var patient models.Patient
	err = config.DB.Where("id = ? AND user_id = ?", input.PatientID, userID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paciente no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	consent := models.SignedConsent{
		ConsentID:  input.ConsentID,
		PatientID:  input.PatientID,
		DoctorID:   userID.(uint),
		SignedDate: signedDate,
		FileURL:    input.FileURL,
	}
	if err := config.DB.Create(&consent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al registrar el consentimiento firmado"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Consentimiento firmado registrado",
		"signed_consent": consent,
	})
}

// DeleteSignedConsentHandler удаляет подписанное согласие врача.
func DeleteSignedConsentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	result := config.DB.Where("id = ? AND doctor_id = ?", c.Param("id"), userID).
		Delete(&models.SignedConsent{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el consentimiento firmado"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consentimiento firmado no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consentimiento firmado eliminado"})
}
