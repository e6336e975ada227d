// odontofy-api/internal/handlers/appointment_handler.go
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

// AppointmentInput - тело запроса для создания и обновления приема.
type AppointmentInput struct {
	PatientID       uint   `json:"patient_id"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Status          string `json:"status"`
	Note            string `json:"note"`
}

// ListAppointmentsHandler возвращает приемы врача.
func ListAppointmentsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var appointments []models.Appointment
	if err := config.DB.Where("user_id = ?", userID).
		Order("appointment_date asc, appointment_time asc").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// GetAppointmentHandler возвращает один прием по ID.
func GetAppointmentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var appointment models.Appointment
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cita no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

// CreateAppointmentHandler создает прием и, если у врача привязан
// Google-аккаунт, создает событие в его календаре. Синхронизация календаря
// best-effort: ее сбой не отменяет создание приема.
func CreateAppointmentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var input AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	appointmentDate, err := time.Parse("2006-01-02", input.AppointmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
		return
	}

	status := input.Status
	if status == "" {
		status = "pending"
	}

	appointment := models.Appointment{
		UserID:          userID.(uint),
		PatientID:       input.PatientID,
		AppointmentDate: appointmentDate,
		AppointmentTime: input.AppointmentTime,
		Status:          status,
		Note:            input.Note,
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}

	syncAppointmentCreated(&appointment)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "La cita se creó correctamente",
		"appointment": appointment,
	})
}

// UpdateAppointmentHandler переносит или редактирует прием и обновляет
// связанное событие календаря.
func UpdateAppointmentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var appointment models.Appointment
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe una cita con el id " + c.Param("id")})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	appointmentDate, err := time.Parse("2006-01-02", input.AppointmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Ожидается YYYY-MM-DD."})
		return
	}

	if input.PatientID != 0 {
		appointment.PatientID = input.PatientID
	}
	appointment.AppointmentDate = appointmentDate
	appointment.AppointmentTime = input.AppointmentTime
	if input.Status != "" {
		appointment.Status = input.Status
	}
	appointment.Note = input.Note

	if err := config.DB.Save(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update appointment"})
		return
	}

	syncAppointmentUpdated(&appointment)

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

// DeleteAppointmentHandler отменяет прием и удаляет событие из календаря.
func DeleteAppointmentHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var appointment models.Appointment
	err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe una cita con el id " + c.Param("id")})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := config.DB.Delete(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment"})
		return
	}

	syncAppointmentDeleted(&appointment)

	c.JSON(http.StatusOK, gin.H{"message": "La cita ha sido eliminada correctamente"})
}
