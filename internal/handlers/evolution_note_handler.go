// odontofy-api/internal/handlers/evolution_note_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NoteInput - тело запроса для заметки дневника лечения.
type NoteInput struct {
	Note string `json:"note" binding:"required"`
}

// ListNotesHandler возвращает заметки по пациенту.
func ListNotesHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	var notes []models.EvolutionNote
	if err := config.DB.Where("patient_id = ?", patient.ID).Order("created_at desc").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GetNoteHandler возвращает одну заметку пациента.
func GetNoteHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	var note models.EvolutionNote
	err := config.DB.Where("id = ? AND patient_id = ?", c.Param("noteId"), patient.ID).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nota no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// CreateNoteHandler добавляет заметку в дневник лечения.
func CreateNoteHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	note := models.EvolutionNote{
		PatientID: patient.ID,
		Note:      input.Note,
	}
	if err := config.DB.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Se creo correctamente la informacion",
		"note":    note,
	})
}

// UpdateNoteHandler редактирует заметку.
func UpdateNoteHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	var note models.EvolutionNote
	err := config.DB.Where("id = ? AND patient_id = ?", c.Param("noteId"), patient.ID).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nota no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	note.Note = input.Note
	if err := config.DB.Save(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNoteHandler удаляет заметку.
func DeleteNoteHandler(c *gin.Context) {
	patient, ok := findOwnedPatient(c, c.Param("id"))
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND patient_id = ?", c.Param("noteId"), patient.ID).
		Delete(&models.EvolutionNote{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nota no encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "El registro ha sido eliminado correctamente"})
}
