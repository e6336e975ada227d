// odontofy-api/internal/handlers/concept_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ConceptView - единое представление концепта для каталога врача:
// глобальные концепты и персонализации отдаются одним списком.
type ConceptView struct {
	ID          uint    `json:"id"`
	ConceptID   *uint   `json:"concept_id,omitempty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	IsCustom    bool    `json:"is_custom"`
	IsGlobal    bool    `json:"is_global"`
}

// UserConceptInput - тело запроса для создания/правки концепта врача.
type UserConceptInput struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

// ListConceptsHandler возвращает глобальный каталог концептов.
func ListConceptsHandler(c *gin.Context) {
	var concepts []models.Concept
	if err := config.DB.Order("id asc").Find(&concepts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los conceptos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"concepts": concepts})
}

// GetConceptHandler возвращает один глобальный концепт.
func GetConceptHandler(c *gin.Context) {
	var concept models.Concept
	if err := config.DB.First(&concept, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concepto no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"concept": concept})
}

// ListUserConceptsHandler возвращает объединенный каталог врача:
// персонализации плюс глобальные концепты, которые врач не переопределял.
func ListUserConceptsHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var globalConcepts []models.Concept
	if err := config.DB.Order("id asc").Find(&globalConcepts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los conceptos"})
		return
	}

	var userConcepts []models.UserConcept
	if err := config.DB.Where("user_id = ?", userID).Order("id asc").Find(&userConcepts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los conceptos"})
		return
	}

	// Глобальный концепт скрывается, если у врача есть его персональная копия.
	personalized := make(map[uint]struct{}, len(userConcepts))
	for _, uc := range userConcepts {
		if uc.ConceptID != nil {
			personalized[*uc.ConceptID] = struct{}{}
		}
	}

	result := make([]ConceptView, 0, len(globalConcepts)+len(userConcepts))
	for _, concept := range globalConcepts {
		if _, ok := personalized[concept.ID]; ok {
			continue
		}
		result = append(result, ConceptView{
			ID:          concept.ID,
			Description: concept.Description,
			UnitPrice:   concept.UnitPrice,
			IsGlobal:    true,
		})
	}
	for _, uc := range userConcepts {
		result = append(result, ConceptView{
			ID:          uc.ID,
			ConceptID:   uc.ConceptID,
			Description: uc.Description,
			UnitPrice:   uc.UnitPrice,
			IsCustom:    uc.IsCustom,
		})
	}

	c.JSON(http.StatusOK, gin.H{"concepts": result})
}

// GetUserConceptHandler ищет концепт сначала среди персонализаций врача,
// затем в глобальном каталоге.
func GetUserConceptHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("id")

	var userConcept models.UserConcept
	err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&userConcept).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"concept": userConcept})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el concepto"})
		return
	}

	var concept models.Concept
	if err := config.DB.First(&concept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concepto no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el concepto"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"concept": concept})
}

// CreateUserConceptHandler создает собственную услугу врача.
func CreateUserConceptHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var input UserConceptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	concept := models.UserConcept{
		UserID:      userID.(uint),
		ConceptID:   nil,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		IsCustom:    true,
	}
	if err := config.DB.Create(&concept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el concepto"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Concepto creado exitosamente",
		"concept": concept,
	})
}

// UpdateUserConceptHandler правит концепт врача. Правка глобального концепта
// не трогает каталог: вместо этого создается персональная копия с
// переопределенными полями.
func UpdateUserConceptHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id := c.Param("id")

	var input UserConceptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var globalConcept models.Concept
	err := config.DB.First(&globalConcept, id).Error
	if err == nil {
		clone := models.UserConcept{
			UserID:      userID.(uint),
			ConceptID:   &globalConcept.ID,
			Description: globalConcept.Description,
			UnitPrice:   globalConcept.UnitPrice,
			IsCustom:    false,
		}
		if input.Description != "" {
			clone.Description = input.Description
		}
		if input.UnitPrice != 0 {
			clone.UnitPrice = input.UnitPrice
		}

		if err := config.DB.Create(&clone).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el concepto"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Concepto global copiado y personalizado",
			"concept": clone,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el concepto"})
		return
	}

	var userConcept models.UserConcept
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&userConcept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concepto no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el concepto"})
		return
	}

	if input.Description != "" {
		userConcept.Description = input.Description
	}
	if input.UnitPrice != 0 {
		userConcept.UnitPrice = input.UnitPrice
	}

	if err := config.DB.Save(&userConcept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al personalizar el concepto"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Concepto personalizado actualizado",
		"concept": userConcept,
	})
}

// DeleteUserConceptHandler удаляет персонализацию врача. Глобальный каталог
// через этот эндпоинт не изменяется.
func DeleteUserConceptHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	result := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Delete(&models.UserConcept{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el concepto"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Concepto no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Concepto eliminado exitosamente"})
}
