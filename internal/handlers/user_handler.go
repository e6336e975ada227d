// odontofy-api/internal/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserResponse defines the structure for user data sent in API responses.
// This helps prevent accidental leakage of sensitive data like password hashes.
type UserResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	MiddleName  string     `json:"middle_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Phone       string     `json:"phone"`
	Avatar      string     `json:"avatar"`
	Email       string     `json:"email"`
	Status      bool       `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UpdateUserInput - структура для обновления профиля врача.
type UpdateUserInput struct {
	Name        string `json:"name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func userToResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		MiddleName:  user.MiddleName,
		LastName:    user.LastName,
		DateOfBirth: user.DateOfBirth,
		Phone:       user.Phone,
		Avatar:      user.Avatar,
		Email:       user.Email,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt,
	}
}

// ListUsersHandler возвращает пагинированный список врачей.
func ListUsersHandler(c *gin.Context) {
	var users []models.User
	var totalRows int64

	query := config.DB.Model(&models.User{}).Order("id asc")
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count users"})
		return
	}

	if err := query.Scopes(Paginate(c)).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch users"})
		return
	}

	responseData := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responseData = append(responseData, userToResponse(user))
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, responseData, totalRows))
}

// GetUserHandler возвращает одного врача по ID.
func GetUserHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

// UpdateUserHandler обновляет профиль врача. Смена email проверяется на дубликат.
func UpdateUserHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe un usuario con el id " + id})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Email != "" && input.Email != user.Email {
		var existing models.User
		if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El email que deseas actualizar ya existe"})
			return
		}
		user.Email = input.Email
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.MiddleName != "" {
		user.MiddleName = input.MiddleName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", input.DateOfBirth); err == nil {
			user.DateOfBirth = &dob
		}
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = string(hash)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

// DeleteUserHandler деактивирует врача (мягкое удаление через статус).
func DeleteUserHandler(c *gin.Context) {
	id := c.Param("id")
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No existe un usuario con el id " + id})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := config.DB.Model(&user).Update("status", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "El usuario ha sido eliminado correctamente"})
}
