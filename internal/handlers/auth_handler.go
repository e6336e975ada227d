// odontofy-api/internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Name        string `json:"name" binding:"required"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Avatar      string `json:"avatar"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// generateJWT подписывает токен доступа для врача. Срок жизни - сутки,
// как и в мобильном клиенте.
func generateJWT(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JwtKey)
}

// LoginHandler проверяет учетные данные и выдает JWT.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", input.Username).First(&user).Error; err != nil {
		// Не раскрываем, существует ли такой email.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario o contraseña no son correctos"})
		return
	}

	if !user.Status {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario con el que intentas acceder no existe"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario o contraseña no son correctos"})
		return
	}

	token, err := generateJWT(user.ID)
	if err != nil {
		slog.Error("Не удалось подписать токен", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "LOGIN OK",
		"user":    userToResponse(user),
		"token":   token,
	})
}

// RegisterHandler регистрирует нового врача.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var existing models.User
	err := config.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El email que deseas registrar ya existe"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:       input.Name,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Avatar:     input.Avatar,
		Email:      input.Email,
		Password:   string(hash),
		Status:     true,
	}
	if input.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", input.DateOfBirth); err == nil {
			user.DateOfBirth = &dob
		}
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario registrado correctamente",
		"user":    userToResponse(user),
	})
}

// RequestPasswordResetHandler создает одноразовый токен восстановления и
// отправляет письмо со ссылкой. Ответ одинаковый вне зависимости от того,
// существует ли email.
func RequestPasswordResetHandler(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	response := gin.H{"message": "Si el correo existe, recibirás un enlace de recuperación"}

	var user models.User
	if err := config.DB.Where("email = ? AND status = ?", input.Email, true).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, response)
		return
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := config.DB.Create(&reset).Error; err != nil {
		slog.Error("Не удалось создать токен восстановления", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s", os.Getenv("FRONTEND_URL"), reset.Token)
	if err := sendMail(user.Email, "Recuperación de contraseña",
		"Hola, "+user.Name+". Para restablecer tu contraseña visita: "+link); err != nil {
		// Письмо best-effort: токен уже создан, врач может запросить повторно.
		slog.Warn("Не удалось отправить письмо восстановления", "error", err, "user_id", user.ID)
	}

	c.JSON(http.StatusOK, response)
}

// ResetPasswordHandler меняет пароль по одноразовому токену.
func ResetPasswordHandler(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var reset models.PasswordReset
	if err := config.DB.Where("token = ? AND used = ?", input.Token, false).First(&reset).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token inválido o expirado"})
		return
	}
	if time.Now().After(reset.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token inválido o expirado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password", string(hash)).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used", true).Error
	})
	if txErr != nil {
		slog.Error("Не удалось сменить пароль", "error", txErr, "user_id", reset.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada correctamente"})
}
