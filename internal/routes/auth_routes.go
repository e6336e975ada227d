package routes

import (
	"github.com/jcmandujano/odontofy-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты для аутентификации.
// Эти маршруты не требуют middleware для проверки токена.
func RegisterAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handlers.LoginHandler)
		auth.POST("/register", handlers.RegisterHandler)

		// Сброс пароля: запрос письма и подтверждение по токену.
		auth.POST("/password-reset", handlers.RequestPasswordResetHandler)
		auth.POST("/password-reset/confirm", handlers.ResetPasswordHandler)
	}

	// Callback от Google приходит без нашего JWT, поэтому он публичный.
	// Пользователь определяется по параметру state.
	r.GET("/api/google/callback", handlers.GoogleCallbackHandler)
}
