// odontofy-api/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/internal/routes"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в проде переменные приходят из окружения.
	if err := godotenv.Load(); err != nil {
		slog.Info("Файл .env не найден, используются переменные окружения")
	}

	config.InitJwtKey()
	config.ConnectDB()
	config.ConnectRedis()

	// Автомиграция схемы при старте.
	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Appointment{},
		&models.EvolutionNote{},
		&models.Concept{},
		&models.UserConcept{},
		&models.Payment{},
		&models.PaymentConcept{},
		&models.InformedConsent{},
		&models.UserInformedConsent{},
		&models.SignedConsent{},
		&models.PasswordReset{},
	)
	if err != nil {
		slog.Error("Ошибка автомиграции базы данных", "error", err)
		os.Exit(1)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		corsConfig.AllowOrigins = []string{frontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Загруженные файлы (аватары, подписанные согласия) раздаются статикой.
	r.Static("/static/uploads", "./static/uploads")

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Сервер запущен", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Ошибка запуска сервера", "error", err)
		os.Exit(1)
	}
}
