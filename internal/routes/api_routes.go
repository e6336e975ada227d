// odontofy-api/internal/routes/api_routes.go
package routes

import (
	"github.com/jcmandujano/odontofy-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	// Группа для всех API-запросов с префиксом /api
	apiGroup := api.Group("/api")
	{
		// --- ПОЛЬЗОВАТЕЛИ ---
		users := apiGroup.Group("/users")
		{
			users.GET("", handlers.ListUsersHandler)
			users.GET("/:id", handlers.GetUserHandler)
			users.PUT("/:id", handlers.UpdateUserHandler)
			users.DELETE("/:id", handlers.DeleteUserHandler)
		}

		// --- ПАЦИЕНТЫ ---
		// Платежи и заметки эволюции вложены под пациента:
		// все операции проверяют принадлежность пациента врачу.
		patients := apiGroup.Group("/patients")
		{
			patients.GET("", handlers.ListPatientsHandler)
			patients.POST("", handlers.CreatePatientHandler)
			patients.GET("/:id", handlers.GetPatientHandler)
			patients.PUT("/:id", handlers.UpdatePatientHandler)
			patients.DELETE("/:id", handlers.DeletePatientHandler)

			// Платежи пациента
			patients.GET("/:id/payments", handlers.ListPaymentsHandler)
			patients.POST("/:id/payments", handlers.CreatePaymentHandler)
			patients.GET("/:id/payments/:paymentId", handlers.GetPaymentHandler)
			patients.PUT("/:id/payments/:paymentId", handlers.UpdatePaymentHandler)
			patients.DELETE("/:id/payments/:paymentId", handlers.DeletePaymentHandler)

			// Заметки эволюции
			patients.GET("/:id/notes", handlers.ListNotesHandler)
			patients.POST("/:id/notes", handlers.CreateNoteHandler)
			patients.GET("/:id/notes/:noteId", handlers.GetNoteHandler)
			patients.PUT("/:id/notes/:noteId", handlers.UpdateNoteHandler)
			patients.DELETE("/:id/notes/:noteId", handlers.DeleteNoteHandler)
		}

		// --- СВОДКА ПЛАТЕЖЕЙ ---
		payments := apiGroup.Group("/payments")
		{
			payments.GET("/balance", handlers.GetBalanceHandler)
			payments.GET("/export", handlers.ExportPaymentsHandler)
		}

		// --- ПРИЕМЫ ---
		appointments := apiGroup.Group("/appointments")
		{
			appointments.GET("", handlers.ListAppointmentsHandler)
			appointments.POST("", handlers.CreateAppointmentHandler)
			appointments.GET("/:id", handlers.GetAppointmentHandler)
			appointments.PUT("/:id", handlers.UpdateAppointmentHandler)
			appointments.DELETE("/:id", handlers.DeleteAppointmentHandler)
		}

		// --- КАТАЛОГ УСЛУГ ---
		concepts := apiGroup.Group("/concepts")
		{
			concepts.GET("", handlers.ListConceptsHandler)
			concepts.GET("/:id", handlers.GetConceptHandler)
		}

		userConcepts := apiGroup.Group("/user-concepts")
		{
			userConcepts.GET("", handlers.ListUserConceptsHandler)
			userConcepts.POST("", handlers.CreateUserConceptHandler)
			userConcepts.GET("/:id", handlers.GetUserConceptHandler)
			userConcepts.PUT("/:id", handlers.UpdateUserConceptHandler)
			userConcepts.DELETE("/:id", handlers.DeleteUserConceptHandler)
		}

		// --- СОГЛАСИЯ ---
		consents := apiGroup.Group("/consents")
		{
			consents.GET("", handlers.ListConsentsHandler)
		}

		userConsents := apiGroup.Group("/user-consents")
		{
			userConsents.GET("", handlers.ListUserConsentsHandler)
			userConsents.POST("", handlers.CreateUserConsentHandler)
			userConsents.PUT("/:id", handlers.UpdateUserConsentHandler)
			userConsents.DELETE("/:id", handlers.DeleteUserConsentHandler)
		}

		signedConsents := apiGroup.Group("/signed-consents")
		{
			signedConsents.GET("", handlers.ListSignedConsentsHandler)
			signedConsents.POST("", handlers.CreateSignedConsentHandler)
			signedConsents.GET("/:id", handlers.GetSignedConsentHandler)
			signedConsents.DELETE("/:id", handlers.DeleteSignedConsentHandler)
		}

		// --- ФАЙЛЫ ---
		apiGroup.POST("/upload", handlers.UploadFileHandler)

		// --- GOOGLE CALENDAR ---
		apiGroup.GET("/google/auth", handlers.GoogleAuthInitHandler)
	}
}
