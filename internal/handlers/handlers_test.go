package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/internal/handlers"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB открывает in-memory SQLite с включенными внешними ключами
// и подменяет глобальное подключение на время теста.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
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
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("test-secret")
	return db
}

// fakeAuth подставляет user_id в контекст вместо полного JWT-цикла.
func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Test", LastName: "Doctor", Email: email, Password: "x", Status: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedPatient(t *testing.T, db *gorm.DB, userID uint, name string) models.Patient {
	t.Helper()
	patient := models.Patient{UserID: userID, Name: name, LastName: "Paciente", Status: true}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return patient
}

func seedConcept(t *testing.T, db *gorm.DB, description string, price float64) models.Concept {
	t.Helper()
	concept := models.Concept{Description: description, UnitPrice: price}
	if err := db.Create(&concept).Error; err != nil {
		t.Fatalf("seed concept: %v", err)
	}
	return concept
}

func seedPayment(t *testing.T, db *gorm.DB, userID, patientID uint, total float64) models.Payment {
	t.Helper()
	payment := models.Payment{
		UserID:      userID,
		PatientID:   patientID,
		PaymentDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Income:      total,
		Debt:        0,
		Total:       total,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return payment
}

// paymentRouter собирает маршруты платежей с фиктивной аутентификацией.
func paymentRouter(userID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", fakeAuth(userID))
	{
		api.GET("/patients/:id/payments", handlers.ListPaymentsHandler)
		api.POST("/patients/:id/payments", handlers.CreatePaymentHandler)
		api.GET("/patients/:id/payments/:paymentId", handlers.GetPaymentHandler)
		api.PUT("/patients/:id/payments/:paymentId", handlers.UpdatePaymentHandler)
		api.DELETE("/patients/:id/payments/:paymentId", handlers.DeletePaymentHandler)
		api.GET("/payments/balance", handlers.GetBalanceHandler)
	}
	return r
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}
