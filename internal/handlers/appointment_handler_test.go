package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jcmandujano/odontofy-api/internal/handlers"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
)

func appointmentRouter(userID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", fakeAuth(userID))
	{
		api.GET("/appointments", handlers.ListAppointmentsHandler)
		api.POST("/appointments", handlers.CreateAppointmentHandler)
		api.GET("/appointments/:id", handlers.GetAppointmentHandler)
		api.PUT("/appointments/:id", handlers.UpdateAppointmentHandler)
		api.DELETE("/appointments/:id", handlers.DeleteAppointmentHandler)
	}
	return r
}

// У тестового врача нет привязанного Google-аккаунта, поэтому синхронизация
// календаря не выполняется и прием живет только в БД.
func TestAppointmentLifecycleWithoutCalendar(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "doc@odontofy.test")
	patient := seedPatient(t, db, user.ID, "Ana")
	r := appointmentRouter(user.ID)

	body := map[string]interface{}{
		"patient_id":       patient.ID,
		"appointment_date": "2026-09-10",
		"appointment_time": "10:30",
		"note":             "Revisión semestral",
	}
	rr := performRequest(r, http.MethodPost, "/api/appointments", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create appointment: status %d, body %s", rr.Code, rr.Body.String())
	}

	var appointment models.Appointment
	if err := db.Where("user_id = ?", user.ID).First(&appointment).Error; err != nil {
		t.Fatalf("appointment not stored: %v", err)
	}
	if appointment.Status != "pending" {
		t.Fatalf("default status = %q, want pending", appointment.Status)
	}
	if appointment.GoogleEventID != "" {
		t.Fatalf("calendar event id set without linked account")
	}

	body["status"] = "confirmed"
	rr = performRequest(r, http.MethodPut, fmt.Sprintf("/api/appointments/%d", appointment.ID), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("update appointment: status %d", rr.Code)
	}
	if err := db.First(&appointment, appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.Status != "confirmed" {
		t.Fatalf("status = %q, want confirmed", appointment.Status)
	}

	rr = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", appointment.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete appointment: status %d", rr.Code)
	}
	var count int64
	db.Model(&models.Appointment{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("appointment survived delete")
	}
}

func TestAppointmentOwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@odontofy.test")
	intruder := seedUser(t, db, "intruder@odontofy.test")
	patient := seedPatient(t, db, owner.ID, "Ana")

	appointment := models.Appointment{
		UserID:          owner.ID,
		PatientID:       patient.ID,
		AppointmentTime: "10:30",
		Status:          "pending",
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	r := appointmentRouter(intruder.ID)
	rr := performRequest(r, http.MethodGet, fmt.Sprintf("/api/appointments/%d", appointment.ID), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign appointment must look like 404, got %d", rr.Code)
	}
}
