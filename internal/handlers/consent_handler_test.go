package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jcmandujano/odontofy-api/internal/handlers"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
)

func consentRouter(userID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", fakeAuth(userID))
	{
		api.GET("/user-consents", handlers.ListUserConsentsHandler)
		api.POST("/user-consents", handlers.CreateUserConsentHandler)
		api.PUT("/user-consents/:id", handlers.UpdateUserConsentHandler)
		api.DELETE("/user-consents/:id", handlers.DeleteUserConsentHandler)

		api.GET("/signed-consents", handlers.ListSignedConsentsHandler)
		api.POST("/signed-consents", handlers.CreateSignedConsentHandler)
		api.DELETE("/signed-consents/:id", handlers.DeleteSignedConsentHandler)
	}
	return r
}

func TestUpdateCatalogConsentClonesIt(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "doc@odontofy.test")
	catalog := models.InformedConsent{Name: "Extracción", Description: "Riesgos de extracción", FileURL: "/static/extraccion.pdf"}
	if err := db.Create(&catalog).Error; err != nil {
		t.Fatalf("seed catalog consent: %v", err)
	}

	r := consentRouter(user.ID)
	rr := performRequest(r, http.MethodPut, fmt.Sprintf("/api/user-consents/%d", catalog.ID),
		map[string]interface{}{"description": "Riesgos de extracción, versión de la clínica"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update catalog consent: status %d, body %s", rr.Code, rr.Body.String())
	}

	var original models.InformedConsent
	if err := db.First(&original, catalog.ID).Error; err != nil {
		t.Fatalf("catalog consent: %v", err)
	}
	if original.Description != "Riesgos de extracción" {
		t.Fatalf("catalog consent mutated: %q", original.Description)
	}

	var clone models.UserInformedConsent
	if err := db.Where("user_id = ? AND informed_consent_id = ?", user.ID, catalog.ID).First(&clone).Error; err != nil {
		t.Fatalf("clone not created: %v", err)
	}
	if clone.Name != "Extracción" || clone.IsCustom {
		t.Fatalf("clone fields wrong: name=%q is_custom=%v", clone.Name, clone.IsCustom)
	}
}

func TestSignedConsentRequiresOwnedPatient(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner@odontofy.test")
	intruder := seedUser(t, db, "intruder@odontofy.test")
	patient := seedPatient(t, db, owner.ID, "Ana")
	catalog := models.InformedConsent{Name: "Extracción"}
	if err := db.Create(&catalog).Error; err != nil {
		t.Fatalf("seed catalog consent: %v", err)
	}

	body := map[string]interface{}{
		"consent_id":  catalog.ID,
		"patient_id":  patient.ID,
		"signed_date": "2026-08-30",
		"file_url":    "/static/uploads/firmado.pdf",
	}

	// Чужой пациент выглядит как несуществующий.
	r := consentRouter(intruder.ID)
	rr := performRequest(r, http.MethodPost, "/api/signed-consents", body)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("signing for foreign patient must be 404, got %d", rr.Code)
	}

	r = consentRouter(owner.ID)
	rr = performRequest(r, http.MethodPost, "/api/signed-consents", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signed consent: status %d, body %s", rr.Code, rr.Body.String())
	}

	var signed models.SignedConsent
	if err := db.Where("doctor_id = ?", owner.ID).First(&signed).Error; err != nil {
		t.Fatalf("signed consent not stored: %v", err)
	}
	if signed.PatientID != patient.ID || signed.ConsentID != catalog.ID {
		t.Fatalf("signed consent references wrong: %+v", signed)
	}

	// Список фильтруется по врачу.
	rr = performRequest(r, http.MethodGet, fmt.Sprintf("/api/signed-consents?patient_id=%d", patient.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list signed consents: status %d", rr.Code)
	}
	var resp struct {
		SignedConsents []models.SignedConsent `json:"signed_consents"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.SignedConsents) != 1 {
		t.Fatalf("signed consent list length = %d, want 1", len(resp.SignedConsents))
	}
}
