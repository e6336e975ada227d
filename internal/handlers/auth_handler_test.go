package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jcmandujano/odontofy-api/internal/handlers"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func authRouter() *gin.Engine {
	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handlers.LoginHandler)
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/password-reset", handlers.RequestPasswordResetHandler)
		auth.POST("/password-reset/confirm", handlers.ResetPasswordHandler)
	}
	return r
}

func TestRegisterThenLogin(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	register := map[string]interface{}{
		"name":      "Juan",
		"last_name": "Mandujano",
		"email":     "juan@odontofy.test",
		"password":  "supersecreta",
	}
	rr := performRequest(r, http.MethodPost, "/api/auth/register", register)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "supersecreta") {
		t.Fatalf("password leaked in register response")
	}

	login := map[string]interface{}{"username": "juan@odontofy.test", "password": "supersecreta"}
	rr = performRequest(r, http.MethodPost, "/api/auth/login", login)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rr, &resp)
	if resp.Token == "" {
		t.Fatalf("login response missing token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcta12"), bcrypt.DefaultCost)
	user := models.User{Name: "Juan", LastName: "M", Email: "juan@odontofy.test", Password: string(hash), Status: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := authRouter()
	login := map[string]interface{}{"username": "juan@odontofy.test", "password": "incorrecta"}
	rr := performRequest(r, http.MethodPost, "/api/auth/login", login)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("wrong password must be rejected, got %d", rr.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	r := authRouter()

	register := map[string]interface{}{
		"name":      "Juan",
		"last_name": "Mandujano",
		"email":     "juan@odontofy.test",
		"password":  "supersecreta",
	}
	if rr := performRequest(r, http.MethodPost, "/api/auth/register", register); rr.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", rr.Code)
	}
	if rr := performRequest(r, http.MethodPost, "/api/auth/register", register); rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email must be rejected, got %d", rr.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("vieja1234"), bcrypt.DefaultCost)
	user := models.User{Name: "Juan", LastName: "M", Email: "juan@odontofy.test", Password: string(hash), Status: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	r := authRouter()

	// Запрос сброса создает токен; письмо в тестах не уходит (SMTP не настроен),
	// ответ все равно 200.
	rr := performRequest(r, http.MethodPost, "/api/auth/password-reset", map[string]interface{}{"email": user.Email})
	if rr.Code != http.StatusOK {
		t.Fatalf("password reset request: status %d", rr.Code)
	}

	var reset models.PasswordReset
	if err := db.Where("user_id = ?", user.ID).First(&reset).Error; err != nil {
		t.Fatalf("reset token not created: %v", err)
	}

	rr = performRequest(r, http.MethodPost, "/api/auth/password-reset/confirm", map[string]interface{}{
		"token":    reset.Token,
		"password": "nueva12345",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("password reset confirm: status %d, body %s", rr.Code, rr.Body.String())
	}

	// Новый пароль действует, токен одноразовый.
	login := map[string]interface{}{"username": user.Email, "password": "nueva12345"}
	if rr := performRequest(r, http.MethodPost, "/api/auth/login", login); rr.Code != http.StatusOK {
		t.Fatalf("login with new password: status %d", rr.Code)
	}
	rr = performRequest(r, http.MethodPost, "/api/auth/password-reset/confirm", map[string]interface{}{
		"token":    reset.Token,
		"password": "otra123456",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("used token must be rejected, got %d", rr.Code)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "juan@odontofy.test")
	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-1 * time.Minute),
	}
	if err := db.Create(&reset).Error; err != nil {
		t.Fatalf("seed reset: %v", err)
	}

	r := authRouter()
	rr := performRequest(r, http.MethodPost, "/api/auth/password-reset/confirm", map[string]interface{}{
		"token":    reset.Token,
		"password": "nueva12345",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expired token must be rejected, got %d", rr.Code)
	}
}
