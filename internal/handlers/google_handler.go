// odontofy-api/internal/handlers/google_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// GoogleAuthInitHandler отправляет врача на страницу согласия Google.
// UID передается через state, чтобы callback знал, чьи токены сохранять.
func GoogleAuthInitHandler(c *gin.Context) {
	conf, err := config.GoogleOAuthConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid query parameter is required"})
		return
	}

	url := conf.AuthCodeURL(uid,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	c.Redirect(http.StatusFound, url)
}

// GoogleCallbackHandler обменивает код авторизации на токены и сохраняет их
// в записи врача. Ответ - маленькая страница, закрывающая popup и
// сообщающая результат фронтенду через postMessage.
func GoogleCallbackHandler(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan parámetros en la respuesta de Google."})
		return
	}

	conf, err := config.GoogleOAuthConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	failPage := fmt.Sprintf(`<script>window.opener.postMessage("google_sync_error", "%s");window.close();</script>`, frontendURL)

	token, err := conf.Exchange(c.Request.Context(), code)
	if err != nil {
		slog.Error("Не удалось обменять код авторизации Google", "error", err)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(failPage))
		return
	}

	uid, err := strconv.Atoi(state)
	if err != nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(failPage))
		return
	}

	var user models.User
	if err := config.DB.First(&user, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	updates := map[string]interface{}{
		"google_access_token":  token.AccessToken,
		"google_refresh_token": token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		updates["google_token_expiry_date"] = token.Expiry
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		slog.Error("Не удалось сохранить токены Google", "error", err, "user_id", user.ID)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(failPage))
		return
	}

	okPage := fmt.Sprintf(`<script>window.opener.postMessage("google_sync_success", "%s");window.close();</script>`, frontendURL)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(okPage))
}
