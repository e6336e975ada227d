// odontofy-api/models/password_reset.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordReset - одноразовый токен восстановления пароля.
type PasswordReset struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
}
