// odontofy-api/models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User представляет врача-стоматолога, владельца всех остальных записей.
type User struct {
	gorm.Model
	Name        string     `json:"name"`
	MiddleName  string     `json:"middle_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Phone       string     `json:"phone"`
	Avatar      string     `json:"avatar"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"`
	Status      bool       `json:"status" gorm:"default:true"`

	// Токены Google для синхронизации календаря. NULL, пока аккаунт не привязан.
	GoogleAccessToken     string     `json:"-"`
	GoogleRefreshToken    string     `json:"-"`
	GoogleTokenExpiryDate *time.Time `json:"-"`
}
