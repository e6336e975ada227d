// odontofy-api/config/jwt.go
package config

import (
	"log/slog"
	"os"
)

var JwtKey []byte

// InitJwtKey читает секретный ключ для подписи токенов из окружения.
func InitJwtKey() {
	secret := os.Getenv("SECRET_OR_PRIVATE_KEY")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения SECRET_OR_PRIVATE_KEY не установлена.")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
