// odontofy-api/internal/handlers/mailer.go
package handlers

import (
	"fmt"
	"net/smtp"
	"os"
)

// sendMail отправляет простое текстовое письмо через SMTP-сервер из окружения.
// При пустом SMTP_HOST отправка отключена и возвращается ошибка, которую
// вызывающие логируют как предупреждение.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST environment variable not set, mailing disabled")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	return smtp.SendMail(host+":"+port, auth, from, []string{to}, msg)
}
