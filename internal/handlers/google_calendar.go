// odontofy-api/internal/handlers/google_calendar.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jcmandujano/odontofy-api/config"
	"github.com/jcmandujano/odontofy-api/models"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const appointmentDuration = 30 * time.Minute

// calendarServiceForUser возвращает клиент Google Calendar с токенами врача.
// Возвращает (nil, nil), если врач не привязал Google-аккаунт: для вызывающих
// это признак "синхронизация не настроена", а не ошибка.
func calendarServiceForUser(userID interface{}) (*calendar.Service, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	if user.GoogleAccessToken == "" {
		return nil, nil
	}

	conf, err := config.GoogleOAuthConfig()
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	}
	if user.GoogleTokenExpiryDate != nil {
		token.Expiry = *user.GoogleTokenExpiryDate
	}

	ctx := context.Background()
	return calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, token)))
}

func calendarTimezone() string {
	if tz := os.Getenv("CALENDAR_TIMEZONE"); tz != "" {
		return tz
	}
	return "America/Mexico_City"
}

// buildCalendarEvent собирает событие календаря из данных приема.
func buildCalendarEvent(appointment *models.Appointment) (*calendar.Event, error) {
	loc, err := time.LoadLocation(calendarTimezone())
	if err != nil {
		return nil, err
	}

	startOfDay := appointment.AppointmentDate
	start := time.Date(startOfDay.Year(), startOfDay.Month(), startOfDay.Day(), 0, 0, 0, 0, loc)
	if t, err := time.Parse("15:04", appointment.AppointmentTime); err == nil {
		start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	}

	description := appointment.Note
	if description == "" {
		description = "Cita programada desde Odontofy"
	}

	return &calendar.Event{
		Summary:     fmt.Sprintf("Cita con paciente ID %d", appointment.PatientID),
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: calendarTimezone(),
		},
		End: &calendar.EventDateTime{
			DateTime: start.Add(appointmentDuration).Format(time.RFC3339),
			TimeZone: calendarTimezone(),
		},
	}, nil
}

// syncAppointmentCreated создает событие в календаре врача и запоминает его ID.
// Синхронизация best-effort: любая ошибка логируется и не влияет на запрос.
func syncAppointmentCreated(appointment *models.Appointment) {
	svc, err := calendarServiceForUser(appointment.UserID)
	if err != nil || svc == nil {
		if err != nil {
			slog.Warn("Не удалось получить клиент Google Calendar", "error", err, "user_id", appointment.UserID)
		}
		return
	}

	event, err := buildCalendarEvent(appointment)
	if err != nil {
		slog.Warn("Не удалось собрать событие календаря", "error", err, "appointment_id", appointment.ID)
		return
	}

	created, err := svc.Events.Insert("primary", event).Do()
	if err != nil {
		slog.Warn("Не удалось создать событие в Google Calendar", "error", err, "appointment_id", appointment.ID)
		return
	}

	if err := config.DB.Model(appointment).Update("google_event_id", created.Id).Error; err != nil {
		slog.Warn("Не удалось сохранить ID события календаря", "error", err, "appointment_id", appointment.ID)
		return
	}
	appointment.GoogleEventID = created.Id
}

// syncAppointmentUpdated обновляет событие календаря при переносе приема.
func syncAppointmentUpdated(appointment *models.Appointment) {
	if appointment.GoogleEventID == "" {
		// Событие не создавалось - пробуем создать сейчас.
		syncAppointmentCreated(appointment)
		return
	}

	svc, err := calendarServiceForUser(appointment.UserID)
	if err != nil || svc == nil {
		if err != nil {
			slog.Warn("Не удалось получить клиент Google Calendar", "error", err, "user_id", appointment.UserID)
		}
		return
	}

	event, err := buildCalendarEvent(appointment)
	if err != nil {
		slog.Warn("Не удалось собрать событие календаря", "error", err, "appointment_id", appointment.ID)
		return
	}

	if _, err := svc.Events.Update("primary", appointment.GoogleEventID, event).Do(); err != nil {
		slog.Warn("Не удалось обновить событие в Google Calendar", "error", err, "appointment_id", appointment.ID)
	}
}

// syncAppointmentDeleted удаляет событие календаря при отмене приема.
func syncAppointmentDeleted(appointment *models.Appointment) {
	if appointment.GoogleEventID == "" {
		return
	}

	svc, err := calendarServiceForUser(appointment.UserID)
	if err != nil || svc == nil {
		if err != nil {
			slog.Warn("Не удалось получить клиент Google Calendar", "error", err, "user_id", appointment.UserID)
		}
		return
	}

	if err := svc.Events.Delete("primary", appointment.GoogleEventID).Do(); err != nil {
		slog.Warn("Не удалось удалить событие из Google Calendar", "error", err, "appointment_id", appointment.ID)
	}
}
