// Package sender отправляет гостям письма по событиям из очереди уведомлений.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/smtp"
	"github.com/magabrotheeeer/hotel-booking/internal/metrics"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
)

// Виды писем для метрик.
const (
	KindBookingCreated = "booking_created"
	KindBookingStatus  = "booking_status"
	KindGroupRequest   = "group_request"
	KindCheckIn        = "checkin_reminder"
)

// Service отправщик писем.
type Service struct {
	transport smtp.Dialer
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, transport smtp.Dialer) *Service {
	return &Service{transport: transport, log: log}
}

// Handlers обработчики для каждой очереди из rabbitmq.NotificationQueues.
func (s *Service) Handlers() map[string]func([]byte) error {
	return map[string]func([]byte) error{
		rabbitmq.KeyBookingCreated:      s.SendBookingCreated,
		rabbitmq.KeyBookingStatus:       s.SendBookingStatus,
		rabbitmq.KeyGroupRequestCreated: s.SendGroupRequestReceived,
		rabbitmq.KeyCheckInReminder:     s.SendCheckInReminder,
	}
}

// SendBookingCreated письмо о создании бронирования.
func (s *Service) SendBookingCreated(body []byte) error {
	var event models.BookingEvent
	if err := s.decode(body, &event); err != nil {
		return err
	}
	subject := "Booking Confirmation - " + event.HotelName
	text := fmt.Sprintf("Dear %s,\n\nThank you for your booking at %s.\n\n"+
		"Room: %s\nDates: %s\nBooking ID: %s\n\n"+
		"Your reservation is pending payment. It will be confirmed once the payment is received.",
		event.GuestName, event.HotelName, event.RoomName, event.Dates, event.BookingID)
	return s.send(KindBookingCreated, event.Email, subject, text)
}

// SendBookingStatus письмо о смене статуса бронирования.
func (s *Service) SendBookingStatus(body []byte) error {
	var event models.BookingEvent
	if err := s.decode(body, &event); err != nil {
		return err
	}
	subject := fmt.Sprintf("Booking %s - %s", statusTitle(event.Status), event.HotelName)
	text := fmt.Sprintf("Dear %s,\n\nThe status of your booking %s at %s (%s, %s) is now: %s.",
		event.GuestName, event.BookingID, event.HotelName, event.RoomName, event.Dates, event.Status)
	return s.send(KindBookingStatus, event.Email, subject, text)
}

// SendGroupRequestReceived подтверждение контакту групповой заявки.
func (s *Service) SendGroupRequestReceived(body []byte) error {
	var event models.GroupRequestEvent
	if err := s.decode(body, &event); err != nil {
		return err
	}
	subject := "Group Request Received - " + event.OrganizationName
	text := fmt.Sprintf("Dear %s,\n\nWe have received your accommodation request for %d guests (%s).\n"+
		"Request ID: %s\n\nA liaison officer will contact you shortly.",
		event.ContactName, event.GuestCount, event.Dates, event.RequestID)
	return s.send(KindGroupRequest, event.ContactEmail, subject, text)
}

// SendCheckInReminder напоминание о завтрашнем заезде.
func (s *Service) SendCheckInReminder(body []byte) error {
	var event models.BookingEvent
	if err := s.decode(body, &event); err != nil {
		return err
	}
	subject := "Check-in Tomorrow - " + event.HotelName
	text := fmt.Sprintf("Dear %s,\n\nThis is a reminder that your stay at %s starts tomorrow.\n\n"+
		"Room: %s\nDates: %s\nBooking ID: %s\n\nPlease bring your passport for check-in.",
		event.GuestName, event.HotelName, event.RoomName, event.Dates, event.BookingID)
	return s.send(KindCheckIn, event.Email, subject, text)
}

// decode разбирает тело сообщения. Битое сообщение не возвращается в очередь.
func (s *Service) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", rabbitmq.ErrDrop, err)
	}
	return nil
}

func statusTitle(status models.BookingStatus) string {
	s := strings.ReplaceAll(string(status), "_", " ")
	if s == "" {
		return "Update"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Service) send(kind, to, subject, text string) error {
	if to == "" {
		s.log.Warn("message without recipient", slog.String("kind", kind))
		return fmt.Errorf("empty recipient: %w", rabbitmq.ErrDrop)
	}
	if err := s.sendEmail([]string{to}, subject, text); err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err := client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
