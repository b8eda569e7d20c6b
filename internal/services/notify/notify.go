// Package services содержит отправку уведомлений о новых заказах.
// Сообщения приходят из очереди заказов, письмо уходит администратору.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/lib/smtp"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// NotifyService отправляет письма о событиях заказов.
type NotifyService struct {
	transport  smtp.TransportInterface
	adminEmail string
	log        *slog.Logger
}

// NewNotifyService создает новый экземпляр NotifyService.
func NewNotifyService(transport smtp.TransportInterface, adminEmail string, log *slog.Logger) *NotifyService {
	return &NotifyService{
		transport:  transport,
		adminEmail: adminEmail,
		log:        log,
	}
}

// SendNewOrderNotification обрабатывает сообщение о созданном заказе
// и отправляет письмо администратору ресторана.
func (s *NotifyService) SendNewOrderNotification(body []byte) error {
	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal order event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := fmt.Sprintf("Новый заказ №%s", event.OrderID)

	var lines []string
	for _, item := range event.Items {
		lines = append(lines, fmt.Sprintf("- %s x%d = %.2f руб.", item.Name, item.Quantity, item.Price*float64(item.Quantity)))
	}
	delivery := "Самовывоз"
	if event.DeliveryType == models.DeliveryCourier {
		delivery = "Доставка"
	}
	bodyText := fmt.Sprintf("Поступил новый заказ №%s.\n\nСостав:\n%s\n\nИтого: %.2f руб.\nПолучение: %s\nТелефон клиента: %s",
		event.OrderID, strings.Join(lines, "\n"), event.Total, delivery, event.UserPhone)

	return s.sendEmail([]string{s.adminEmail}, subject, bodyText)
}

func (s *NotifyService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
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

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
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
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("subject", subject), slog.Any("to", to))
	return nil
}
