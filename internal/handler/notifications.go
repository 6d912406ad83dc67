package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

// publishMail sends a notification to the mail queue. Notification delivery
// is best-effort: failures are logged and never fail the business transition
// that triggered them.
func (h *Handler) publishMail(mail domain.MailMessage) {
	if h.mailChannel == nil {
		return
	}

	body, err := json.Marshal(mail)
	if err != nil {
		slog.Error("failed to encode notification", "type", mail.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("failed to publish notification", "type", mail.Type, "to", mail.To, "error", err)
	}
}
