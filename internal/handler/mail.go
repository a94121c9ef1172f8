package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

// publishMail encola un correo en email_queue. Un fallo acá no voltea la
// operación que lo originó: se registra y se sigue.
func (h *Handler) publishMail(msg domain.MailMessage) {
	body, err := json.Marshal(msg)
	if err != nil {
		slog.Error("no se pudo serializar el correo", "type", msg.Type, "error", err)
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
		slog.Error("no se pudo encolar el correo", "type", msg.Type, "to", msg.To, "error", err)
	}
}
