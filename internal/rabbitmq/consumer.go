package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/notification-dispatcher/internal/catalog"
	"github.com/magabrotheeeer/notification-dispatcher/internal/lib/sl"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
	notificationservice "github.com/magabrotheeeer/notification-dispatcher/internal/services/notification"
)

// Service описывает интерфейс бизнес-логики отправки уведомления.
type Service interface {
	SendNotification(ctx context.Context, dto models.DummyNotification) error
}

// ConsumeNotifications запускает потребителя входящего потока уведомлений.
// Каждое сообщение — JSON в формате запроса на отправку; обработка идёт
// через тот же сервис, что и HTTP-маршрут /notify. Сообщения с бизнес-отказом
// (нет пользователя, типа или подписки) подтверждаются без повторной доставки:
// повтор не изменит решение. Инфраструктурные ошибки ведут к nack с requeue.
func ConsumeNotifications(ctx context.Context, ch *amqp.Channel, service Service, log *slog.Logger) error {
	const op = "rabbitmq.ConsumeNotifications"
	delivery, err := ch.Consume(
		InboundQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handleMessage(ctx, service, log, delivery.Body); err != nil {
						if nackErr := delivery.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func handleMessage(ctx context.Context, service Service, log *slog.Logger, body []byte) error {
	const op = "rabbitmq.handleMessage"

	var dto models.DummyNotification
	if err := json.Unmarshal(body, &dto); err != nil {
		log.Error("failed to decode inbound notification", sl.Err(err))
		// Некорректный JSON не станет корректным при повторе.
		return nil
	}
	if _, err := uuid.Parse(dto.UserID); err != nil {
		log.Error("inbound notification with malformed user id",
			slog.String("user_id", dto.UserID))
		return nil
	}

	err := service.SendNotification(ctx, dto)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notificationservice.ErrUserNotFound),
		errors.Is(err, notificationservice.ErrNotSubscribed),
		errors.Is(err, catalog.ErrTypeNotFound):
		log.Warn("inbound notification rejected", sl.Err(err),
			slog.String("user_id", dto.UserID),
			slog.String("notification_type", dto.NotificationType))
		return nil
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
